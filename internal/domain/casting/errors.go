package casting

import "errors"

var (
	ErrCastingNotFound  = errors.New("casting not found")
	ErrRoleMismatch     = errors.New("actor role does not match the requested role")
	ErrActorUnavailable = errors.New("actor is unavailable on this date")
	ErrNoLinkedEmail    = errors.New("actor has no linked account email")
)
