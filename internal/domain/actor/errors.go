package actor

import "errors"

var (
	ErrActorNotFound   = errors.New("actor not found")
	ErrInvalidRoleType = errors.New("role type must be MALE_LEAD or FEMALE_LEAD")
)
