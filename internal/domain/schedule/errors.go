package schedule

import "errors"

var (
	ErrPerformanceDateNotFound = errors.New("performance date not found")
	ErrInvalidMonth            = errors.New("invalid month format, expected YYYY-MM")
)
