package errors

import "fmt"

var (
	ErrWorkerPanic        = fmt.Errorf("worker panic")
	ErrInvalidIdentifier  = fmt.Errorf("empty participant identifier")
	ErrEmptyMessage       = fmt.Errorf("message content is blank")
	ErrStorageUnavailable = fmt.Errorf("identity storage unavailable")
	ErrUnknownEvent       = fmt.Errorf("unknown transport event")
)
