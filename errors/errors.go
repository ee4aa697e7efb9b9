package errors

import "fmt"

var (
	ErrWorkerPanic = fmt.Errorf("worker panic")

	// Transport
	ErrNetwork        = fmt.Errorf("network unreachable")
	ErrServer         = fmt.Errorf("server error")
	ErrBadRequest     = fmt.Errorf("bad request")
	ErrForbidden      = fmt.Errorf("forbidden")
	ErrNotFound       = fmt.Errorf("not found")
	ErrSessionExpired = fmt.Errorf("session expired, please log in again")

	// Validation
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrInvalidPassword = fmt.Errorf("password must mix upper and lower case letters, digits and symbols")

	// Auth
	ErrNotAuthenticated = fmt.Errorf("not authenticated")

	// Media
	ErrMediaPermission = fmt.Errorf("media access denied, grant read permission on the file and retry")
	ErrMediaIndex      = fmt.Errorf("media index out of range")

	// Chat
	ErrEmptyDraft     = fmt.Errorf("nothing to send")
	ErrSendInProgress = fmt.Errorf("a message is already being sent")
	ErrMissingRoom    = fmt.Errorf("chat room is missing")
	ErrSelfContact    = fmt.Errorf("cannot contact yourself about your own item")
	ErrSessionClosed  = fmt.Errorf("chat session closed")
	ErrUnknownEvent   = fmt.Errorf("unknown socket event")
)
