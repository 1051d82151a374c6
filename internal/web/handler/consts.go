package handler

const (
	// RootPath is the root path of the api route group.
	RootPath = "/api"

	// ErrNilACDFatalLogMsg is used if the router, cfg or service pointer is nil.
	ErrNilACDFatalLogMsg = "router, cfg or service is nil"

	// MsgOK is the envelope message of a successful read or update.
	MsgOK = "ok"
	// MsgCreated is the envelope message of a successful create.
	MsgCreated = "created"
	// ErrInvalidBody is the envelope message of an unparsable request body.
	ErrInvalidBody = "invalid request body"
	// ErrValidationPrefix prefixes validation error messages.
	ErrValidationPrefix = "validation failed: "
)
