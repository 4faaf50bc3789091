package mockapi

import "fmt"

// Envelope codes the mock backend answers with. Zero is success.
const (
	CodeOK                  = 0
	CodeInvalidParams       = 400
	CodeForbidden           = 403
	CodeNotFound            = 404
	CodeInsufficientBalance = 1001
	CodeBadCredentials      = 1002
	CodeAccountDisabled     = 1003
	CodeWrongPassword       = 1004
	CodeDuplicate           = 1005
	CodeOutOfStock          = 1006
	CodeInternal            = 5000
)

// Error is a business failure reported inside a successful HTTP response.
type Error struct {
	Code int
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", e.Code, e.Msg)
}

func newError(code int, format string, args ...any) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}

func notFound(what string, key any) *Error {
	return newError(CodeNotFound, "%s %v not found", what, key)
}

func invalid(format string, args ...any) *Error {
	return newError(CodeInvalidParams, format, args...)
}
