// Package statuserr is the §7 error sentinel: every failure the pipeline
// can produce carries its own HTTP status and reason so the connection
// driver never has to string-sniff a generic error to pick a response.
package statuserr

import "cgiserve/internal/httpstatus"

type Error struct {
	Status  int
	Reason  string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func New(status int, message string) *Error {
	return &Error{Status: status, Reason: httpstatus.ReasonPhrase(status), Message: message}
}

func BadRequest(message string) *Error { return New(httpstatus.BadRequest, message) }

func NotImplemented(message string) *Error { return New(httpstatus.NotImplemented, message) }

func VersionNotSupported(message string) *Error {
	return New(httpstatus.VersionNotSupported, message)
}

func URITooLong(message string) *Error { return New(httpstatus.URITooLong, message) }

func NotFound(message string) *Error { return New(httpstatus.NotFound, message) }

func Forbidden(message string) *Error { return New(httpstatus.Forbidden, message) }

func ServiceUnavailable(message string) *Error {
	return New(httpstatus.ServiceUnavailable, message)
}

func Internal(message string) *Error { return New(httpstatus.InternalServerError, message) }
