package cerr

import (
	"net/http"

	"connectrpc.com/connect"
)

// Code uses the connect (gRPC) numbering so a Code converts to and from
// connect.Code without a lookup.
type Code int

const (
	OK Code = iota
	Canceled
	Unknown
	InvalidArgument
	DeadlineExceeded
	NotFound
	AlreadyExists
	PermissionDenied
	ResourceExhausted
	FailedPrecondition
	Aborted
	OutOfRange
	Unimplemented
	Internal
	Unavailable
	DataLoss
	Unauthenticated
)

// statusClientClosed is nginx's convention for a request the client gave up
// on.
const statusClientClosed = 499

var httpStatus = map[Code]int{
	OK:                 http.StatusOK,
	Canceled:           statusClientClosed,
	InvalidArgument:    http.StatusBadRequest,
	OutOfRange:         http.StatusBadRequest,
	DeadlineExceeded:   http.StatusGatewayTimeout,
	NotFound:           http.StatusNotFound,
	AlreadyExists:      http.StatusConflict,
	Aborted:            http.StatusConflict,
	PermissionDenied:   http.StatusForbidden,
	ResourceExhausted:  http.StatusTooManyRequests,
	FailedPrecondition: http.StatusPreconditionFailed,
	Unimplemented:      http.StatusNotImplemented,
	Unavailable:        http.StatusServiceUnavailable,
	Unauthenticated:    http.StatusUnauthorized,
}

// String is the snake_case name sent to clients in the "code" field.
func (c Code) String() string {
	if c == OK {
		return "ok"
	}
	return c.ConnectCode().String()
}

func (c Code) ConnectCode() connect.Code {
	if c <= OK || c > Unauthenticated {
		return connect.CodeUnknown
	}
	return connect.Code(c)
}

func CodeFromConnect(code connect.Code) Code {
	if code < connect.CodeCanceled || code > connect.CodeUnauthenticated {
		return Unknown
	}
	return Code(code)
}

// HTTPCode is the response status for c. Codes without a closer HTTP
// equivalent (Unknown, Internal, DataLoss) are 500.
func (c Code) HTTPCode() int {
	if status, ok := httpStatus[c]; ok {
		return status
	}
	return http.StatusInternalServerError
}
