package cerr

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"buf.build/gen/go/bufbuild/protovalidate/protocolbuffers/go/buf/validate"
	"google.golang.org/protobuf/proto"

	"github.com/fortytwo-ai/horizon/pkg/clog"
)

type Error struct {
	Code    Code
	Msg     string          // returned to the caller together with Code
	Err     error           // logged, never returned
	Stack   string          // captured for error-level codes
	Details []proto.Message // returned to the caller
}

func NewError(code Code, msg string, underlying error) *Error {
	err := &Error{
		Code: code,
		Msg:  msg,
		Err:  underlying,
	}
	if clog.ConnectCodeToLevel(code.ConnectCode()) == slog.LevelError {
		buf := make([]byte, 2048)
		n := runtime.Stack(buf, false)
		err.Stack = string(buf[:n])
	}
	return err
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("[%s] %s", e.Code, e.Msg)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Msg, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// AddViolation records a field-level problem that is shown to the caller.
// Nested fields are dotted, e.g. "keys.p256dh".
func (e *Error) AddViolation(field, msg string) *Error {
	path := &validate.FieldPath{}
	for _, name := range strings.Split(field, ".") {
		path.Elements = append(path.Elements, &validate.FieldPathElement{FieldName: proto.String(name)})
	}
	e.Details = append(e.Details, &validate.Violation{
		Field:   path,
		Message: proto.String(msg),
	})
	return e
}

// Violations returns the field problems attached with AddViolation, keyed by
// field in insertion order.
func (e *Error) Violations() []FieldViolation {
	var out []FieldViolation
	for _, d := range e.Details {
		v, ok := d.(*validate.Violation)
		if !ok {
			continue
		}
		out = append(out, FieldViolation{Field: fieldName(v.GetField()), Message: v.GetMessage()})
	}
	return out
}

func fieldName(path *validate.FieldPath) string {
	names := make([]string, 0, len(path.GetElements()))
	for _, el := range path.GetElements() {
		names = append(names, el.GetFieldName())
	}
	return strings.Join(names, ".")
}

type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func IsCode(err error, code Code) bool {
	var cerr *Error
	if errors.As(err, &cerr) {
		return cerr.Code == code
	}
	return false
}

// CodeOf returns Unknown for errors that did not come from this package.
func CodeOf(err error) Code {
	if err == nil {
		return OK
	}
	var cerr *Error
	if errors.As(err, &cerr) {
		return cerr.Code
	}
	return Unknown
}
