package cerr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fortytwo-ai/horizon/pkg/clog"
)

// Handlers under NewJSONResponseChiMiddleware do not write to the
// ResponseWriter themselves. They leave either a response or an error on the
// request context and the middleware renders it once the handler returns.

type responseReceiverKey struct{}

type responseReceiver struct {
	status   int
	response any
	err      error
}

func receiverFrom(ctx context.Context) *responseReceiver {
	rr, _ := ctx.Value(responseReceiverKey{}).(*responseReceiver)
	return rr
}

// DataResponse is the success envelope for handlers returning a payload.
type DataResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// MessageResponse is the success envelope for handlers that only confirm.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type errorResponse struct {
	Success bool             `json:"success"`
	Code    string           `json:"code"`
	Message string           `json:"message"`
	Details []FieldViolation `json:"details,omitempty"`
}

func SetJSONResponse(ctx context.Context, response any) {
	if rr := receiverFrom(ctx); rr != nil {
		rr.response = response
	}
}

func SetJSONData(ctx context.Context, data any) {
	SetJSONResponse(ctx, DataResponse{Success: true, Data: data})
}

func SetJSONMessage(ctx context.Context, msg string) {
	SetJSONResponse(ctx, MessageResponse{Success: true, Message: msg})
}

// SetStatus overrides the 200 used for successful responses.
func SetStatus(ctx context.Context, status int) {
	if rr := receiverFrom(ctx); rr != nil {
		rr.status = status
	}
}

func SetJSONError(ctx context.Context, err error) {
	if rr := receiverFrom(ctx); rr != nil {
		rr.err = err
	}
}

func SetNewJSONError(ctx context.Context, code Code, msg string, err error) {
	SetJSONError(ctx, NewError(code, msg, err))
}

func NewJSONResponseChiMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rr := &responseReceiver{status: http.StatusOK}
			ctx := context.WithValue(r.Context(), responseReceiverKey{}, rr)
			next.ServeHTTP(w, r.WithContext(ctx))
			render(ctx, w, rr)
		})
	}
}

func render(ctx context.Context, w http.ResponseWriter, rr *responseReceiver) {
	if rr.err == nil {
		if rr.response == nil {
			w.WriteHeader(rr.status)
			return
		}
		writeJSON(ctx, w, rr.status, rr.response)
		return
	}
	if errors.Is(rr.err, context.Canceled) {
		writeError(ctx, w, NewError(Canceled, "connection closed", rr.err))
		return
	}

	clog.AddError(ctx, rr.err)
	var cErr *Error
	if !errors.As(rr.err, &cErr) {
		cErr = NewError(Unknown, "unknown error", rr.err)
	}
	if cErr.Stack != "" {
		clog.AddStack(ctx, cErr.Stack)
	}
	writeError(ctx, w, cErr)
}

func writeError(ctx context.Context, w http.ResponseWriter, e *Error) {
	writeJSON(ctx, w, e.Code.HTTPCode(), errorResponse{
		Success: false,
		Code:    e.Code.String(),
		Message: e.Msg,
		Details: e.Violations(),
	})
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(true)
	if err := enc.Encode(v); err != nil {
		clog.AddError(ctx, NewError(Internal, "server error", err))
		status = http.StatusInternalServerError
		buf.Reset()
		buf.WriteString(`{"success":false,"code":"internal","message":"server error"}` + "\n")
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		clog.AddError(ctx, NewError(Internal, "server error", err))
	}
}
