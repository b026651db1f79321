package clog

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"
)

// NewSlogConnectInterceptor logs finished connect calls the same way
// SlogChiMiddleware logs plain HTTP requests. It is mounted on the gRPC
// health handler.
func NewSlogConnectInterceptor() connect.Interceptor {
	return &slogConnectInterceptor{}
}

type slogConnectInterceptor struct{}

func (i *slogConnectInterceptor) WrapUnary(next connect.UnaryFunc) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		start := time.Now()
		ctx = ContextWithSlog(ctx)
		AddAttributes(ctx, map[string]any{
			"method":      req.HTTPMethod(),
			"procedure":   req.Spec().Procedure,
			"stream_type": req.Spec().StreamType.String(),
		})
		resp, err := next(ctx, req)
		finish(ctx, start, err)
		return resp, err
	}
}

func (i *slogConnectInterceptor) WrapStreamingClient(next connect.StreamingClientFunc) connect.StreamingClientFunc {
	return next
}

func (i *slogConnectInterceptor) WrapStreamingHandler(next connect.StreamingHandlerFunc) connect.StreamingHandlerFunc {
	return func(ctx context.Context, conn connect.StreamingHandlerConn) error {
		start := time.Now()
		ctx = ContextWithSlog(ctx)
		AddAttributes(ctx, map[string]any{
			"procedure":   conn.Spec().Procedure,
			"stream_type": conn.Spec().StreamType.String(),
		})
		err := next(ctx, conn)
		finish(ctx, start, err)
		return err
	}
}

func finish(ctx context.Context, start time.Time, err error) {
	AddAttribute(ctx, "duration", time.Since(start))
	if err == nil {
		AddAttribute(ctx, "code", "ok")
		logAt(ctx, slog.LevelDebug, "Finished")
		return
	}
	var cerr *connect.Error
	if !errors.As(err, &cerr) {
		cerr = connect.NewError(connect.CodeUnknown, err)
	}
	AddAttribute(ctx, "code", cerr.Code().String())
	logAt(ctx, ConnectCodeToLevel(cerr.Code()), cerr.Message())
}
