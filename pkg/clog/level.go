package clog

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"
)

// HTTPStatusToLevel picks the access log level. A client that hung up (499)
// is not a server problem.
func HTTPStatusToLevel(status int) slog.Level {
	switch {
	case status == 499, status >= 100 && status < 400:
		return slog.LevelInfo
	case status < 500:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// callerFaults are connect codes caused by the request rather than the
// server. They are logged at info.
var callerFaults = map[connect.Code]bool{
	connect.CodeCanceled:           true,
	connect.CodeInvalidArgument:    true,
	connect.CodeDeadlineExceeded:   true,
	connect.CodeNotFound:           true,
	connect.CodeAlreadyExists:      true,
	connect.CodePermissionDenied:   true,
	connect.CodeFailedPrecondition: true,
	connect.CodeAborted:            true,
	connect.CodeOutOfRange:         true,
	connect.CodeUnauthenticated:    true,
}

func ConnectCodeToLevel(code connect.Code) slog.Level {
	if callerFaults[code] {
		return slog.LevelInfo
	}
	return slog.LevelError
}

func logAt(ctx context.Context, level slog.Level, msg string) {
	slog.Log(ctx, level, msg)
}
