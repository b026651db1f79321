// Package clog carries request-scoped log attributes through a context so that
// middleware can emit one structured line per request.
package clog

import (
	"context"
	"maps"
	"sync"
)

const (
	ErrorAttributeKey = "error.message"
	StackAttributeKey = "error.stack"
)

type scope struct {
	mu    sync.RWMutex
	attrs map[string]any
}

type scopeKey struct{}

// ContextWithSlog attaches a fresh attribute scope to ctx.
func ContextWithSlog(ctx context.Context) context.Context {
	return context.WithValue(ctx, scopeKey{}, &scope{attrs: make(map[string]any)})
}

func scopeFrom(ctx context.Context) *scope {
	s, _ := ctx.Value(scopeKey{}).(*scope)
	return s
}

// AddAttribute is a no-op when ctx has no scope.
func AddAttribute(ctx context.Context, key string, value any) {
	s := scopeFrom(ctx)
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attrs[key] = value
}

func AddAttributes(ctx context.Context, attrs map[string]any) {
	s := scopeFrom(ctx)
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	merge(s.attrs, attrs)
}

// merge copies src into dst, descending into nested maps instead of
// replacing them.
func merge(dst, src map[string]any) {
	for k, v := range src {
		sub, ok := v.(map[string]any)
		if !ok {
			dst[k] = v
			continue
		}
		if existing, ok := dst[k].(map[string]any); ok {
			merge(existing, sub)
		} else {
			dst[k] = sub
		}
	}
}

func GetAttribute[T any](ctx context.Context, key string) T {
	var zero T
	s := scopeFrom(ctx)
	if s == nil {
		return zero
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.attrs[key].(T)
	if !ok {
		return zero
	}
	return v
}

// GetAttributes returns a copy of every attribute in the scope.
func GetAttributes(ctx context.Context) map[string]any {
	s := scopeFrom(ctx)
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.attrs)
}

func AddError(ctx context.Context, err error) {
	AddAttribute(ctx, ErrorAttributeKey, err)
}

func GetError(ctx context.Context) error {
	return GetAttribute[error](ctx, ErrorAttributeKey)
}

func AddStack(ctx context.Context, stack string) {
	AddAttribute(ctx, StackAttributeKey, stack)
}

func GetStack(ctx context.Context) string {
	return GetAttribute[string](ctx, StackAttributeKey)
}
