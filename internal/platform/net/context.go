// Package net provides utilities for working with request contexts
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// ctxKey is an unexported key type for context values
type ctxKey string

const keyBearer ctxKey = "bearer"

// WithRequest sets the chi request id so RequestID and chimw.GetReqID agree
func WithRequest(ctx context.Context, reqID string) context.Context {
	if reqID != "" {
		ctx = context.WithValue(ctx, chimw.RequestIDKey, reqID)
	}
	return ctx
}

// RequestID returns the request id on the context if present
func RequestID(ctx context.Context) string {
	return chimw.GetReqID(ctx)
}

// WithBearer stores the caller's bearer token for forwarding to upstreams
func WithBearer(ctx context.Context, token string) context.Context {
	if token != "" {
		ctx = context.WithValue(ctx, keyBearer, token)
	}
	return ctx
}

// Bearer returns the forwarded bearer token if present
func Bearer(ctx context.Context) string {
	if v, ok := ctx.Value(keyBearer).(string); ok {
		return v
	}
	return ""
}
