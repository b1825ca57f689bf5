package app

import (
	"context"
	"strings"
)

// Origin identifies the surface that triggered a remote call, for log attribution.
type Origin string

// OriginTUI and related constants name the built-in surfaces.
const (
	OriginTUI Origin = "tui"
	OriginCLI Origin = "cli"
)

// originContextKey stores context keys for origin values.
type originContextKey struct{}

// WithOrigin attaches a normalized origin to ctx.
func WithOrigin(ctx context.Context, origin Origin) context.Context {
	origin = Origin(strings.ToLower(strings.TrimSpace(string(origin))))
	if origin == "" {
		return ctx
	}
	return context.WithValue(ctx, originContextKey{}, origin)
}

// OriginFromContext returns the origin attached to ctx when present.
func OriginFromContext(ctx context.Context) (Origin, bool) {
	if ctx == nil {
		return "", false
	}
	origin, ok := ctx.Value(originContextKey{}).(Origin)
	if !ok || origin == "" {
		return "", false
	}
	return origin, true
}
