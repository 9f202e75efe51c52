package session

import (
	"context"
	"errors"
	"time"
)

const (
	// MaxAge is the sliding window: a session dies this long after its last use.
	MaxAge = 2 * 24 * time.Hour
	// MaxAgeSeconds is MaxAge as a cookie Max-Age value.
	MaxAgeSeconds = int(MaxAge / time.Second)
	// MinSecretLength is the shortest accepted signing secret.
	MinSecretLength = 16
	// DefaultCookieName is the cookie the session token travels in.
	DefaultCookieName = "etc_session"
)

var (
	// ErrInvalidToken covers every way a token can fail verification:
	// malformed, bad signature, wrong payload shape or expired.
	ErrInvalidToken = errors.New("session: invalid token")
	// ErrSecretTooShort is a configuration error.
	ErrSecretTooShort = errors.New("session: secret must be set and at least 16 characters")
)

// Payload is the signed content of a session token. Field order is part of
// the wire format.
type Payload struct {
	Subject      string `json:"u"`
	LastActivity int64  `json:"t"` // unix milliseconds
}

// LastActivityTime returns LastActivity as a time.Time.
func (p Payload) LastActivityTime() time.Time {
	return time.UnixMilli(p.LastActivity)
}

type sessionKey struct{}

// ContextWithPayload returns a copy of ctx carrying the authenticated payload.
func ContextWithPayload(ctx context.Context, p Payload) context.Context {
	return context.WithValue(ctx, sessionKey{}, p)
}

// FromContext returns the payload stored by the auth middleware.
func FromContext(ctx context.Context) (Payload, bool) {
	p, ok := ctx.Value(sessionKey{}).(Payload)
	return p, ok
}
