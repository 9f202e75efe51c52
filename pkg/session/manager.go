package session

import (
	"context"
	"time"

	"github.com/etc-team/bestellung/pkg/logger"
)

// Manager mints and verifies session tokens with sliding expiration.
type Manager struct {
	codec Codec
	now   func() time.Time
}

type Option func(*Manager)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithCodec replaces the default HMACCodec.
func WithCodec(c Codec) Option {
	return func(m *Manager) {
		m.codec = c
	}
}

// NewManager fails with ErrSecretTooShort unless secret has at least
// MinSecretLength characters, even when WithCodec is given.
func NewManager(secret string, opts ...Option) (*Manager, error) {
	codec, err := NewHMACCodec(secret)
	if err != nil {
		return nil, err
	}
	m := &Manager{
		codec: codec,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Mint issues a token for subject with the current time as last activity.
func (m *Manager) Mint(ctx context.Context, subject string) (string, error) {
	return m.codec.Sign(ctx, Payload{Subject: subject, LastActivity: m.now().UnixMilli()})
}

// Verify returns the payload of a correctly signed, unexpired token.
// Every failure is reported as ErrInvalidToken.
func (m *Manager) Verify(ctx context.Context, token string) (Payload, error) {
	p, err := m.codec.Open(ctx, token)
	if err != nil {
		logger.Log(ctx).Debugf("session: token rejected, %v", err)
		return Payload{}, ErrInvalidToken
	}
	if m.expired(p) {
		logger.Log(ctx).Debugf("session: token expired, last activity %s", p.LastActivityTime().UTC())
		return Payload{}, ErrInvalidToken
	}
	return p, nil
}

// A token exactly MaxAge old is still valid.
func (m *Manager) expired(p Payload) bool {
	return m.now().UnixMilli()-p.LastActivity > MaxAge.Milliseconds()
}

// Refresh returns p touched to the current time.
func (m *Manager) Refresh(p Payload) Payload {
	return Payload{Subject: p.Subject, LastActivity: m.now().UnixMilli()}
}

// VerifyAndRefresh verifies token and re-signs its payload with a fresh
// last activity.
func (m *Manager) VerifyAndRefresh(ctx context.Context, token string) (Payload, string, error) {
	p, err := m.Verify(ctx, token)
	if err != nil {
		return Payload{}, "", err
	}
	refreshed := m.Refresh(p)
	newToken, err := m.codec.Sign(ctx, refreshed)
	if err != nil {
		return Payload{}, "", err
	}
	return refreshed, newToken, nil
}
