package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/etc-team/bestellung/pkg/logger"
)

var (
	ErrMissingCredentials   = errors.New("auth: username and password required")
	ErrInvalidCredentials   = errors.New("auth: invalid credentials")
	ErrSecondFactorRequired = errors.New("auth: second factor required")
	ErrInvalidSecondFactor  = errors.New("auth: invalid second factor")
	ErrAuthDisabled         = errors.New("auth: login is not configured")
)

type (
	IVerifier interface {
		VerifyPassword(username, password string) bool
		SecondFactorRequired() bool
		VerifySecondFactor(code string) bool
	}
	IMinter interface {
		Mint(ctx context.Context, subject string) (string, error)
	}
)

type Service struct {
	verifier IVerifier
	minter   IMinter
}

// NewService returns a login service. A nil minter means no session secret
// is configured and every login fails with ErrAuthDisabled.
func NewService(v IVerifier, m IMinter) *Service {
	return &Service{
		verifier: v,
		minter:   m,
	}
}

// Login runs the credential check and, on success, mints a session token.
func (s *Service) Login(ctx context.Context, username, password, code string) (token string, err error) {
	if s.minter == nil {
		return ``, ErrAuthDisabled
	}
	if username == "" || password == "" {
		return ``, ErrMissingCredentials
	}
	if !s.verifier.VerifyPassword(username, password) {
		logger.Log(ctx).Infof("auth: failed login for %q", username)
		return ``, ErrInvalidCredentials
	}

	if s.verifier.SecondFactorRequired() {
		if code == "" {
			return ``, ErrSecondFactorRequired
		}
		if !s.verifier.VerifySecondFactor(code) {
			logger.Log(ctx).Infof("auth: failed second factor for %q", username)
			return ``, ErrInvalidSecondFactor
		}
	}

	token, err = s.minter.Mint(ctx, username)
	if err != nil {
		return ``, fmt.Errorf("auth: can't mint session for %q, %w", username, err)
	}
	logger.Log(ctx).Infof("auth: %q logged in", username)
	return token, nil
}
