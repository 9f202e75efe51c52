package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/etc-team/bestellung/pkg/logger"
	"github.com/etc-team/bestellung/pkg/session"
)

const (
	DefaultLoginPath = "/login"
	AuthAPIPrefix    = "/api/auth"
)

type (
	ISessionManager interface {
		VerifyAndRefresh(ctx context.Context, token string) (session.Payload, string, error)
	}
	GateObserver interface {
		ObserveGate(outcome string)
		SetGateEnforced(enforced bool)
	}
	Auth struct {
		sm             ISessionManager
		cookie         session.CookieOptions
		loginPath      string
		publicPrefixes []string
		observer       GateObserver
	}
	AuthOption func(*Auth)
)

func WithCookie(c session.CookieOptions) AuthOption {
	return func(a *Auth) {
		a.cookie = c
	}
}

func WithLoginPath(path string) AuthOption {
	return func(a *Auth) {
		a.loginPath = path
	}
}

// WithPublicPrefixes lets static assets through without a session.
func WithPublicPrefixes(prefixes ...string) AuthOption {
	return func(a *Auth) {
		a.publicPrefixes = append(a.publicPrefixes, prefixes...)
	}
}

func WithGateObserver(o GateObserver) AuthOption {
	return func(a *Auth) {
		a.observer = o
	}
}

// NewAuthMiddleware builds the session gate. A nil sm disables it: every
// request passes through unauthenticated.
func NewAuthMiddleware(sm ISessionManager, opts ...AuthOption) *Auth {
	a := &Auth{
		sm:        sm,
		cookie:    session.CookieOptions{Name: session.DefaultCookieName},
		loginPath: DefaultLoginPath,
		observer:  nopObserver{},
	}
	for _, opt := range opts {
		opt(a)
	}

	a.observer.SetGateEnforced(a.Enabled())
	if !a.Enabled() {
		logger.Log(context.Background()).Warn("auth: no session secret configured, the session gate is DISABLED and every page is public")
	}
	return a
}

func (a *Auth) Enabled() bool {
	return a.sm != nil
}

func (a *Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if a.bypass(path) {
			a.observer.ObserveGate(OutcomeBypass)
			next.ServeHTTP(w, r)
			return
		}
		if !a.Enabled() {
			a.observer.ObserveGate(OutcomeDisabled)
			next.ServeHTTP(w, r)
			return
		}

		token := a.cookie.Token(r)
		if token == "" {
			a.observer.ObserveGate(OutcomeMissing)
			http.Redirect(w, r, a.loginPath+"?"+url.Values{"from": {path}}.Encode(), http.StatusTemporaryRedirect)
			return
		}

		payload, refreshed, err := a.sm.VerifyAndRefresh(r.Context(), token)
		if err != nil {
			a.observer.ObserveGate(OutcomeInvalid)
			logger.Log(r.Context()).Infof("auth: rejected session cookie for %s", path)
			a.cookie.ClearCookie(w, r)
			http.Redirect(w, r, a.loginPath, http.StatusTemporaryRedirect)
			return
		}

		a.observer.ObserveGate(OutcomeAllowed)
		a.cookie.SetCookie(w, r, refreshed)
		ctx := session.ContextWithPayload(r.Context(), payload)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *Auth) bypass(path string) bool {
	if path == a.loginPath || path == AuthAPIPrefix || strings.HasPrefix(path, AuthAPIPrefix+"/") {
		return true
	}
	for _, p := range a.publicPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

type nopObserver struct{}

func (nopObserver) ObserveGate(string)   {}
func (nopObserver) SetGateEnforced(bool) {}
