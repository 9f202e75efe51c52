package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"unicode"

	"github.com/etc-team/bestellung/pkg/common"
	"github.com/etc-team/bestellung/pkg/logger"
	"github.com/etc-team/bestellung/pkg/session"
)

// Login results, as reported to the LoginObserver.
const (
	ResultSuccess              = "success"
	ResultBadRequest           = "bad_request"
	ResultMissingCredentials   = "missing_credentials"
	ResultInvalidCredentials   = "invalid_credentials"
	ResultSecondFactorRequired = "second_factor_required"
	ResultInvalidSecondFactor  = "invalid_second_factor"
	ResultDisabled             = "disabled"
	ResultError                = "error"
)

type (
	iService interface {
		Login(ctx context.Context, username, password, code string) (string, error)
	}
	LoginObserver interface {
		ObserveLogin(result string)
	}
	Handler struct {
		service  iService
		cookie   session.CookieOptions
		observer LoginObserver
	}
	loginRequest struct {
		Username string `json:"username"`
		Password string `json:"password"`
		TOTP     string `json:"totp"`
		Redirect string `json:"redirect"`
	}
	loginResponse struct {
		OK       bool   `json:"ok"`
		Redirect string `json:"redirect,omitempty"`
	}
	errorResponse struct {
		Error      string `json:"error"`
		Require2FA bool   `json:"require2FA,omitempty"`
	}
)

func NewHandler(s iService, cookie session.CookieOptions, o LoginObserver) *Handler {
	if o == nil {
		o = nopObserver{}
	}
	return &Handler{
		service:  s,
		cookie:   cookie,
		observer: o,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	req := new(loginRequest)
	if err := common.ParseReqBody(r.Body, req); err != nil {
		logger.Log(r.Context()).Infof("auth: can't parse login request, %v", err)
		h.observer.ObserveLogin(ResultBadRequest)
		common.WriteRespJSON(w, r, http.StatusBadRequest, errorResponse{Error: "Ungültige Anfrage."})
		return
	}

	username := strings.TrimSpace(req.Username)
	code := stripSpace(req.TOTP)

	token, err := h.service.Login(r.Context(), username, req.Password, code)
	if err != nil {
		status, body, result := loginFailure(err)
		if status == http.StatusInternalServerError {
			logger.Log(r.Context()).Errorf("auth: login failed, %v", err)
		}
		h.observer.ObserveLogin(result)
		common.WriteRespJSON(w, r, status, body)
		return
	}

	h.observer.ObserveLogin(ResultSuccess)
	h.cookie.SetCookie(w, r, token)
	common.WriteRespJSON(w, r, http.StatusOK, loginResponse{OK: true, Redirect: SafeRedirect(req.Redirect)})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.cookie.ClearCookie(w, r)
	common.WriteRespJSON(w, r, http.StatusOK, loginResponse{OK: true})
}

func loginFailure(err error) (int, errorResponse, string) {
	switch {
	case errors.Is(err, ErrMissingCredentials):
		return http.StatusBadRequest, errorResponse{Error: "Benutzername und Passwort erforderlich."}, ResultMissingCredentials
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Error: "Ungültige Anmeldung."}, ResultInvalidCredentials
	case errors.Is(err, ErrSecondFactorRequired):
		return http.StatusBadRequest, errorResponse{Error: "Bitte 2FA-Code eingeben.", Require2FA: true}, ResultSecondFactorRequired
	case errors.Is(err, ErrInvalidSecondFactor):
		return http.StatusUnauthorized, errorResponse{Error: "Ungültiger 2FA-Code."}, ResultInvalidSecondFactor
	case errors.Is(err, ErrAuthDisabled):
		return http.StatusServiceUnavailable, errorResponse{Error: "Anmeldung nicht verfügbar."}, ResultDisabled
	default:
		return http.StatusInternalServerError, errorResponse{Error: "Anmeldung fehlgeschlagen."}, ResultError
	}
}

// SafeRedirect returns target if it is a path on this site, "/" otherwise.
func SafeRedirect(target string) string {
	if target == "" || target[0] != '/' {
		return "/"
	}
	if len(target) > 1 && (target[1] == '/' || target[1] == '\\') {
		return "/"
	}
	// Browsers drop tabs and newlines before parsing, so "/\t/host" would
	// turn into "//host".
	for i := 0; i < len(target); i++ {
		if target[i] < 0x20 || target[i] == 0x7f {
			return "/"
		}
	}
	return target
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

type nopObserver struct{}

func (nopObserver) ObserveLogin(string) {}
