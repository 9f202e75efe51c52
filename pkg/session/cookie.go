package session

import (
	"net/http"
	"time"
)

// CookieOptions describes the session cookie.
type CookieOptions struct {
	Name string
	// Secure forces the Secure attribute; TLS requests always get it.
	Secure bool
}

func (o CookieOptions) secure(r *http.Request) bool {
	return o.Secure || (r != nil && r.TLS != nil)
}

func (o CookieOptions) cookie(r *http.Request, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     o.Name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   o.secure(r),
		SameSite: http.SameSiteLaxMode,
	}
}

// SetCookie issues token as the session cookie.
func (o CookieOptions) SetCookie(w http.ResponseWriter, r *http.Request, token string) {
	http.SetCookie(w, o.cookie(r, token, MaxAgeSeconds))
}

// ClearCookie removes the session cookie from the client.
func (o CookieOptions) ClearCookie(w http.ResponseWriter, r *http.Request) {
	c := o.cookie(r, "", -1)
	c.Expires = time.Unix(0, 0)
	http.SetCookie(w, c)
}

// Token returns the session cookie value, or "" when absent.
func (o CookieOptions) Token(r *http.Request) string {
	c, err := r.Cookie(o.Name)
	if err != nil {
		return ""
	}
	return c.Value
}
