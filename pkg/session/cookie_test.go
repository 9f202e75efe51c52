package session

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSetCookie(t *testing.T) {
	tests := []struct {
		name       string
		opts       CookieOptions
		tls        bool
		wantSecure bool
	}{
		{"plain http", CookieOptions{Name: "etc_session"}, false, false},
		{"tls request", CookieOptions{Name: "etc_session"}, true, true},
		{"forced secure", CookieOptions{Name: "etc_session", Secure: true}, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.tls {
				r.TLS = &tls.ConnectionState{}
			}
			w := httptest.NewRecorder()
			tt.opts.SetCookie(w, r, "tok")

			cookies := w.Result().Cookies()
			if len(cookies) != 1 {
				t.Fatalf("got %d cookies", len(cookies))
			}
			c := cookies[0]
			if c.Name != "etc_session" || c.Value != "tok" {
				t.Errorf("cookie = %s=%s", c.Name, c.Value)
			}
			if c.MaxAge != 172800 || c.Path != "/" || !c.HttpOnly || c.SameSite != http.SameSiteLaxMode {
				t.Errorf("attributes = %+v", c)
			}
			if c.Secure != tt.wantSecure {
				t.Errorf("Secure = %v, want %v", c.Secure, tt.wantSecure)
			}
		})
	}
}

func TestClearCookie(t *testing.T) {
	w := httptest.NewRecorder()
	CookieOptions{Name: "etc_session"}.ClearCookie(w, httptest.NewRequest(http.MethodPost, "/", nil))

	header := w.Header().Get("Set-Cookie")
	for _, want := range []string{"etc_session=;", "Max-Age=0", "Expires=Thu, 01 Jan 1970 00:00:00 GMT", "HttpOnly", "SameSite=Lax", "Path=/"} {
		if !strings.Contains(header, want) {
			t.Errorf("Set-Cookie %q misses %q", header, want)
		}
	}
}

func TestToken(t *testing.T) {
	opts := CookieOptions{Name: "etc_session"}
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := opts.Token(r); got != "" {
		t.Errorf("Token without cookie = %q", got)
	}
	r.AddCookie(&http.Cookie{Name: "etc_session", Value: "abc.def"})
	if got := opts.Token(r); got != "abc.def" {
		t.Errorf("Token = %q", got)
	}
}
