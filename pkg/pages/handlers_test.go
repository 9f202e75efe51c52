package pages

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/etc-team/bestellung/pkg/session"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	h, err := NewHandler()
	if err != nil {
		t.Fatal(err)
	}
	return h
}

func TestLoginPage(t *testing.T) {
	tests := []struct {
		query string
		from  string
	}{
		{"", `data-from="/"`},
		{"?from=%2Fapi%2Fproducts", `data-from="/api/products"`},
		{"?from=%2F%2Fevil.example", `data-from="/"`},
		{"?from=%2F%09%2Fevil.example", `data-from="/"`},
		{`?from=%2F%22%3E%3Cscript%3E`, `data-from="/&#34;&gt;&lt;script&gt;"`},
	}
	h := newTestHandler(t)
	for _, tt := range tests {
		w := httptest.NewRecorder()
		h.Login(w, httptest.NewRequest(http.MethodGet, "/login"+tt.query, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		if ct := w.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
			t.Errorf("Content-Type = %s", ct)
		}
		body := w.Body.String()
		if !strings.Contains(body, tt.from) {
			t.Errorf("%s: body misses %s", tt.query, tt.from)
		}
		if !strings.Contains(body, `fetch("/api/auth/login"`) {
			t.Error("form does not post to the login endpoint")
		}
	}
}

func TestIndexPage(t *testing.T) {
	h := newTestHandler(t)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(session.ContextWithPayload(r.Context(), session.Payload{Subject: "ETC-Team"}))
	w := httptest.NewRecorder()
	h.Index(w, r)
	body := w.Body.String()
	if !strings.Contains(body, "<strong>ETC-Team</strong>") || !strings.Contains(body, "/api/auth/logout") {
		t.Errorf("signed-in page = %s", body)
	}

	w = httptest.NewRecorder()
	h.Index(w, httptest.NewRequest(http.MethodGet, "/", nil))
	body = w.Body.String()
	if !strings.Contains(body, "Anmeldung ist deaktiviert.") || strings.Contains(body, "/api/auth/logout") {
		t.Errorf("anonymous page = %s", body)
	}
}
