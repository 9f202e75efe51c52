package session

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestManager(t *testing.T, opts ...Option) (*Manager, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.UnixMilli(1700000000000)}
	m, err := NewManager(vectorSecret, append([]Option{WithClock(clock.Now)}, opts...)...)
	if err != nil {
		t.Fatal(err)
	}
	return m, clock
}

func TestNewManagerRejectsShortSecret(t *testing.T) {
	for _, secret := range []string{"", "too-short"} {
		if _, err := NewManager(secret); !errors.Is(err, ErrSecretTooShort) {
			t.Errorf("NewManager(%q) = %v, want ErrSecretTooShort", secret, err)
		}
	}
}

func TestMintVerify(t *testing.T) {
	ctx := context.Background()
	subjects := []string{"ETC-Team", "", "Zoë Ångström", "名前", "a.b.c", `"quoted"`}
	m, clock := newTestManager(t)
	for _, subject := range subjects {
		token, err := m.Mint(ctx, subject)
		if err != nil {
			t.Fatal(err)
		}
		p, err := m.Verify(ctx, token)
		if err != nil {
			t.Fatalf("Verify(Mint(%q)) failed: %v", subject, err)
		}
		if p.Subject != subject {
			t.Errorf("subject = %q, want %q", p.Subject, subject)
		}
		if p.LastActivity != clock.Now().UnixMilli() {
			t.Errorf("last activity = %d, want %d", p.LastActivity, clock.Now().UnixMilli())
		}
	}
}

func TestMintMatchesVector(t *testing.T) {
	m, _ := newTestManager(t)
	token, err := m.Mint(context.Background(), "ETC-Team")
	if err != nil {
		t.Fatal(err)
	}
	if token != signVectors[0].token {
		t.Errorf("Mint = %s, want %s", token, signVectors[0].token)
	}
}

func TestMintWithRealClock(t *testing.T) {
	m, err := NewManager(vectorSecret)
	if err != nil {
		t.Fatal(err)
	}
	before := time.Now().UnixMilli()
	token, err := m.Mint(context.Background(), "ETC-Team")
	if err != nil {
		t.Fatal(err)
	}
	p, err := m.Verify(context.Background(), token)
	if err != nil {
		t.Fatal(err)
	}
	if d := p.LastActivity - before; d < 0 || d > 5000 {
		t.Errorf("last activity off by %dms", d)
	}
}

func TestExpiryBoundary(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name  string
		age   time.Duration
		valid bool
	}{
		{"fresh", 0, true},
		{"one millisecond inside", MaxAge - time.Millisecond, true},
		{"exactly max age", MaxAge, true},
		{"one millisecond past", MaxAge + time.Millisecond, false},
		{"a week old", 7 * 24 * time.Hour, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, clock := newTestManager(t)
			token, err := m.codec.Sign(ctx, Payload{
				Subject:      "ETC-Team",
				LastActivity: clock.Now().Add(-tt.age).UnixMilli(),
			})
			if err != nil {
				t.Fatal(err)
			}
			_, err = m.Verify(ctx, token)
			if tt.valid && err != nil {
				t.Errorf("got %v, want valid", err)
			}
			if !tt.valid && !errors.Is(err, ErrInvalidToken) {
				t.Errorf("got %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestVerifyCollapsesErrors(t *testing.T) {
	m, _ := newTestManager(t)
	for _, token := range []string{"", "garbage", malformedPayloadVectors[0].token, signVectors[0].token + "x"} {
		if _, err := m.Verify(context.Background(), token); err != ErrInvalidToken {
			t.Errorf("Verify(%q) = %v, want exactly ErrInvalidToken", token, err)
		}
	}
}

func TestSlidingExpiration(t *testing.T) {
	ctx := context.Background()
	m, clock := newTestManager(t)
	token, err := m.Mint(ctx, "ETC-Team")
	if err != nil {
		t.Fatal(err)
	}

	// Used once a day for a week: each refresh keeps it alive.
	for day := 1; day <= 7; day++ {
		clock.Advance(24 * time.Hour)
		p, next, err := m.VerifyAndRefresh(ctx, token)
		if err != nil {
			t.Fatalf("day %d: %v", day, err)
		}
		if p.LastActivity != clock.Now().UnixMilli() {
			t.Errorf("day %d: last activity not bumped", day)
		}
		if next == token {
			t.Errorf("day %d: token not re-signed", day)
		}
		token = next
	}

	// Then left alone for longer than the window.
	clock.Advance(MaxAge + time.Millisecond)
	if _, _, err := m.VerifyAndRefresh(ctx, token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("idle token: got %v, want ErrInvalidToken", err)
	}
}

func TestRefreshKeepsSubject(t *testing.T) {
	m, clock := newTestManager(t)
	old := Payload{Subject: "ETC-Team", LastActivity: 1}
	got := m.Refresh(old)
	if got.Subject != old.Subject || got.LastActivity != clock.Now().UnixMilli() {
		t.Errorf("Refresh = %+v", got)
	}
}

func TestManagerWithKeyCodec(t *testing.T) {
	ctx := context.Background()
	key, err := NewHMACKey(vectorSecret)
	if err != nil {
		t.Fatal(err)
	}
	edge, _ := newTestManager(t, WithCodec(NewKeyCodec(key)))
	node, _ := newTestManager(t)

	token, err := node.Mint(ctx, "ETC-Team")
	if err != nil {
		t.Fatal(err)
	}
	_, refreshed, err := edge.VerifyAndRefresh(ctx, token)
	if err != nil {
		t.Fatalf("key codec rejected hmac token: %v", err)
	}
	if _, err := node.Verify(ctx, refreshed); err != nil {
		t.Fatalf("hmac codec rejected key token: %v", err)
	}
}

func TestContextPayload(t *testing.T) {
	if _, ok := FromContext(context.Background()); ok {
		t.Error("empty context must not carry a payload")
	}
	p := Payload{Subject: "ETC-Team", LastActivity: 42}
	got, ok := FromContext(ContextWithPayload(context.Background(), p))
	if !ok || got != p {
		t.Errorf("FromContext = %+v, %v", got, ok)
	}
}
