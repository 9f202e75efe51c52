package credentials

import (
	"crypto/sha256"
	"crypto/subtle"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/bcrypt"
)

// Passwords are padded (or cut) to this width before comparing.
const compareWidth = 64

// CodeDigits is the length of a one-time code.
const CodeDigits = 6

var totpOpts = totp.ValidateOpts{
	Period:    30,
	Skew:      1,
	Digits:    otp.DigitsSix,
	Algorithm: otp.AlgorithmSHA1,
}

// Verifier authenticates the single configured account.
type Verifier struct {
	username     string
	password     string
	passwordHash string
	totpSecret   string
	now          func() time.Time
}

type Option func(*Verifier)

// WithPasswordHash checks passwords against a bcrypt hash instead of the
// plain password.
func WithPasswordHash(hash string) Option {
	return func(v *Verifier) {
		v.passwordHash = hash
	}
}

// WithSecondFactor enables TOTP with a base32 shared secret. An empty
// secret leaves it disabled.
func WithSecondFactor(secret string) Option {
	return func(v *Verifier) {
		v.totpSecret = secret
	}
}

// WithClock replaces time.Now for TOTP validation.
func WithClock(now func() time.Time) Option {
	return func(v *Verifier) {
		v.now = now
	}
}

func NewVerifier(username, password string, opts ...Option) *Verifier {
	v := &Verifier{
		username: username,
		password: password,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// VerifyPassword reports whether username is the configured account (exact,
// case-sensitive) and password matches it.
func (v *Verifier) VerifyPassword(username, password string) bool {
	userOK := equalFixed(username, v.username)

	var passOK bool
	switch {
	case v.passwordHash != "":
		passOK = bcrypt.CompareHashAndPassword([]byte(v.passwordHash), []byte(password)) == nil
	case v.password != "":
		passOK = equalFixed(password, v.password)
	}
	return userOK && passOK
}

// SecondFactorRequired reports whether a TOTP secret is configured.
func (v *Verifier) SecondFactorRequired() bool {
	return v.totpSecret != ""
}

// VerifySecondFactor checks a 6-digit TOTP code, allowing one step of clock
// skew either way. Always true when no secret is configured.
func (v *Verifier) VerifySecondFactor(code string) bool {
	if !v.SecondFactorRequired() {
		return true
	}
	if !isCode(code) {
		return false
	}
	ok, err := totp.ValidateCustom(code, v.totpSecret, v.now().UTC(), totpOpts)
	return err == nil && ok
}

func isCode(s string) bool {
	if len(s) != CodeDigits {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// equalFixed compares a and b in time that depends only on compareWidth and
// the lengths of the inputs, never on where they first differ.
func equalFixed(a, b string) bool {
	pa, pb := pad(a), pad(b)
	da, db := sha256.Sum256([]byte(a)), sha256.Sum256([]byte(b))

	eq := subtle.ConstantTimeCompare(pa[:], pb[:])
	eq &= subtle.ConstantTimeEq(int32(len(a)), int32(len(b)))
	// Covers bytes past compareWidth.
	eq &= subtle.ConstantTimeCompare(da[:], db[:])
	return eq == 1
}

func pad(s string) [compareWidth]byte {
	var buf [compareWidth]byte
	copy(buf[:], s)
	return buf
}
