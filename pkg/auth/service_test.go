package auth

import (
	"context"
	"errors"
	"testing"
)

type fakeVerifier struct {
	password   string
	code       string
	needs2FA   bool
	codeChecks int
}

func (f *fakeVerifier) VerifyPassword(username, password string) bool {
	return username == "ETC-Team" && password == f.password
}

func (f *fakeVerifier) SecondFactorRequired() bool { return f.needs2FA }

func (f *fakeVerifier) VerifySecondFactor(code string) bool {
	f.codeChecks++
	return code == f.code
}

type fakeMinter struct {
	err     error
	subject string
}

func (f *fakeMinter) Mint(_ context.Context, subject string) (string, error) {
	f.subject = subject
	return "token-for-" + subject, f.err
}

func TestLoginStateMachine(t *testing.T) {
	tests := []struct {
		name     string
		needs2FA bool
		username string
		password string
		code     string
		wantErr  error
	}{
		{"password only", false, "ETC-Team", "pw", "", nil},
		{"code ignored without 2fa", false, "ETC-Team", "pw", "999999", nil},
		{"missing username", false, "", "pw", "", ErrMissingCredentials},
		{"missing password", false, "ETC-Team", "", "", ErrMissingCredentials},
		{"wrong password", false, "ETC-Team", "nope", "", ErrInvalidCredentials},
		{"wrong user", false, "admin", "pw", "", ErrInvalidCredentials},
		{"2fa ok", true, "ETC-Team", "pw", "123456", nil},
		{"2fa missing code", true, "ETC-Team", "pw", "", ErrSecondFactorRequired},
		{"2fa wrong code", true, "ETC-Team", "pw", "654321", ErrInvalidSecondFactor},
		{"2fa wrong password first", true, "ETC-Team", "nope", "123456", ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &fakeVerifier{password: "pw", code: "123456", needs2FA: tt.needs2FA}
			m := &fakeMinter{}
			token, err := NewService(v, m).Login(context.Background(), tt.username, tt.password, tt.code)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				if token != "" {
					t.Errorf("token %q returned with an error", token)
				}
				return
			}
			if token != "token-for-ETC-Team" || m.subject != "ETC-Team" {
				t.Errorf("token = %q, minted for %q", token, m.subject)
			}
		})
	}
}

func TestLoginDoesNotCheckCodeBeforePassword(t *testing.T) {
	v := &fakeVerifier{password: "pw", code: "123456", needs2FA: true}
	_, _ = NewService(v, &fakeMinter{}).Login(context.Background(), "ETC-Team", "wrong", "123456")
	if v.codeChecks != 0 {
		t.Error("second factor checked for a wrong password")
	}
}

func TestLoginDisabled(t *testing.T) {
	_, err := NewService(&fakeVerifier{password: "pw"}, nil).Login(context.Background(), "ETC-Team", "pw", "")
	if !errors.Is(err, ErrAuthDisabled) {
		t.Errorf("err = %v, want ErrAuthDisabled", err)
	}
}

func TestLoginMintFailure(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewService(&fakeVerifier{password: "pw"}, &fakeMinter{err: boom}).
		Login(context.Background(), "ETC-Team", "pw", "")
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped boom", err)
	}
}
