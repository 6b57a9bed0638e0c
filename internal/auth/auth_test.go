package auth

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/silenthink/memo-cli/internal/store"
)

func TestHashPassword(t *testing.T) {
	encoded, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	parts := strings.SplitN(encoded, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		t.Fatalf("encoded credential %q not in salt:hash form", encoded)
	}
	if strings.Contains(encoded, "hunter2") {
		t.Error("encoded credential contains the plaintext password")
	}

	// A second hash of the same password must use a different salt.
	again, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if again == encoded {
		t.Error("two hashes of the same password are identical, salt is not random")
	}
}

func TestVerifyPassword(t *testing.T) {
	encoded, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	tests := []struct {
		name     string
		password string
		encoded  string
		want     bool
	}{
		{"correct password", "correct horse", encoded, true},
		{"wrong password", "battery staple", encoded, false},
		{"empty password", "", encoded, false},
		{"missing separator", "correct horse", "deadbeef", false},
		{"bad salt hex", "correct horse", "zz:deadbeef", false},
		{"bad hash hex", "correct horse", "deadbeef:zz", false},
		{"empty credential", "correct horse", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VerifyPassword(tt.password, tt.encoded); got != tt.want {
				t.Errorf("VerifyPassword = %v, want %v", got, tt.want)
			}
		})
	}
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	s, err := store.Open(store.Options{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return NewService(s.Users)
}

func TestRegister(t *testing.T) {
	svc := newTestService(t)

	user, err := svc.Register("ada", "ada@example.com", "secret")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.ID == 0 {
		t.Error("user id not assigned")
	}
	if user.Password == "secret" {
		t.Error("password stored in plaintext")
	}

	t.Run("duplicate username", func(t *testing.T) {
		_, err := svc.Register("ada", "other@example.com", "secret")
		if !errors.Is(err, ErrUsernameTaken) {
			t.Errorf("err = %v, want ErrUsernameTaken", err)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Register("grace", "ada@example.com", "secret")
		if !errors.Is(err, ErrEmailTaken) {
			t.Errorf("err = %v, want ErrEmailTaken", err)
		}
	})

	t.Run("empty fields", func(t *testing.T) {
		_, err := svc.Register("", "x@example.com", "secret")
		if !errors.Is(err, ErrEmptyField) {
			t.Errorf("err = %v, want ErrEmptyField", err)
		}
	})
}

func TestLogin(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.Register("ada", "ada@example.com", "secret"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	t.Run("success", func(t *testing.T) {
		session, err := svc.Login("ada", "secret")
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
		if session.Username != "ada" {
			t.Errorf("username = %q", session.Username)
		}
		if session.Token == "" {
			t.Error("empty session token")
		}

		second, err := svc.Login("ada", "secret")
		if err != nil {
			t.Fatalf("second Login: %v", err)
		}
		if second.Token == session.Token {
			t.Error("session tokens repeat across logins")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login("ada", "nope")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("err = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("unknown user gives the same error", func(t *testing.T) {
		_, err := svc.Login("nobody", "secret")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("err = %v, want ErrInvalidCredentials", err)
		}
	})
}
