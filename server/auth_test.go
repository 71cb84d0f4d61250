package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("hunter2-but-longer")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if err := VerifyPassword("hunter2-but-longer", hash); err != nil {
		t.Errorf("VerifyPassword() error = %v", err)
	}
	if err := VerifyPassword("wrong", hash); !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("wrong password error = %v, want ErrPasswordMismatch", err)
	}

	if _, err := HashPassword(""); !errors.Is(err, ErrEmptyPassword) {
		t.Errorf("empty password error = %v, want ErrEmptyPassword", err)
	}
}

func TestPasswordGuard(t *testing.T) {
	guard, err := NewPasswordGuard("open-sesame", nil)
	if err != nil {
		t.Fatalf("NewPasswordGuard() error = %v", err)
	}
	h := guard.Middleware(okHandler())

	t.Run("missing credential", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/history", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("wrong credential", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/history", nil)
		req.Header.Set("Authorization", "Bearer nope")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("correct credential", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/history", nil)
		req.Header.Set("Authorization", "Bearer open-sesame")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})
}

func TestPasswordGuardNilIsOpen(t *testing.T) {
	guard, err := NewPasswordGuard("", nil)
	if err != nil {
		t.Fatalf("NewPasswordGuard(\"\") error = %v", err)
	}
	if guard != nil {
		t.Fatal("empty password should give a nil guard")
	}

	h := guard.Middleware(okHandler())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/history", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 without a guard", rec.Code)
	}
}

func TestPasswordGuardRateLimits(t *testing.T) {
	limiter := NewRateLimiter(2, time.Minute, time.Minute)
	guard, err := NewPasswordGuard("secret-word", limiter)
	if err != nil {
		t.Fatal(err)
	}
	h := guard.Middleware(okHandler())

	bad := func() int {
		req := httptest.NewRequest(http.MethodGet, "/history", nil)
		req.RemoteAddr = "10.9.9.9:1234"
		req.Header.Set("Authorization", "Bearer wrong")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	if got := bad(); got != http.StatusUnauthorized {
		t.Fatalf("first failure status = %d, want 401", got)
	}
	if got := bad(); got != http.StatusUnauthorized {
		t.Fatalf("second failure status = %d, want 401", got)
	}
	if got := bad(); got != http.StatusTooManyRequests {
		t.Errorf("third attempt status = %d, want 429", got)
	}
}
