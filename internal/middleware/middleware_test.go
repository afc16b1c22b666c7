package middleware_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ApptChat/AC-Backend/internal/auth"
	"github.com/ApptChat/AC-Backend/internal/middleware"
	"github.com/ApptChat/AC-Backend/internal/utils"
)

const testSecret = "middleware-test-secret"

// callWithAuth wraps an inner handler that records the context user id in the
// provided middleware, optionally setting an Authorization header, and returns
// the recorded response along with the user id the inner handler saw.
func callWithAuth(t *testing.T, mw func(http.Handler) http.Handler, authHeader string) (*httptest.ResponseRecorder, string) {
	t.Helper()

	var seenUserID string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUserID, _ = utils.GetUserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	mw(inner).ServeHTTP(rec, req)
	return rec, seenUserID
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	rec, _ := callWithAuth(t, middleware.AuthMiddleware(auth.Verifier{Secret: testSecret}), "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "error") {
		t.Errorf("expected error body, got %q", rec.Body.String())
	}
}

func TestAuthMiddlewareNonBearerHeader(t *testing.T) {
	rec, _ := callWithAuth(t, middleware.AuthMiddleware(auth.Verifier{Secret: testSecret}), "Basic abc123")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddlewareMalformedToken(t *testing.T) {
	rec, _ := callWithAuth(t, middleware.AuthMiddleware(auth.Verifier{Secret: testSecret}), "Bearer not-a-token")
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
}

func TestAuthMiddlewareExpiredToken(t *testing.T) {
	token, err := auth.MakeIdentityToken("u1", "u1@example.com", testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("MakeIdentityToken: %v", err)
	}
	rec, _ := callWithAuth(t, middleware.AuthMiddleware(auth.Verifier{Secret: testSecret}), "Bearer "+token)
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
}

func TestAuthMiddlewareWrongSecret(t *testing.T) {
	token, err := auth.MakeIdentityToken("u1", "u1@example.com", "other-secret", time.Hour)
	if err != nil {
		t.Fatalf("MakeIdentityToken: %v", err)
	}
	rec, _ := callWithAuth(t, middleware.AuthMiddleware(auth.Verifier{Secret: testSecret}), "Bearer "+token)
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
}

func TestAuthMiddlewareValidTokenAttachesUserID(t *testing.T) {
	token, err := auth.MakeIdentityToken("user-42", "u@example.com", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("MakeIdentityToken: %v", err)
	}
	rec, seen := callWithAuth(t, middleware.AuthMiddleware(auth.Verifier{Secret: testSecret}), "Bearer "+token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d; body: %s", rec.Code, rec.Body.String())
	}
	if seen != "user-42" {
		t.Errorf("expected user-42 in context, got %q", seen)
	}
}

func TestCORSMiddlewareAllowsConfiguredOrigin(t *testing.T) {
	mw := middleware.CORSMiddleware("https://chat.example.com")

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Origin", "https://chat.example.com")
	rec := httptest.NewRecorder()
	mw(inner).ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://chat.example.com" {
		t.Errorf("expected origin echoed back, got %q", got)
	}
}

func TestCORSMiddlewareIgnoresUnknownOrigin(t *testing.T) {
	mw := middleware.CORSMiddleware("https://chat.example.com")

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec := httptest.NewRecorder()
	mw(inner).ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("expected no CORS headers for unknown origin, got %q", got)
	}
}

func TestCORSMiddlewarePreflight(t *testing.T) {
	mw := middleware.CORSMiddleware("https://chat.example.com")

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("preflight should not reach the inner handler")
	})
	req := httptest.NewRequest(http.MethodOptions, "/test", nil)
	req.Header.Set("Origin", "https://chat.example.com")
	rec := httptest.NewRecorder()
	mw(inner).ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204 for preflight, got %d", rec.Code)
	}
}

func TestRateLimitRejectsAfterBurst(t *testing.T) {
	rl := middleware.NewRateLimiter(1, 3)
	mw := middleware.RateLimit(rl)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	var codes []int
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		mw(inner).ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	for i := 0; i < 3; i++ {
		if codes[i] != http.StatusOK {
			t.Errorf("request %d: expected 200 within burst, got %d", i, codes[i])
		}
	}
	if codes[4] != http.StatusTooManyRequests {
		t.Errorf("expected 429 after burst, got %d", codes[4])
	}
}

func TestRateLimitIsPerIP(t *testing.T) {
	rl := middleware.NewRateLimiter(1, 1)
	mw := middleware.RateLimit(rl)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = fmt.Sprintf("10.0.0.%d:1234", i)
		rec := httptest.NewRecorder()
		mw(inner).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("distinct IP %d: expected 200, got %d", i, rec.Code)
		}
	}
}
