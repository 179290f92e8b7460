package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestSessionRoundTrip(t *testing.T) {
	w := httptest.NewRecorder()
	CreateSession(w, 42)
	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie got %d", len(cookies))
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	uid, ok := ParseSession(req)
	if !ok || uid != 42 {
		t.Fatalf("ParseSession() = %d, %v", uid, ok)
	}
}

func TestParseSessionRejectsTampering(t *testing.T) {
	w := httptest.NewRecorder()
	CreateSession(w, 7)
	c := w.Result().Cookies()[0]
	sig := c.Value[strings.Index(c.Value, ".")+1:]

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "8." + sig})
	if _, ok := ParseSession(req); ok {
		t.Fatal("tampered session accepted")
	}
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "garbage"})
	if _, ok := ParseSession(req); ok {
		t.Fatal("malformed session accepted")
	}
}

func TestJWTRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	tok, err := Sign(9)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	claims, err := Verify(tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != 9 || claims.TokenID == "" {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if claims.ExpiresAt.Before(time.Now().Add(23 * time.Hour)) {
		t.Fatalf("expected default 24h expiry, got %v", claims.ExpiresAt)
	}

	t.Setenv("JWT_SECRET", "other-secret")
	if _, err := Verify(tok); err == nil {
		t.Fatal("token signed with another key accepted")
	}
}

func TestJWTExpired(t *testing.T) {
	t.Setenv("JWT_EXPIRES_IN", "-1m")
	tok, err := Sign(1)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := Verify(tok); err == nil {
		t.Fatal("expired token accepted")
	}
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPassword(hash, "s3cret") {
		t.Fatal("correct password rejected")
	}
	if CheckPassword(hash, "wrong") {
		t.Fatal("wrong password accepted")
	}
}

func protected() http.Handler {
	return Middleware(RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, _ := UserIDFromContext(r.Context())
		w.Header().Set("X-User", strconv.Itoa(int(uid)))
		w.WriteHeader(http.StatusNoContent)
	})))
}

func TestMiddlewareBearer(t *testing.T) {
	tok, err := Sign(3)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/clients", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	protected().ServeHTTP(w, req)
	if w.Code != http.StatusNoContent || w.Header().Get("X-User") != "3" {
		t.Fatalf("expected 204 as user 3 got %d user=%q", w.Code, w.Header().Get("X-User"))
	}
}

func TestRequireAuthRejectsAnonymous(t *testing.T) {
	w := httptest.NewRecorder()
	protected().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/clients", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"unauthorized"`) {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestRequireAuthVerifier(t *testing.T) {
	SetUserVerifier(func(ctx context.Context, uid uint) bool { return uid == 1 })
	defer SetUserVerifier(nil)

	for uid, want := range map[uint]int{1: http.StatusNoContent, 2: http.StatusUnauthorized} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithUserID(req.Context(), uid))
		w := httptest.NewRecorder()
		RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})).ServeHTTP(w, req)
		if w.Code != want {
			t.Fatalf("uid %d: expected %d got %d", uid, want, w.Code)
		}
	}
}

func TestDefaultUser(t *testing.T) {
	h := Middleware(DefaultUser(5)(RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, _ := UserIDFromContext(r.Context())
		if uid != 5 {
			t.Errorf("expected default user 5 got %d", uid)
		}
		w.WriteHeader(http.StatusOK)
	}))))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
}
