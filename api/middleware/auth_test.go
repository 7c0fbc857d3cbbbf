package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mussa52/madalali-tz/api/responses"
	pkgauth "github.com/mussa52/madalali-tz/pkg/auth"
	"github.com/mussa52/madalali-tz/pkg/config"
	"github.com/mussa52/madalali-tz/pkg/enums"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "secret", Issuer: "madalali-tz", ExpirationHours: 1}
}

func mintTestToken(t *testing.T, cfg config.JWTConfig, role enums.UserRole) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg, time.Now().UTC(), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Email:  "tester@example.com",
		Role:   role,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestAuthRejectsMissingToken(t *testing.T) {
	wr := responses.NewWriter(nil, false)
	handler := Auth(testJWTConfig(), wr, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRejectsMalformedToken(t *testing.T) {
	wr := responses.NewWriter(nil, false)
	handler := Auth(testJWTConfig(), wr, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer invalid")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRejectsExpiredToken(t *testing.T) {
	cfg := testJWTConfig()
	token, err := pkgauth.MintAccessToken(cfg, time.Now().UTC().Add(-2*time.Hour), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Email:  "tester@example.com",
		Role:   enums.UserRoleClient,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	wr := responses.NewWriter(nil, false)
	handler := Auth(cfg, wr, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthSeedsPrincipal(t *testing.T) {
	cfg := testJWTConfig()
	token := mintTestToken(t, cfg, enums.UserRoleAgent)

	var captured struct {
		email string
		role  enums.UserRole
	}
	wr := responses.NewWriter(nil, false)
	handler := Auth(cfg, wr, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := PrincipalFromContext(r.Context())
		if p != nil {
			captured.email = p.Email
			captured.role = p.Role
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if captured.email != "tester@example.com" {
		t.Fatalf("expected principal email got %q", captured.email)
	}
	if captured.role != enums.UserRoleAgent {
		t.Fatalf("expected agent role got %s", captured.role)
	}
}

func TestOptionalAuthPassesAnonymousOnFailure(t *testing.T) {
	cfg := testJWTConfig()

	for _, header := range []string{"", "Bearer garbage"} {
		var principalSeen bool
		handler := OptionalAuth(cfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principalSeen = PrincipalFromContext(r.Context()) != nil
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 got %d", resp.Code)
		}
		if principalSeen {
			t.Fatal("expected anonymous principal")
		}
	}
}

func TestOptionalAuthSeedsPrincipalWhenValid(t *testing.T) {
	cfg := testJWTConfig()
	token := mintTestToken(t, cfg, enums.UserRoleClient)

	var role enums.UserRole
	handler := OptionalAuth(cfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p := PrincipalFromContext(r.Context()); p != nil {
			role = p.Role
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if role != enums.UserRoleClient {
		t.Fatalf("expected client role got %q", role)
	}
}

func TestRequireRoleForbidsOutsiders(t *testing.T) {
	cfg := testJWTConfig()
	token := mintTestToken(t, cfg, enums.UserRoleClient)
	wr := responses.NewWriter(nil, false)

	handler := Auth(cfg, wr, nil)(
		RequireRole(wr, enums.UserRoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})),
	)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}
