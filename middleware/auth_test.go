package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/atalvarez9/events-directory-backend/config"
	"github.com/atalvarez9/events-directory-backend/internal/event"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:      "test-secret",
		AdminAddresses: []string{"0xadmin"},
	}
}

func signToken(t *testing.T, cfg *config.Config, address string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"address": address})
	signed, err := token.SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		t.Fatalf("could not sign token: %v", err)
	}
	return signed
}

// run sends one request through the middleware and captures the caller the
// handler sees via the shared context helper.
func run(t *testing.T, mw gin.HandlerFunc, authHeader string) (*event.Caller, int) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var caller *event.Caller
	router := gin.New()
	router.GET("/whoami", mw, func(c *gin.Context) {
		caller = event.CallerFromContext(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return caller, rec.Code
}

func TestOptionalAuthAnonymous(t *testing.T) {
	caller, code := run(t, OptionalAuthMiddleware(testConfig()), "")
	if code != http.StatusOK {
		t.Fatalf("anonymous request rejected with %d", code)
	}
	if caller != nil {
		t.Errorf("expected no caller, got %+v", caller)
	}
}

func TestOptionalAuthSetsCaller(t *testing.T) {
	cfg := testConfig()
	caller, code := run(t, OptionalAuthMiddleware(cfg), "Bearer "+signToken(t, cfg, "0xAbCd"))
	if code != http.StatusOK {
		t.Fatalf("valid token rejected with %d", code)
	}
	if caller == nil {
		t.Fatal("expected a caller")
	}
	if caller.Address != "0xabcd" {
		t.Errorf("address not lower-cased: %q", caller.Address)
	}
	if caller.Admin {
		t.Error("non-admin address flagged as admin")
	}
}

func TestAuthAdminFlag(t *testing.T) {
	cfg := testConfig()
	caller, code := run(t, AuthMiddleware(cfg), "Bearer "+signToken(t, cfg, "0xAdmin"))
	if code != http.StatusOK {
		t.Fatalf("valid token rejected with %d", code)
	}
	if caller == nil || !caller.Admin {
		t.Errorf("expected an admin caller, got %+v", caller)
	}
}

func TestAuthRejectsMissingAndInvalid(t *testing.T) {
	cfg := testConfig()

	if _, code := run(t, AuthMiddleware(cfg), ""); code != http.StatusUnauthorized {
		t.Errorf("missing header: expected 401, got %d", code)
	}
	if _, code := run(t, AuthMiddleware(cfg), "Bearer garbage"); code != http.StatusUnauthorized {
		t.Errorf("garbage token: expected 401, got %d", code)
	}

	other := &config.Config{JWTSecret: "other-secret"}
	if _, code := run(t, AuthMiddleware(cfg), "Bearer "+signToken(t, other, "0xabc")); code != http.StatusUnauthorized {
		t.Errorf("wrong signer: expected 401, got %d", code)
	}
}
