package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"blackmarket-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

const testSecret = "test-secret-key-for-unit-tests"

func init() {
	gin.SetMode(gin.TestMode)
	zerolog.SetGlobalLevel(zerolog.Disabled)
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func setupTestRouter(verifier *utils.TokenVerifier) *gin.Engine {
	r := gin.New()

	protected := r.Group("/api")
	protected.Use(AuthMiddleware(verifier))
	protected.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":    c.GetString(SubjectKey),
			"user_email": c.GetString(UserEmailKey),
			"has_claims": Claims(c) != nil,
		})
	})

	return r
}

func doAuthRequest(r *gin.Engine, header string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/test", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	router := setupTestRouter(utils.NewTokenVerifier(testSecret, false))
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":   "user_123",
		"email": "ada@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	w := doAuthRequest(router, "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var body map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &body)
	if body["user_id"] != "user_123" {
		t.Errorf("expected user_id user_123, got %v", body["user_id"])
	}
	if body["user_email"] != "ada@example.com" {
		t.Errorf("expected email ada@example.com, got %v", body["user_email"])
	}
	if body["has_claims"] != true {
		t.Error("expected claims in context")
	}
}

func TestAuthMiddlewareNoHeader(t *testing.T) {
	router := setupTestRouter(utils.NewTokenVerifier(testSecret, false))

	w := doAuthRequest(router, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
}

func TestAuthMiddlewareInvalidFormat(t *testing.T) {
	router := setupTestRouter(utils.NewTokenVerifier(testSecret, false))

	for _, header := range []string{"Token abc", "Bearer", "Bearer a b", "Bearer "} {
		w := doAuthRequest(router, header)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("header %q: expected status 401, got %d", header, w.Code)
		}
	}
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	router := setupTestRouter(utils.NewTokenVerifier(testSecret, false))

	w := doAuthRequest(router, "Bearer invalid.token.here")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
}

func TestAuthMiddlewareWrongSecret(t *testing.T) {
	router := setupTestRouter(utils.NewTokenVerifier(testSecret, false))
	token := signToken(t, "another-secret", jwt.MapClaims{"sub": "user_123"})

	w := doAuthRequest(router, "Bearer "+token)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
}

func TestAuthMiddlewareExpiredToken(t *testing.T) {
	router := setupTestRouter(utils.NewTokenVerifier(testSecret, false))
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": "user_123",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	w := doAuthRequest(router, "Bearer "+token)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
}

func TestAuthMiddlewareDebugFallbackEmail(t *testing.T) {
	router := setupTestRouter(utils.NewTokenVerifier("", true))
	token := signToken(t, "unknown-dev-secret", jwt.MapClaims{"sub": "user_123"})

	w := doAuthRequest(router, "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var body map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &body)
	if body["user_email"] != "user_123@clerk.user" {
		t.Errorf("expected placeholder email, got %v", body["user_email"])
	}
}

func TestAuthMiddlewareNoFallbackOutsideDebug(t *testing.T) {
	router := setupTestRouter(utils.NewTokenVerifier(testSecret, false))
	token := signToken(t, testSecret, jwt.MapClaims{"sub": "user_123"})

	w := doAuthRequest(router, "Bearer "+token)
	var body map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &body)
	if body["user_email"] != "" {
		t.Errorf("expected no email outside debug mode, got %v", body["user_email"])
	}
}
