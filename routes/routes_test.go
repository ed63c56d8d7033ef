package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"blackmarket-backend/testutil"
	"blackmarket-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const testSecret = "test-secret-for-routes"

type mockStorage struct{}

func (m *mockStorage) UploadProductImage(context.Context, uuid.UUID, io.Reader, string, string) (string, error) {
	return "", nil
}
func (m *mockStorage) DeleteFile(context.Context, string) error { return nil }
func (m *mockStorage) Bucket() string { return "routes-bucket" }

func init() {
	gin.SetMode(gin.TestMode)
	zerolog.SetGlobalLevel(zerolog.Disabled)
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	db, err := testutil.Open()
	if err != nil {
		t.Fatal(err)
	}
	if err := testutil.Reset(db); err != nil {
		t.Fatal(err)
	}

	r := gin.New()
	SetupRoutes(r, db, &mockStorage{}, utils.NewTokenVerifier(testSecret, false))
	return r
}

func bearer(t *testing.T) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "user_routes",
		"email": "routes@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatal(err)
	}
	return "Bearer " + token
}

func serve(r *gin.Engine, method, path, auth string) *httptest.ResponseRecorder {
	var body io.Reader
	if method == "POST" || method == "PUT" {
		body = strings.NewReader("{}")
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthAndWelcome(t *testing.T) {
	r := setupRouter(t)

	for _, path := range []string{"/health", "/"} {
		w := serve(r, "GET", path, "")
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d: %s", path, w.Code, w.Body.String())
		}
	}
}

func TestPublicReadRoutes(t *testing.T) {
	r := setupRouter(t)

	for _, path := range []string{"/api/products", "/api/categories", "/api/categories/tree"} {
		w := serve(r, "GET", path, "")
		if w.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d: %s", path, w.Code, w.Body.String())
		}
	}
}

func TestMutationsRequireAuth(t *testing.T) {
	r := setupRouter(t)
	id := uuid.New().String()

	cases := []struct{ method, path string }{
		{"POST", "/api/categories"},
		{"PUT", "/api/categories/" + id},
		{"DELETE", "/api/categories/" + id},
		{"POST", "/api/products"},
		{"PUT", "/api/products/" + id},
		{"DELETE", "/api/products/" + id},
		{"POST", "/api/products/images"},
		{"PUT", "/api/products/images/" + id},
		{"DELETE", "/api/products/images/" + id},
		{"POST", "/api/products/" + id + "/images/upload"},
		{"GET", "/api/users"},
		{"GET", "/api/users/me"},
	}
	for _, tc := range cases {
		w := serve(r, tc.method, tc.path, "")
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401, got %d", tc.method, tc.path, w.Code)
		}
	}
}

func TestAuthenticatedMutationReachesHandler(t *testing.T) {
	r := setupRouter(t)

	// An empty body passes auth and fails validation.
	w := serve(r, "POST", "/api/categories", bearer(t))
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", w.Code, w.Body.String())
	}
}

func TestPlaceholderRoutes(t *testing.T) {
	r := setupRouter(t)

	for name, path := range map[string]string{
		"Carts":     "/api/carts",
		"Wishlists": "/api/wishlists",
		"Orders":    "/api/orders",
		"Reviews":   "/api/reviews",
	} {
		w := serve(r, "GET", path, "")
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, w.Code)
		}
		var resp map[string]string
		json.Unmarshal(w.Body.Bytes(), &resp)
		if resp["message"] != name+" API - Not implemented yet" {
			t.Errorf("%s: unexpected message %q", path, resp["message"])
		}
	}
}
