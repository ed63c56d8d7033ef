package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestNotImplemented(t *testing.T) {
	r := gin.New()
	r.GET("/api/carts", NotImplemented("Carts"))

	w := doRequest(r, "GET", "/api/carts")
	expectStatus(t, w, http.StatusOK)

	if resp := parseResponse(w); resp["message"] != "Carts API - Not implemented yet" {
		t.Errorf("unexpected message: %v", resp["message"])
	}
}

func TestWelcomeAndHealth(t *testing.T) {
	r := gin.New()
	r.GET("/", Welcome)
	r.GET("/health", Health)

	w := doRequest(r, "GET", "/")
	expectStatus(t, w, http.StatusOK)
	if resp := parseResponse(w); resp["message"] != "Welcome to Modern Black Market API" {
		t.Errorf("unexpected message: %v", resp["message"])
	}

	w = doRequest(r, "GET", "/health")
	expectStatus(t, w, http.StatusOK)
	if resp := parseResponse(w); resp["status"] != "ok" {
		t.Errorf("unexpected status: %v", resp["status"])
	}
}
