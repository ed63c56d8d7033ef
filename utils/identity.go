package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// TokenVerifier checks identity-provider session tokens. In debug mode the
// signature and expiry are not checked, so tokens from a development
// instance can be used without its secret.
type TokenVerifier struct {
	secret []byte
	debug  bool
}

func NewTokenVerifier(secret string, debug bool) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret), debug: debug}
}

func (v *TokenVerifier) Debug() bool { return v.debug }

// Verify returns the token's claims. Outside debug mode the token must be
// HS256-signed with the provider secret and unexpired.
func (v *TokenVerifier) Verify(tokenString string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}

	if v.debug {
		if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
			return nil, fmt.Errorf("parse token: %w", err)
		}
		return claims, nil
	}

	if len(v.secret) == 0 {
		return nil, errors.New("token secret not configured")
	}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}
	return claims, nil
}

// EmailFromClaims finds the caller's email in the places identity tokens
// carry it, most specific first. It returns "" when there is none.
func EmailFromClaims(claims jwt.MapClaims) string {
	if email := stringClaim(claims, "email"); email != "" {
		return email
	}
	if email := stringClaim(claims, "primary_email_address"); email != "" {
		return email
	}
	if email := firstEmailAddress(claims["email_addresses"]); email != "" {
		return email
	}
	if userData, ok := claims["user_data"].(map[string]interface{}); ok {
		if email := firstEmailAddress(userData["email_addresses"]); email != "" {
			return email
		}
		if email, _ := userData["primary_email_address"].(string); email != "" {
			return email
		}
	}
	if name := stringClaim(claims, "preferred_username"); strings.Contains(name, "@") {
		return name
	}
	if sub := stringClaim(claims, "sub"); strings.Contains(sub, "@") {
		return sub
	}
	return ""
}

// FallbackEmail derives a stable placeholder address from the subject, for
// tokens that carry no email at all.
func FallbackEmail(claims jwt.MapClaims) string {
	sub := stringClaim(claims, "sub")
	if sub == "" {
		return ""
	}
	return sub + "@clerk.user"
}

func stringClaim(claims jwt.MapClaims, key string) string {
	s, _ := claims[key].(string)
	return s
}

// firstEmailAddress reads the first entry of an email_addresses claim, which
// holds either plain strings or {"email_address": ...} objects.
func firstEmailAddress(v interface{}) string {
	list, ok := v.([]interface{})
	if !ok || len(list) == 0 {
		return ""
	}
	switch first := list[0].(type) {
	case string:
		return first
	case map[string]interface{}:
		email, _ := first["email_address"].(string)
		return email
	}
	return ""
}
