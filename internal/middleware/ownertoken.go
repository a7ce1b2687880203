package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const OwnerKey contextKey = "owner"

// OwnerAuth issues and verifies quiz-owner tokens. A token is minted when a
// quiz is generated and later gates the stats and archive endpoints for that
// creator. There are no stored credentials; the token is the only proof of
// ownership.
type OwnerAuth struct {
	Secret []byte
}

func NewOwnerAuth(secret string) *OwnerAuth {
	return &OwnerAuth{Secret: []byte(secret)}
}

// GenerateOwnerToken creates a JWT bound to the creator identity, valid a
// little longer than the quiz itself.
func (a *OwnerAuth) GenerateOwnerToken(owner string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"owner": owner,
		"exp":   time.Now().Add(ttl).Unix(),
		"iat":   time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.Secret)
}

// Middleware validates the bearer token and attaches the owner identity to
// the request context.
func (a *OwnerAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing authorization header", r)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid authorization format", r)
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return a.Secret, nil
		})

		if err != nil {
			if strings.Contains(err.Error(), "expired") {
				writeError(w, http.StatusUnauthorized, "TOKEN_EXPIRED", "Token has expired", r)
			} else {
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token", r)
			}
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok || !token.Valid {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token claims", r)
			return
		}

		owner, ok := claims["owner"].(string)
		if !ok || owner == "" {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid owner in token", r)
			return
		}

		ctx := context.WithValue(r.Context(), OwnerKey, owner)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetOwner extracts the owner identity from the request context.
func GetOwner(ctx context.Context) string {
	owner, _ := ctx.Value(OwnerKey).(string)
	return owner
}

func writeError(w http.ResponseWriter, status int, code, message string, r *http.Request) {
	requestID := r.Header.Get("X-Request-ID")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]interface{}{
			"code":       code,
			"message":    message,
			"request_id": requestID,
		},
	})
}
