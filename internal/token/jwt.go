package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/avinashg0y4l/lighthouse-chatbot/internal/model"
)

// Claims represents JWT claims with the token scope.
type Claims struct {
	jwt.RegisteredClaims
	Scope string `json:"scope"`
}

// JWT implements TokenManager backed by symmetric HMAC.
type JWT struct {
	secretKey string
}

// NewJWT creates a new JWT token manager with the provided secret key.
func NewJWT(secretKey string) model.TokenManager {
	return &JWT{secretKey: secretKey}
}

const (
	adminTTL   = 1 * time.Hour
	scopeAdmin = "admin"
)

// GenerateAdminToken creates a short-lived token for the KYC review API.
func (j *JWT) GenerateAdminToken() (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(adminTTL)),
		},
		Scope: scopeAdmin,
	})

	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign admin token: %w", err)
	}

	return tokenString, nil
}

// ParseAdminToken validates an admin token's signature, expiry and scope.
func (j *JWT) ParseAdminToken(tokenString string) error {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		return fmt.Errorf("failed to parse admin token: %w", err)
	}
	if !token.Valid {
		return fmt.Errorf("admin token is invalid")
	}
	if claims.Scope != scopeAdmin {
		return fmt.Errorf("token scope mismatch: %s", claims.Scope)
	}

	return nil
}
