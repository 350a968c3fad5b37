package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/avinashg0y4l/lighthouse-chatbot/internal/logger"
	"github.com/avinashg0y4l/lighthouse-chatbot/internal/model"
)

// Authenticate validates admin bearer tokens on the KYC review routes.
type Authenticate struct {
	tokens model.TokenManager
	logger *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokens model.TokenManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokens: tokens, logger: logger}
}

// Handle rejects requests without a valid admin token.
func (m *Authenticate) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if tokenString == "" {
			unauthorized(w, "missing_token")
			return
		}

		if err := m.tokens.ParseAdminToken(tokenString); err != nil {
			m.logger.Info("Authenticate middleware: rejected token", "error", err.Error())
			unauthorized(w, "invalid_token")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func unauthorized(w http.ResponseWriter, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": code})
}
