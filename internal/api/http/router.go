package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/avinashg0y4l/lighthouse-chatbot/internal/api/http/middleware"
	"github.com/avinashg0y4l/lighthouse-chatbot/internal/logger"
	"github.com/avinashg0y4l/lighthouse-chatbot/internal/model"
)

// Pinger reports database reachability for the status route.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewRouter assembles the webhook, status and admin review routes.
func NewRouter(
	webhook *WebhookHandler,
	admin *AdminHandler,
	users model.UserStore,
	db Pinger,
	tokens model.TokenManager,
	logger *logger.Logger,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.NewLogging(logger).Handle)

	r.Get("/", handleHome(users, db))
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/webhook/whatsapp", webhook.HandleWhatsApp)

	auth := middleware.NewAuthenticate(tokens, logger)
	r.Route("/admin", func(r chi.Router) {
		r.Post("/token", admin.HandleToken)
		r.With(auth.Handle).Get("/kyc", admin.HandleListKyc)
		r.With(auth.Handle).Post("/kyc/{documentId}/review", admin.HandleReviewKyc)
	})

	return r
}

func handleHome(users model.UserStore, db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusOK, map[string]string{
				"status": "LightHouse Chatbot server is running",
				"db":     "unreachable",
			})
			return
		}

		count, err := users.Count(r.Context())
		if err != nil {
			writeJSON(w, http.StatusOK, map[string]string{
				"status": "LightHouse Chatbot server is running",
				"db":     "connected",
			})
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{
			"status": "LightHouse Chatbot server is running",
			"db":     "connected",
			"users":  fmt.Sprintf("%d", count),
		})
	}
}
