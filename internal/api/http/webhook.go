package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/avinashg0y4l/lighthouse-chatbot/internal/logger"
	"github.com/avinashg0y4l/lighthouse-chatbot/internal/model"
	"github.com/avinashg0y4l/lighthouse-chatbot/internal/nlp"
)

// IntentResolver resolves text or voice input to an intent result.
type IntentResolver interface {
	DetectText(ctx context.Context, sessionID, text, languageCode string) nlp.Result
	DetectAudio(ctx context.Context, sessionID, audioURL, languageCode string) nlp.Result
}

// CommandService holds the side-effecting command handlers.
type CommandService interface {
	Register(ctx context.Context, senderNumber string, cardParam, roleParam any) string
	Attendance(ctx context.Context, user *model.User, logType model.LogType) string
	SalaryInquiry(ctx context.Context, user *model.User) string
	LogSalary(ctx context.Context, employer *model.User, cardParam, amountParam, dateParam, notesParam any) string
	MediaUpload(ctx context.Context, user *model.User, mediaURL, mediaType string) string
	Fallback(user *model.User, messageBody string) string
}

// WebhookHandler turns an inbound WhatsApp event into exactly one reply
// message: it normalizes the input modality, resolves an intent when
// applicable and dispatches to a command handler.
type WebhookHandler struct {
	users    model.UserStore
	resolver IntentResolver
	commands CommandService
	logger   *logger.Logger
}

func NewWebhookHandler(users model.UserStore, resolver IntentResolver, commands CommandService, logger *logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		users:    users,
		resolver: resolver,
		commands: commands,
		logger:   logger,
	}
}

func (h *WebhookHandler) HandleWhatsApp(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		h.logger.Error("Webhook: failed to parse form", "error", err.Error())
		writeTwiML(w, "Sorry, an unexpected error occurred. Please try again.")
		return
	}

	body := strings.TrimSpace(r.FormValue("Body"))
	sender := r.FormValue("From")
	numMedia, _ := strconv.Atoi(r.FormValue("NumMedia"))
	mediaURL := r.FormValue("MediaUrl0")
	mediaType := r.FormValue("MediaContentType0")

	h.logger.Info("Webhook: incoming message",
		"from", sender,
		"num_media", numMedia,
		"media_type", mediaType,
		"has_body", body != "")

	// The sender's stored language preference selects the NLU language;
	// unknown senders default to English.
	var user *model.User
	if u, err := h.users.GetByWhatsAppNumber(ctx, sender); err == nil {
		user = &u
	} else if !errors.Is(err, model.ErrNotFound) {
		h.logger.Error("Webhook: failed to look up sender",
			"from", sender,
			"error", err.Error())
	}
	language := "en"
	if user != nil && user.Language != "" {
		language = user.Language
	}

	var (
		reply string
		res   nlp.Result
	)

	switch {
	case numMedia > 0 && mediaURL != "" && mediaType != "":
		switch {
		case strings.HasPrefix(mediaType, "audio/"):
			webhookRequests.WithLabelValues("audio").Inc()
			res = h.resolver.DetectAudio(ctx, sender, mediaURL, language)
			if res.Intent == "" && res.Fallback == "" {
				reply = "Sorry, I encountered an error processing your voice message."
			} else if res.Intent == "" {
				reply = res.Fallback
			}
		case strings.HasPrefix(mediaType, "image/"), strings.HasPrefix(mediaType, "application/pdf"):
			webhookRequests.WithLabelValues("document").Inc()
			if user == nil {
				reply = "Please register before uploading files. Send: register <ID> <role>"
			} else {
				reply = h.commands.MediaUpload(ctx, user, mediaURL, mediaType)
				if reply == "" {
					reply = "Error: File upload processing failed unexpectedly."
				}
			}
		default:
			webhookRequests.WithLabelValues("unsupported_media").Inc()
			reply = "Sorry, I can only process voice messages, images, and PDF files right now."
		}

	case body != "":
		webhookRequests.WithLabelValues("text").Inc()
		res = h.resolver.DetectText(ctx, sender, body, language)
		if res.Intent == "" && res.Fallback == "" {
			reply = "Sorry, I'm having trouble understanding that command (text error)."
		}

	default:
		webhookRequests.WithLabelValues("empty").Inc()
	}

	if reply == "" && res.Intent != "" {
		reply = h.routeIntent(ctx, user, sender, body, res)
	}
	if reply == "" {
		reply = h.commands.Fallback(user, body)
	}
	if reply == "" {
		reply = "Sorry, an unexpected error occurred. Please try again."
	}

	writeTwiML(w, reply)
}

// routeIntent dispatches a resolved intent to its command handler. Intents
// whose required parameters were not extracted fall back to the resolver's
// own prompt text.
func (h *WebhookHandler) routeIntent(ctx context.Context, user *model.User, sender, body string, res nlp.Result) string {
	webhookIntents.WithLabelValues(res.Intent).Inc()

	params := res.Params
	if params == nil {
		params = map[string]any{}
	}

	switch res.Intent {
	case "RegisterUser":
		cardParam, roleParam := params["sampatti_id"], params["role"]
		if cardParam != nil && roleParam != nil {
			return h.commands.Register(ctx, sender, cardParam, roleParam)
		}
		if res.Fallback != "" {
			return res.Fallback
		}
		return "Please provide the missing registration details (ID and Role)."

	case "CheckIn":
		return h.commands.Attendance(ctx, user, model.LogTypeCheckIn)

	case "CheckOut":
		return h.commands.Attendance(ctx, user, model.LogTypeCheckOut)

	case "SalaryInquiry":
		return h.commands.SalaryInquiry(ctx, user)

	case "LogSalary":
		cardParam, amountParam := params["sampatti_id"], params["amount"]
		if cardParam != nil && amountParam != nil {
			return h.commands.LogSalary(ctx, user, cardParam, amountParam, params["date"], params["notes"])
		}
		if res.Fallback != "" {
			return res.Fallback
		}
		return "Please provide the missing salary details (Worker ID, Amount)."

	case "Default Welcome Intent":
		if res.Fallback != "" {
			return res.Fallback
		}
		return "Hello! How can I help?"

	case "Default Fallback Intent":
		if res.Fallback != "" {
			return res.Fallback
		}
		return h.commands.Fallback(user, body)

	default:
		h.logger.Warn("Webhook: intent has no mapped handler", "intent", res.Intent)
		if res.Fallback != "" {
			return res.Fallback
		}
		return fmt.Sprintf("I understood you want to '%s', but I don't have a specific action for that yet.", res.Intent)
	}
}
