package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/avinashg0y4l/lighthouse-chatbot/internal/model"
)

const defaultLanguage = "en"

// Register links a WhatsApp number to a Sampatti card ID and role.
// Re-registration with a card already on file is a no-op reporting the
// current state; a card linked to a different number is rejected.
func (c *Commands) Register(ctx context.Context, senderNumber string, cardParam, roleParam any) string {
	cardID := scalarString(cardParam)
	roleRaw := scalarString(roleParam)
	if cardID == "" || roleRaw == "" {
		c.logger.Error("Register command: missing parameters after extraction",
			"card_id", cardID,
			"role", roleRaw)
		return "Missing required registration details (ID or Role)."
	}

	role := model.Role(strings.ToLower(roleRaw))
	if !role.Valid() {
		return fmt.Sprintf("Invalid role detected or processed: '%s'. Use 'worker' or 'employer'.", role)
	}

	existing, err := c.users.GetByCardID(ctx, cardID)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		c.logger.Error("Register command: failed to look up card id",
			"card_id", cardID,
			"error", err.Error())
		return "A database error occurred during registration."
	}
	if err == nil && existing.WhatsAppNumber != senderNumber {
		return fmt.Sprintf("Error: Sampatti Card ID '%s' is already linked to another WhatsApp number.", cardID)
	}

	user, err := c.users.GetByWhatsAppNumber(ctx, senderNumber)
	switch {
	case err == nil:
		if user.Registered() {
			return fmt.Sprintf("You are already registered with Sampatti Card ID: %s as a %s.", user.SampattiCardID, user.Role)
		}
		if err := c.users.LinkCard(ctx, user.ID, cardID, role); err != nil {
			if errors.Is(err, model.ErrDuplicate) {
				return fmt.Sprintf("Error: Sampatti Card ID '%s' is already linked to another WhatsApp number.", cardID)
			}
			c.logger.Error("Register command: failed to link card",
				"user_id", user.ID,
				"error", err.Error())
			return "A database error occurred during registration."
		}
		return fmt.Sprintf("Successfully linked WhatsApp to Sampatti Card ID: %s as a %s.", cardID, role)

	case errors.Is(err, model.ErrNotFound):
		newUser := model.User{
			ID:             uuid.New(),
			WhatsAppNumber: senderNumber,
			SampattiCardID: cardID,
			Role:           role,
			Language:       defaultLanguage,
			CreatedAt:      c.now().UTC(),
		}
		if _, err := c.users.Create(ctx, newUser); err != nil {
			if errors.Is(err, model.ErrDuplicate) {
				return fmt.Sprintf("Error: Sampatti Card ID '%s' is already linked to another WhatsApp number.", cardID)
			}
			c.logger.Error("Register command: failed to create user",
				"whatsapp_number", senderNumber,
				"error", err.Error())
			return "A database error occurred during registration."
		}
		return fmt.Sprintf("Welcome! Registered with Sampatti Card ID: %s as a %s.", cardID, role)

	default:
		c.logger.Error("Register command: failed to look up sender",
			"whatsapp_number", senderNumber,
			"error", err.Error())
		return "A database error occurred during registration."
	}
}
