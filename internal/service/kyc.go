package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/avinashg0y4l/lighthouse-chatbot/internal/model"
	"github.com/avinashg0y4l/lighthouse-chatbot/internal/twilio"
)

var allowedExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"pdf":  true,
}

// Document classification is not implemented yet; every upload is recorded
// under this placeholder type.
const placeholderDocumentType = "Uploaded Document"

// MediaUpload downloads a document attachment, stores the blob and records a
// pending KYC document for the worker.
func (c *Commands) MediaUpload(ctx context.Context, user *model.User, mediaURL, mediaType string) string {
	if user == nil {
		c.logger.Error("Media command: upload called without user")
		return "Cannot process file upload without user registration."
	}
	if user.Role != model.RoleWorker {
		c.logger.Info("Media command: upload attempt by non-worker",
			"user_id", user.ID,
			"role", user.Role)
		return "File upload is currently only enabled for the 'worker' role."
	}

	ext := extensionFromContentType(mediaType)
	if !allowedExtensions[ext] {
		c.logger.Info("Media command: unsupported file type",
			"user_id", user.ID,
			"media_type", mediaType)
		return fmt.Sprintf("Unsupported file type: %s. Please upload PDF, PNG, JPG, or JPEG.", mediaType)
	}

	body, err := c.fetcher.Fetch(ctx, mediaURL)
	if err != nil {
		c.logger.Error("Media command: failed to download",
			"user_id", user.ID,
			"error", err.Error())
		if errors.Is(err, twilio.ErrNoCredentials) {
			return "Error: System config issue."
		}
		var httpErr *twilio.HTTPError
		if errors.As(err, &httpErr) {
			return fmt.Sprintf("Error downloading file (HTTP %d).", httpErr.StatusCode)
		}
		return "Network error downloading file."
	}
	defer body.Close()

	filename := fmt.Sprintf("user_%s_kyc_%s.%s", user.ID, uuid.New(), ext)
	if err := c.storage.Upload(ctx, filename, body); err != nil {
		c.logger.Error("Media command: failed to store file",
			"user_id", user.ID,
			"filename", filename,
			"error", err.Error())
		return "Error saving file."
	}

	doc := model.KycDocument{
		ID:           uuid.New(),
		UserID:       user.ID,
		DocumentType: placeholderDocumentType,
		StoragePath:  filename,
		Status:       model.KycStatusPending,
		UploadedAt:   c.now().UTC(),
	}
	if _, err := c.kyc.Create(ctx, doc); err != nil {
		c.logger.Error("Media command: failed to record document",
			"user_id", user.ID,
			"filename", filename,
			"error", err.Error())
		return "Received file, but failed to record it."
	}

	c.logger.Info("Media command: document recorded",
		"user_id", user.ID,
		"filename", filename)

	return fmt.Sprintf("Received your file (%s). It is pending review.", filename)
}

// extensionFromContentType maps a MIME type to a lowercased file extension,
// taking the subtype of the media type and ignoring parameters.
func extensionFromContentType(contentType string) string {
	mainType := strings.TrimSpace(strings.Split(contentType, ";")[0])
	parts := strings.Split(mainType, "/")

	return strings.ToLower(parts[len(parts)-1])
}
