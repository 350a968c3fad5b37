package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// KycStatus is the verification state of an uploaded document.
type KycStatus string

const (
	// KycStatusPending is the initial state of every uploaded document.
	KycStatusPending KycStatus = "pending"
	// KycStatusApproved is set by a reviewer after verification.
	KycStatusApproved KycStatus = "approved"
	// KycStatusRejected is set by a reviewer when a document fails verification.
	KycStatusRejected KycStatus = "rejected"
)

// Valid reports whether the status is one of the known states.
func (s KycStatus) Valid() bool {
	return s == KycStatusPending || s == KycStatusApproved || s == KycStatusRejected
}

// KycStore defines persistence operations for KYC documents.
type KycStore interface {
	Create(ctx context.Context, doc KycDocument) (KycDocument, error)
	ListByStatus(ctx context.Context, status KycStatus) ([]KycDocument, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status KycStatus) error
}

// KycDocument is a verification document uploaded by a worker.
// StoragePath is an opaque reference into the configured blob storage.
type KycDocument struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	DocumentType string
	StoragePath  string
	Status       KycStatus
	UploadedAt   time.Time
}
