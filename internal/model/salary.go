package model

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalaryStore defines persistence operations for salary logs.
// The log is append-only.
type SalaryStore interface {
	Create(ctx context.Context, log SalaryLog) (SalaryLog, error)
	GetRecentByWorker(ctx context.Context, workerID uuid.UUID, limit int) ([]SalaryLog, error)
}

// SalaryLog records a single salary payment from an employer to a worker.
type SalaryLog struct {
	ID             uuid.UUID
	EmployerUserID uuid.UUID
	WorkerUserID   uuid.UUID
	Amount         decimal.Decimal
	PaymentDate    time.Time
	Notes          string
	LoggedAt       time.Time
}
