package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// LogType marks the direction of an attendance log entry.
type LogType string

const (
	// LogTypeCheckIn is recorded when a worker starts work.
	LogTypeCheckIn LogType = "checkin"
	// LogTypeCheckOut is recorded when a worker stops work.
	LogTypeCheckOut LogType = "checkout"
)

// AttendanceStore defines persistence operations for attendance logs.
// The log is append-only.
type AttendanceStore interface {
	Create(ctx context.Context, log AttendanceLog) (AttendanceLog, error)
}

// AttendanceLog is a single check-in or check-out event for a worker.
type AttendanceLog struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	LogType   LogType
	Timestamp time.Time
}
