package postgres

import (
	"context"
	"fmt"

	"github.com/avinashg0y4l/lighthouse-chatbot/internal/model"
)

var _ model.AttendanceStore = (*AttendanceRepository)(nil)

type AttendanceRepository struct {
	db *Connection
}

func NewAttendanceRepository(db *Connection) *AttendanceRepository {
	return &AttendanceRepository{
		db: db,
	}
}

func (r *AttendanceRepository) Create(ctx context.Context, log model.AttendanceLog) (model.AttendanceLog, error) {
	query := `INSERT INTO attendance_logs (id, user_id, log_type, logged_at)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id, user_id, log_type, logged_at`

	var saved model.AttendanceLog
	err := r.db.QueryRow(ctx, query,
		log.ID, log.UserID, string(log.LogType), log.Timestamp,
	).Scan(&saved.ID, &saved.UserID, &saved.LogType, &saved.Timestamp)
	if err != nil {
		return model.AttendanceLog{}, fmt.Errorf("failed to create attendance log: %w", err)
	}

	return saved, nil
}
