package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/avinashg0y4l/lighthouse-chatbot/internal/model"
)

var _ model.SalaryStore = (*SalaryRepository)(nil)

type SalaryRepository struct {
	db *Connection
}

func NewSalaryRepository(db *Connection) *SalaryRepository {
	return &SalaryRepository{
		db: db,
	}
}

func (r *SalaryRepository) Create(ctx context.Context, log model.SalaryLog) (model.SalaryLog, error) {
	query := `INSERT INTO salary_logs (id, employer_user_id, worker_user_id, amount, payment_date, notes, logged_at)
			  VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7)
			  RETURNING id, employer_user_id, worker_user_id, amount::text, payment_date, COALESCE(notes, ''), logged_at`

	saved, err := r.scanLog(r.db.QueryRow(ctx, query,
		log.ID, log.EmployerUserID, log.WorkerUserID, log.Amount.StringFixed(2),
		log.PaymentDate, log.Notes, log.LoggedAt,
	))
	if err != nil {
		return model.SalaryLog{}, fmt.Errorf("failed to create salary log: %w", err)
	}

	return saved, nil
}

func (r *SalaryRepository) GetRecentByWorker(ctx context.Context, workerID uuid.UUID, limit int) ([]model.SalaryLog, error) {
	query := `SELECT id, employer_user_id, worker_user_id, amount::text, payment_date, COALESCE(notes, ''), logged_at
			  FROM salary_logs WHERE worker_user_id = $1
			  ORDER BY payment_date DESC LIMIT $2`

	rows, err := r.db.Query(ctx, query, workerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query salary logs: %w", err)
	}
	defer rows.Close()

	var logs []model.SalaryLog
	for rows.Next() {
		log, err := r.scanLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salary log: %w", err)
		}
		logs = append(logs, log)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read salary logs: %w", err)
	}

	return logs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *SalaryRepository) scanLog(row rowScanner) (model.SalaryLog, error) {
	var (
		log    model.SalaryLog
		amount string
	)
	err := row.Scan(
		&log.ID, &log.EmployerUserID, &log.WorkerUserID, &amount,
		&log.PaymentDate, &log.Notes, &log.LoggedAt,
	)
	if err != nil {
		return model.SalaryLog{}, err
	}

	log.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return model.SalaryLog{}, fmt.Errorf("failed to parse stored amount %q: %w", amount, err)
	}

	return log, nil
}
