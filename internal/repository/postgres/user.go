package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/avinashg0y4l/lighthouse-chatbot/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

type UserRepository struct {
	db *Connection
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

const userColumns = `id, whatsapp_number, COALESCE(sampatti_card_id, ''), COALESCE(role, ''), language_preference, created_at`

func (r *UserRepository) scanUser(row pgx.Row) (model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID, &user.WhatsAppNumber, &user.SampattiCardID, &user.Role,
		&user.Language, &user.CreatedAt,
	)
	return user, err
}

func (r *UserRepository) GetByWhatsAppNumber(ctx context.Context, number string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE whatsapp_number = $1`

	user, err := r.scanUser(r.db.QueryRow(ctx, query, number))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by whatsapp number: %w", err)
	}

	return user, nil
}

func (r *UserRepository) GetByCardID(ctx context.Context, cardID string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE sampatti_card_id = $1`

	user, err := r.scanUser(r.db.QueryRow(ctx, query, cardID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by card id: %w", err)
	}

	return user, nil
}

func (r *UserRepository) GetWorkerByCardID(ctx context.Context, cardID string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE sampatti_card_id = $1 AND role = $2`

	user, err := r.scanUser(r.db.QueryRow(ctx, query, cardID, model.RoleWorker))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get worker by card id: %w", err)
	}

	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	query := `INSERT INTO users (id, whatsapp_number, sampatti_card_id, role, language_preference, created_at)
			  VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6)
			  RETURNING ` + userColumns

	savedUser, err := r.scanUser(r.db.QueryRow(ctx, query,
		user.ID, user.WhatsAppNumber, user.SampattiCardID, string(user.Role),
		user.Language, user.CreatedAt,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return model.User{}, model.ErrDuplicate
		}
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return savedUser, nil
}

// LinkCard sets the card ID and role of an existing user. The sampatti_card_id
// guard keeps the link write-once even under concurrent registration.
func (r *UserRepository) LinkCard(ctx context.Context, id uuid.UUID, cardID string, role model.Role) error {
	query := `UPDATE users SET sampatti_card_id = $2, role = $3
			  WHERE id = $1 AND sampatti_card_id IS NULL`

	tag, err := r.db.Exec(ctx, query, id, cardID, string(role))
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrDuplicate
		}
		return fmt.Errorf("failed to link card: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}

	return count, nil
}
