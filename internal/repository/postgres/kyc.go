package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/avinashg0y4l/lighthouse-chatbot/internal/model"
)

var _ model.KycStore = (*KycRepository)(nil)

type KycRepository struct {
	db *Connection
}

func NewKycRepository(db *Connection) *KycRepository {
	return &KycRepository{
		db: db,
	}
}

func (r *KycRepository) Create(ctx context.Context, doc model.KycDocument) (model.KycDocument, error) {
	query := `INSERT INTO kyc_documents (id, user_id, document_type, storage_path, status, uploaded_at)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id, user_id, document_type, storage_path, status, uploaded_at`

	var saved model.KycDocument
	err := r.db.QueryRow(ctx, query,
		doc.ID, doc.UserID, doc.DocumentType, doc.StoragePath, string(doc.Status), doc.UploadedAt,
	).Scan(&saved.ID, &saved.UserID, &saved.DocumentType, &saved.StoragePath, &saved.Status, &saved.UploadedAt)
	if err != nil {
		return model.KycDocument{}, fmt.Errorf("failed to create kyc document: %w", err)
	}

	return saved, nil
}

func (r *KycRepository) ListByStatus(ctx context.Context, status model.KycStatus) ([]model.KycDocument, error) {
	query := `SELECT id, user_id, document_type, storage_path, status, uploaded_at
			  FROM kyc_documents WHERE status = $1
			  ORDER BY uploaded_at`

	rows, err := r.db.Query(ctx, query, string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to query kyc documents: %w", err)
	}
	defer rows.Close()

	var docs []model.KycDocument
	for rows.Next() {
		var doc model.KycDocument
		if err := rows.Scan(&doc.ID, &doc.UserID, &doc.DocumentType, &doc.StoragePath, &doc.Status, &doc.UploadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan kyc document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read kyc documents: %w", err)
	}

	return docs, nil
}

func (r *KycRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.KycStatus) error {
	query := `UPDATE kyc_documents SET status = $2 WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, string(status))
	if err != nil {
		return fmt.Errorf("failed to update kyc status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}
