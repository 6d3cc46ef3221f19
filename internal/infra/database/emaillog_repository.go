package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/salespipe/crm-backend/internal/entity"
)

type EmailLogRepository struct {
	DB *sql.DB
}

func NewEmailLogRepository(db *sql.DB) *EmailLogRepository {
	return &EmailLogRepository{DB: db}
}

func (r *EmailLogRepository) Create(ctx context.Context, e *entity.EmailLog) error {
	query := `
		INSERT INTO emails (id, owner_id, lead_id, recipient, subject, body, sent_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.DB.ExecContext(ctx, query, e.ID, e.OwnerID, e.LeadID, e.To, e.Subject, e.Body, e.SentAt, e.CreatedAt)
	return err
}

func (r *EmailLogRepository) List(ctx context.Context, ownerID, leadID string, limit, offset int) ([]entity.EmailLog, error) {
	clauses := []string{"1=1"}
	var args []any
	if ownerID != "" {
		args = append(args, ownerID)
		clauses = append(clauses, fmt.Sprintf("owner_id = $%d", len(args)))
	}
	if leadID != "" {
		args = append(args, leadID)
		clauses = append(clauses, fmt.Sprintf("lead_id = $%d", len(args)))
	}

	query := `
		SELECT id, owner_id, lead_id, recipient, subject, body, sent_at, created_at
		FROM emails WHERE ` + strings.Join(clauses, " AND ") + ` ORDER BY sent_at DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []entity.EmailLog
	for rows.Next() {
		var e entity.EmailLog
		if err := rows.Scan(&e.ID, &e.OwnerID, &e.LeadID, &e.To, &e.Subject, &e.Body, &e.SentAt, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
