package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/salespipe/crm-backend/internal/entity"
)

type AuditLogRepository struct {
	DB *sql.DB
}

func NewAuditLogRepository(db *sql.DB) *AuditLogRepository {
	return &AuditLogRepository{DB: db}
}

func (r *AuditLogRepository) Create(ctx context.Context, a *entity.AuditLog) error {
	query := `
		INSERT INTO audit_logs (id, actor_id, action, entity, entity_id, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.DB.ExecContext(ctx, query, a.ID, a.ActorID, a.Action, a.Entity, a.EntityID, a.Detail, a.CreatedAt)
	return err
}

func (r *AuditLogRepository) List(ctx context.Context, limit, offset int) ([]entity.AuditLog, error) {
	query := `SELECT id, actor_id, action, entity, entity_id, detail, created_at FROM audit_logs ORDER BY created_at DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)
	}

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []entity.AuditLog
	for rows.Next() {
		var a entity.AuditLog
		if err := rows.Scan(&a.ID, &a.ActorID, &a.Action, &a.Entity, &a.EntityID, &a.Detail, &a.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, a)
	}
	return logs, rows.Err()
}

type PasswordResetRepository struct {
	DB *sql.DB
}

func NewPasswordResetRepository(db *sql.DB) *PasswordResetRepository {
	return &PasswordResetRepository{DB: db}
}

func (r *PasswordResetRepository) Create(ctx context.Context, pr *entity.PasswordReset) error {
	query := `
		INSERT INTO password_resets (token, user_id, expires_at, used_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.DB.ExecContext(ctx, query, pr.Token, pr.UserID, pr.ExpiresAt, pr.UsedAt, pr.CreatedAt)
	return err
}

func (r *PasswordResetRepository) FindByToken(ctx context.Context, token string) (*entity.PasswordReset, error) {
	query := `SELECT token, user_id, expires_at, used_at, created_at FROM password_resets WHERE token = $1`
	var pr entity.PasswordReset
	err := r.DB.QueryRowContext(ctx, query, token).Scan(&pr.Token, &pr.UserID, &pr.ExpiresAt, &pr.UsedAt, &pr.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entity.ErrNotFound
		}
		return nil, err
	}
	return &pr, nil
}

func (r *PasswordResetRepository) MarkUsed(ctx context.Context, token string) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE password_resets SET used_at = NOW() WHERE token = $1`, token)
	return err
}
