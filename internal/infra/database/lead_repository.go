package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/salespipe/crm-backend/internal/entity"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

const leadColumns = `id, title, value, currency, stage, status, owner_id, contact_id, company_id, source, deleted_at, closed_at, created_at, updated_at`

func (r *LeadRepository) Create(ctx context.Context, l *entity.Lead) error {
	query := `
		INSERT INTO leads (` + leadColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := r.DB.ExecContext(ctx, query,
		l.ID, l.Title, l.Value, l.Currency, l.Stage, l.Status, l.OwnerID,
		l.ContactID, l.CompanyID, l.Source, l.DeletedAt, l.ClosedAt, l.CreatedAt, l.UpdatedAt,
	)
	return err
}

func scanLead(row interface{ Scan(...any) error }) (*entity.Lead, error) {
	var l entity.Lead
	err := row.Scan(
		&l.ID, &l.Title, &l.Value, &l.Currency, &l.Stage, &l.Status, &l.OwnerID,
		&l.ContactID, &l.CompanyID, &l.Source, &l.DeletedAt, &l.ClosedAt, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`
	lead, err := scanLead(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}
	labels, err := r.labelsFor(ctx, []string{lead.ID})
	if err != nil {
		return nil, err
	}
	lead.LabelIDs = labels[lead.ID]
	return lead, nil
}

func (r *LeadRepository) Update(ctx context.Context, l *entity.Lead) error {
	query := `
		UPDATE leads
		SET title = $1, value = $2, currency = $3, source = $4,
			contact_id = $5, company_id = $6, updated_at = $7
		WHERE id = $8 AND deleted_at IS NULL
	`
	_, err := r.DB.ExecContext(ctx, query,
		l.Title, l.Value, l.Currency, l.Source, l.ContactID, l.CompanyID, l.UpdatedAt, l.ID,
	)
	return err
}

func (r *LeadRepository) UpdateStage(ctx context.Context, id string, stage entity.Stage, status entity.LeadStatus, closedAt *time.Time) error {
	query := `
		UPDATE leads
		SET stage = $1, status = $2, closed_at = $3, updated_at = NOW()
		WHERE id = $4 AND deleted_at IS NULL
	`
	_, err := r.DB.ExecContext(ctx, query, stage, status, closedAt, id)
	return err
}

func (r *LeadRepository) UpdateStatus(ctx context.Context, id string, status entity.LeadStatus, closedAt *time.Time) error {
	query := `
		UPDATE leads
		SET status = $1, closed_at = $2, updated_at = NOW()
		WHERE id = $3 AND deleted_at IS NULL
	`
	_, err := r.DB.ExecContext(ctx, query, status, closedAt, id)
	return err
}

// SetLabels replaces the label set for a lead. Delete + insert runs in
// one transaction so the board never observes a half-replaced set.
func (r *LeadRepository) SetLabels(ctx context.Context, id string, labelIDs []string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM lead_labels WHERE lead_id = $1`, id); err != nil {
		return err
	}
	for _, labelID := range labelIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO lead_labels (lead_id, label_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			id, labelID,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *LeadRepository) SoftDelete(ctx context.Context, id string) error {
	query := `UPDATE leads SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	_, err := r.DB.ExecContext(ctx, query, id)
	return err
}

// buildFilter renders the shared WHERE clause. Soft-deleted rows are
// excluded unconditionally.
func buildFilter(f entity.LeadFilter) (string, []any) {
	clauses := []string{"deleted_at IS NULL"}
	var args []any

	add := func(clause string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if f.OwnerID != "" {
		add("owner_id = $%d", f.OwnerID)
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.Source != "" {
		add("source = $%d", f.Source)
	}
	if f.Search != "" {
		add("title ILIKE $%d", "%"+f.Search+"%")
	}
	if f.From != nil {
		add("created_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("created_at <= $%d", *f.To)
	}
	if f.LabelID != "" {
		add("EXISTS (SELECT 1 FROM lead_labels ll WHERE ll.lead_id = leads.id AND ll.label_id = $%d)", f.LabelID)
	}

	return strings.Join(clauses, " AND "), args
}

func (r *LeadRepository) List(ctx context.Context, f entity.LeadFilter) ([]entity.Lead, error) {
	where, args := buildFilter(f)
	query := `SELECT ` + leadColumns + ` FROM leads WHERE ` + where + ` ORDER BY created_at DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, f.Offset)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []entity.Lead
	var ids []string
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, *l)
		ids = append(ids, l.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	labels, err := r.labelsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range leads {
		leads[i].LabelIDs = labels[leads[i].ID]
	}
	return leads, nil
}

func (r *LeadRepository) CountByStatus(ctx context.Context, f entity.LeadFilter) (entity.LeadCounts, error) {
	where, args := buildFilter(f)
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'WON'),
			COUNT(*) FILTER (WHERE status = 'LOST')
		FROM leads WHERE ` + where

	var c entity.LeadCounts
	err := r.DB.QueryRowContext(ctx, query, args...).Scan(&c.Total, &c.Won, &c.Lost)
	return c, err
}

// ActiveSnapshot ignores any date range on purpose: the current
// pipeline is a point-in-time view, not a historical aggregate.
func (r *LeadRepository) ActiveSnapshot(ctx context.Context, ownerID string) (entity.PipelineSnapshot, error) {
	query := `
		SELECT COALESCE(SUM(value), 0), COUNT(*)
		FROM leads
		WHERE deleted_at IS NULL AND status = 'ACTIVE'
	`
	args := []any{}
	if ownerID != "" {
		query += ` AND owner_id = $1`
		args = append(args, ownerID)
	}

	var s entity.PipelineSnapshot
	err := r.DB.QueryRowContext(ctx, query, args...).Scan(&s.Value, &s.ActiveDeals)
	return s, err
}

func (r *LeadRepository) labelsFor(ctx context.Context, leadIDs []string) (map[string][]string, error) {
	out := make(map[string][]string)
	if len(leadIDs) == 0 {
		return out, nil
	}

	placeholders := make([]string, len(leadIDs))
	args := make([]any, len(leadIDs))
	for i, id := range leadIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	query := `SELECT lead_id, label_id FROM lead_labels WHERE lead_id IN (` + strings.Join(placeholders, ", ") + `)`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var leadID, labelID string
		if err := rows.Scan(&leadID, &labelID); err != nil {
			return nil, err
		}
		out[leadID] = append(out[leadID], labelID)
	}
	return out, rows.Err()
}
