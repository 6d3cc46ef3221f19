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

type ActivityRepository struct {
	DB *sql.DB
}

func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{DB: db}
}

const activityColumns = `id, kind, title, start_time, reminder_minutes_before, reminder_sent, owner_id, lead_id, notes, created_at, updated_at`

func (r *ActivityRepository) Create(ctx context.Context, a *entity.Activity) error {
	query := `
		INSERT INTO activities (` + activityColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.DB.ExecContext(ctx, query,
		a.ID, a.Kind, a.Title, a.StartTime, a.ReminderMinutesBefore, a.ReminderSent,
		a.OwnerID, a.LeadID, a.Notes, a.CreatedAt, a.UpdatedAt,
	)
	return err
}

func scanActivity(row interface{ Scan(...any) error }) (*entity.Activity, error) {
	var a entity.Activity
	err := row.Scan(
		&a.ID, &a.Kind, &a.Title, &a.StartTime, &a.ReminderMinutesBefore, &a.ReminderSent,
		&a.OwnerID, &a.LeadID, &a.Notes, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *ActivityRepository) FindByID(ctx context.Context, id string) (*entity.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE id = $1`
	return scanActivity(r.DB.QueryRowContext(ctx, query, id))
}

func (r *ActivityRepository) List(ctx context.Context, f entity.ActivityFilter) ([]entity.Activity, error) {
	clauses := []string{"1=1"}
	var args []any
	add := func(clause string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}
	if f.Kind != "" {
		add("kind = $%d", f.Kind)
	}
	if f.OwnerID != "" {
		add("owner_id = $%d", f.OwnerID)
	}
	if f.LeadID != "" {
		add("lead_id = $%d", f.LeadID)
	}

	query := `SELECT ` + activityColumns + ` FROM activities WHERE ` +
		strings.Join(clauses, " AND ") + ` ORDER BY start_time DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, f.Offset)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []entity.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, *a)
	}
	return activities, rows.Err()
}

func (r *ActivityRepository) Delete(ctx context.Context, id, ownerID string) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM activities WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ClaimDueReminders flips reminder_sent on every due row and returns
// the claimed rows in the same statement. Concurrent sweeps racing over
// the same rows each claim a disjoint subset, so a reminder fires at
// most once per activity. Activities already in the past are skipped,
// never back-filled.
func (r *ActivityRepository) ClaimDueReminders(ctx context.Context, now time.Time) ([]entity.Activity, error) {
	query := `
		UPDATE activities
		SET reminder_sent = TRUE, updated_at = NOW()
		WHERE reminder_sent = FALSE
			AND reminder_minutes_before > 0
			AND start_time > $1
			AND start_time - make_interval(mins => reminder_minutes_before) <= $1
		RETURNING ` + activityColumns

	rows, err := r.DB.QueryContext(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var claimed []entity.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		claimed = append(claimed, *a)
	}
	return claimed, rows.Err()
}
