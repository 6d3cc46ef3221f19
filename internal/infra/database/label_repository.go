package database

import (
	"context"
	"database/sql"

	"github.com/salespipe/crm-backend/internal/entity"
)

type LabelRepository struct {
	DB *sql.DB
}

func NewLabelRepository(db *sql.DB) *LabelRepository {
	return &LabelRepository{DB: db}
}

func (r *LabelRepository) Create(ctx context.Context, l *entity.Label) error {
	query := `INSERT INTO labels (id, name, color, created_at) VALUES ($1, $2, $3, $4)`
	_, err := r.DB.ExecContext(ctx, query, l.ID, l.Name, l.Color, l.CreatedAt)
	if err != nil && isUniqueViolation(err) {
		return entity.ErrDuplicate
	}
	return err
}

func (r *LabelRepository) List(ctx context.Context) ([]entity.Label, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, name, color, created_at FROM labels ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var labels []entity.Label
	for rows.Next() {
		var l entity.Label
		if err := rows.Scan(&l.ID, &l.Name, &l.Color, &l.CreatedAt); err != nil {
			return nil, err
		}
		labels = append(labels, l)
	}
	return labels, rows.Err()
}

func (r *LabelRepository) Delete(ctx context.Context, id string) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM labels WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
