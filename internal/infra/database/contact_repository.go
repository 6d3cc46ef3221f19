package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/salespipe/crm-backend/internal/entity"
)

type ContactRepository struct {
	DB *sql.DB
}

func NewContactRepository(db *sql.DB) *ContactRepository {
	return &ContactRepository{DB: db}
}

const contactColumns = `id, full_name, email, phone, position, company_id, owner_id, deleted_at, created_at, updated_at`

func (r *ContactRepository) Create(ctx context.Context, c *entity.Contact) error {
	query := `
		INSERT INTO contacts (` + contactColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.DB.ExecContext(ctx, query,
		c.ID, c.FullName, c.Email, c.Phone, c.Position, c.CompanyID, c.OwnerID,
		c.DeletedAt, c.CreatedAt, c.UpdatedAt,
	)
	return err
}

func scanContact(row interface{ Scan(...any) error }) (*entity.Contact, error) {
	var c entity.Contact
	err := row.Scan(
		&c.ID, &c.FullName, &c.Email, &c.Phone, &c.Position, &c.CompanyID, &c.OwnerID,
		&c.DeletedAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *ContactRepository) FindByID(ctx context.Context, id string) (*entity.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1 AND deleted_at IS NULL`
	return scanContact(r.DB.QueryRowContext(ctx, query, id))
}

func (r *ContactRepository) Update(ctx context.Context, c *entity.Contact) error {
	query := `
		UPDATE contacts
		SET full_name = $1, email = $2, phone = $3, position = $4, company_id = $5, updated_at = NOW()
		WHERE id = $6 AND deleted_at IS NULL
	`
	_, err := r.DB.ExecContext(ctx, query, c.FullName, c.Email, c.Phone, c.Position, c.CompanyID, c.ID)
	return err
}

func (r *ContactRepository) SoftDelete(ctx context.Context, id string) error {
	query := `UPDATE contacts SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	_, err := r.DB.ExecContext(ctx, query, id)
	return err
}

func (r *ContactRepository) List(ctx context.Context, search string, limit, offset int) ([]entity.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE deleted_at IS NULL`
	var args []any
	if search != "" {
		args = append(args, "%"+search+"%")
		query += ` AND (full_name ILIKE $1 OR email ILIKE $1)`
	}
	query += ` ORDER BY created_at DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contacts []entity.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, *c)
	}
	return contacts, rows.Err()
}
