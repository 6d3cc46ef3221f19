package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/salespipe/crm-backend/internal/entity"
)

type InvoiceRepository struct {
	DB *sql.DB
}

func NewInvoiceRepository(db *sql.DB) *InvoiceRepository {
	return &InvoiceRepository{DB: db}
}

const invoiceColumns = `id, number, lead_id, customer_name, customer_email, status, currency, total, owner_id, issued_at, due_at, created_at, updated_at`

// CreateWithItems writes the head row and every line item in one
// transaction; a failed item insert rolls back the whole invoice.
func (r *InvoiceRepository) CreateWithItems(ctx context.Context, inv *entity.Invoice) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err = tx.ExecContext(ctx, query,
		inv.ID, inv.Number, inv.LeadID, inv.CustomerName, inv.CustomerEmail, inv.Status,
		inv.Currency, inv.Total, inv.OwnerID, inv.IssuedAt, inv.DueAt, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return entity.ErrDuplicate
		}
		return err
	}

	if err := insertItems(ctx, tx, inv); err != nil {
		return err
	}
	return tx.Commit()
}

// UpdateWithItems replaces the head row and the full item set
// atomically.
func (r *InvoiceRepository) UpdateWithItems(ctx context.Context, inv *entity.Invoice) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		UPDATE invoices
		SET number = $1, lead_id = $2, customer_name = $3, customer_email = $4,
			currency = $5, total = $6, due_at = $7, updated_at = $8
		WHERE id = $9
	`
	_, err = tx.ExecContext(ctx, query,
		inv.Number, inv.LeadID, inv.CustomerName, inv.CustomerEmail,
		inv.Currency, inv.Total, inv.DueAt, inv.UpdatedAt, inv.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return entity.ErrDuplicate
		}
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, inv.ID); err != nil {
		return err
	}
	if err := insertItems(ctx, tx, inv); err != nil {
		return err
	}
	return tx.Commit()
}

func insertItems(ctx context.Context, tx *sql.Tx, inv *entity.Invoice) error {
	for i := range inv.Items {
		item := &inv.Items[i]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		item.InvoiceID = inv.ID
		_, err := tx.ExecContext(ctx,
			`INSERT INTO invoice_items (id, invoice_id, description, quantity, unit_price) VALUES ($1, $2, $3, $4, $5)`,
			item.ID, item.InvoiceID, item.Description, item.Quantity, item.UnitPrice,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *InvoiceRepository) FindByID(ctx context.Context, id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	inv, err := scanInvoice(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, invoice_id, description, quantity, unit_price FROM invoice_items WHERE invoice_id = $1 ORDER BY id`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item entity.InvoiceItem
		if err := rows.Scan(&item.ID, &item.InvoiceID, &item.Description, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, err
		}
		inv.Items = append(inv.Items, item)
	}
	return inv, rows.Err()
}

func scanInvoice(row interface{ Scan(...any) error }) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := row.Scan(
		&inv.ID, &inv.Number, &inv.LeadID, &inv.CustomerName, &inv.CustomerEmail, &inv.Status,
		&inv.Currency, &inv.Total, &inv.OwnerID, &inv.IssuedAt, &inv.DueAt, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

func (r *InvoiceRepository) List(ctx context.Context, ownerID string, limit, offset int) ([]entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices`
	var args []any
	if ownerID != "" {
		args = append(args, ownerID)
		query += ` WHERE owner_id = $1`
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

	var invoices []entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, *inv)
	}
	return invoices, rows.Err()
}

func (r *InvoiceRepository) UpdateStatus(ctx context.Context, id string, status entity.InvoiceStatus) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `UPDATE invoices SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
