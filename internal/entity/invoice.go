package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type InvoiceStatus string

const (
	InvoiceDraft InvoiceStatus = "DRAFT"
	InvoiceSent  InvoiceStatus = "SENT"
	InvoicePaid  InvoiceStatus = "PAID"
	InvoiceVoid  InvoiceStatus = "VOID"
)

type InvoiceItem struct {
	ID          string `json:"id"`
	InvoiceID   string `json:"invoice_id"`
	Description string `json:"description"`
	Quantity    int64  `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"` // minor currency units
}

type Invoice struct {
	ID            string        `json:"id"`
	Number        string        `json:"number"`
	LeadID        *string       `json:"lead_id,omitempty"`
	CustomerName  string        `json:"customer_name"`
	CustomerEmail string        `json:"customer_email"`
	Status        InvoiceStatus `json:"status"`
	Currency      string        `json:"currency"`
	Total         int64         `json:"total"`
	Items         []InvoiceItem `json:"items"`
	OwnerID       string        `json:"owner_id"`
	IssuedAt      time.Time     `json:"issued_at"`
	DueAt         *time.Time    `json:"due_at,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

func NewInvoice(number, customerName, customerEmail, currency, ownerID string) *Invoice {
	now := time.Now()
	if currency == "" {
		currency = "IDR"
	}
	return &Invoice{
		ID:            uuid.New().String(),
		Number:        number,
		CustomerName:  customerName,
		CustomerEmail: customerEmail,
		Status:        InvoiceDraft,
		Currency:      currency,
		OwnerID:       ownerID,
		IssuedAt:      now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Recalculate derives the total from the line items.
func (i *Invoice) Recalculate() {
	var total int64
	for _, it := range i.Items {
		total += it.Quantity * it.UnitPrice
	}
	i.Total = total
}

type InvoiceRepository interface {
	// CreateWithItems and UpdateWithItems run inside a single database
	// transaction: the invoice and its line items move together or not
	// at all.
	CreateWithItems(ctx context.Context, inv *Invoice) error
	UpdateWithItems(ctx context.Context, inv *Invoice) error
	FindByID(ctx context.Context, id string) (*Invoice, error)
	List(ctx context.Context, ownerID string, limit, offset int) ([]Invoice, error)
	UpdateStatus(ctx context.Context, id string, status InvoiceStatus) (int64, error)
}
