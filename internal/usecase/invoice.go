package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/salespipe/crm-backend/internal/entity"
	"github.com/salespipe/crm-backend/internal/validation"
)

type InvoiceUseCase struct {
	Invoices   entity.InvoiceRepository
	Leads      entity.LeadRepository
	Dispatcher Dispatcher
	Validate   *validation.Validator
}

type InvoiceItemInput struct {
	Description string `json:"description" validate:"required,max=500"`
	Quantity    int64  `json:"quantity" validate:"required,gte=1"`
	UnitPrice   int64  `json:"unit_price" validate:"gte=0"`
}

type InvoiceInput struct {
	Number        string             `json:"number" validate:"required,max=64"`
	CustomerName  string             `json:"customer_name" validate:"required,max=200"`
	CustomerEmail string             `json:"customer_email" validate:"required,email"`
	Currency      string             `json:"currency" validate:"omitempty,len=3"`
	LeadID        *string            `json:"lead_id"`
	DueAt         *string            `json:"due_at"`
	Items         []InvoiceItemInput `json:"items" validate:"required,min=1,dive"`
}

// Create writes the invoice and its line items inside one transaction.
func (uc *InvoiceUseCase) Create(ctx context.Context, caller Identity, input InvoiceInput) (*entity.Invoice, error) {
	if err := uc.Validate.Struct(input); err != nil {
		return nil, validationErr(validation.Describe(err))
	}
	if input.LeadID != nil {
		if _, err := uc.Leads.FindByID(ctx, *input.LeadID); err != nil {
			if errors.Is(err, entity.ErrNotFound) {
				return nil, notFoundErr("Lead not found")
			}
			return nil, err
		}
	}

	inv := entity.NewInvoice(input.Number, input.CustomerName, input.CustomerEmail, input.Currency, caller.UserID)
	inv.LeadID = input.LeadID
	if input.DueAt != nil {
		due, err := time.Parse(time.RFC3339, *input.DueAt)
		if err != nil {
			return nil, validationErr("due_at must be an RFC3339 timestamp")
		}
		inv.DueAt = &due
	}
	inv.Items = buildItems(inv.ID, input.Items)
	inv.Recalculate()

	if err := uc.Invoices.CreateWithItems(ctx, inv); err != nil {
		if errors.Is(err, entity.ErrDuplicate) {
			return nil, conflictErr("Invoice number already in use")
		}
		return nil, err
	}

	if err := uc.Dispatcher.DispatchAudit(ctx, caller.UserID, "create", "invoice", inv.ID, inv.Number); err != nil {
		log.Printf("[INVOICE] audit dispatch failed: %v", err)
	}
	return inv, nil
}

// Update replaces the invoice head and its full item set atomically.
func (uc *InvoiceUseCase) Update(ctx context.Context, caller Identity, id string, input InvoiceInput) (*entity.Invoice, error) {
	if err := uc.Validate.Struct(input); err != nil {
		return nil, validationErr(validation.Describe(err))
	}

	inv, err := uc.get(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	inv.Number = input.Number
	inv.CustomerName = input.CustomerName
	inv.CustomerEmail = input.CustomerEmail
	if input.Currency != "" {
		inv.Currency = input.Currency
	}
	inv.LeadID = input.LeadID
	if input.DueAt != nil {
		due, err := time.Parse(time.RFC3339, *input.DueAt)
		if err != nil {
			return nil, validationErr("due_at must be an RFC3339 timestamp")
		}
		inv.DueAt = &due
	}
	inv.Items = buildItems(inv.ID, input.Items)
	inv.Recalculate()
	inv.UpdatedAt = time.Now()

	if err := uc.Invoices.UpdateWithItems(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (uc *InvoiceUseCase) Get(ctx context.Context, caller Identity, id string) (*entity.Invoice, error) {
	return uc.get(ctx, caller, id)
}

func (uc *InvoiceUseCase) List(ctx context.Context, caller Identity, limit, offset int) ([]entity.Invoice, error) {
	ownerID := ""
	if caller.Role.SeesOnlyOwnLeads() {
		ownerID = caller.UserID
	}
	return uc.Invoices.List(ctx, ownerID, limit, offset)
}

func (uc *InvoiceUseCase) SetStatus(ctx context.Context, caller Identity, id string, status entity.InvoiceStatus) error {
	switch status {
	case entity.InvoiceDraft, entity.InvoiceSent, entity.InvoicePaid, entity.InvoiceVoid:
	default:
		return validationErr("Unknown invoice status: " + string(status))
	}
	if _, err := uc.get(ctx, caller, id); err != nil {
		return err
	}
	affected, err := uc.Invoices.UpdateStatus(ctx, id, status)
	if err != nil {
		return err
	}
	if affected == 0 {
		return notFoundErr("Invoice not found")
	}
	return nil
}

func (uc *InvoiceUseCase) get(ctx context.Context, caller Identity, id string) (*entity.Invoice, error) {
	inv, err := uc.Invoices.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, notFoundErr("Invoice not found")
		}
		return nil, err
	}
	if caller.Role.SeesOnlyOwnLeads() && inv.OwnerID != caller.UserID {
		return nil, notFoundErr("Invoice not found")
	}
	return inv, nil
}

func buildItems(invoiceID string, items []InvoiceItemInput) []entity.InvoiceItem {
	out := make([]entity.InvoiceItem, 0, len(items))
	for _, it := range items {
		out = append(out, entity.InvoiceItem{
			InvoiceID:   invoiceID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}
	return out
}
