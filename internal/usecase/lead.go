package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/salespipe/crm-backend/internal/entity"
	"github.com/salespipe/crm-backend/internal/validation"
)

type LeadUseCase struct {
	Leads      entity.LeadRepository
	Contacts   entity.ContactRepository
	Companies  entity.CompanyRepository
	Dispatcher Dispatcher
	Validate   *validation.Validator
}

type CreateLeadInput struct {
	Title     string   `json:"title" validate:"required,min=2,max=255"`
	Value     int64    `json:"value" validate:"gte=0"`
	Currency  string   `json:"currency" validate:"omitempty,len=3"`
	Stage     string   `json:"stage"`
	Source    string   `json:"source"`
	ContactID *string  `json:"contact_id"`
	CompanyID *string  `json:"company_id"`
	LabelIDs  []string `json:"label_ids"`
}

// Create persists a lead owned by the caller. Dangling contact/company
// references are rejected up front rather than left to a foreign-key
// failure.
func (uc *LeadUseCase) Create(ctx context.Context, caller Identity, input CreateLeadInput) (*entity.Lead, error) {
	if err := uc.Validate.Struct(input); err != nil {
		return nil, validationErr(validation.Describe(err))
	}
	if input.Stage != "" && !entity.ValidStage(entity.Stage(input.Stage)) {
		return nil, validationErr("Unknown stage: " + input.Stage)
	}

	if input.ContactID != nil {
		if _, err := uc.Contacts.FindByID(ctx, *input.ContactID); err != nil {
			if errors.Is(err, entity.ErrNotFound) {
				return nil, notFoundErr("Contact not found")
			}
			return nil, err
		}
	}
	if input.CompanyID != nil {
		if _, err := uc.Companies.FindByID(ctx, *input.CompanyID); err != nil {
			if errors.Is(err, entity.ErrNotFound) {
				return nil, notFoundErr("Company not found")
			}
			return nil, err
		}
	}

	lead := entity.NewLead(input.Title, input.Value, input.Currency, caller.UserID)
	if input.Stage != "" {
		lead.Stage = entity.Stage(input.Stage)
	}
	lead.Source = input.Source
	lead.ContactID = input.ContactID
	lead.CompanyID = input.CompanyID

	if err := uc.Leads.Create(ctx, lead); err != nil {
		return nil, err
	}
	if len(input.LabelIDs) > 0 {
		if err := uc.Leads.SetLabels(ctx, lead.ID, input.LabelIDs); err != nil {
			return nil, err
		}
		lead.LabelIDs = input.LabelIDs
	}

	if err := uc.Dispatcher.DispatchAudit(ctx, caller.UserID, "create", "lead", lead.ID, lead.Title); err != nil {
		log.Printf("[LEAD] audit dispatch failed: %v", err)
	}
	return lead, nil
}

// get loads a lead, hides soft-deleted rows, and enforces ownership for
// roles that only see their own pipeline.
func (uc *LeadUseCase) get(ctx context.Context, caller Identity, id string) (*entity.Lead, error) {
	lead, err := uc.Leads.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, notFoundErr("Lead not found")
		}
		return nil, err
	}
	if lead.DeletedAt != nil {
		return nil, notFoundErr("Lead not found")
	}
	if caller.Role.SeesOnlyOwnLeads() && lead.OwnerID != caller.UserID {
		// Cross-tenant lookups read as absent, not as forbidden.
		return nil, notFoundErr("Lead not found")
	}
	return lead, nil
}

func (uc *LeadUseCase) Get(ctx context.Context, caller Identity, id string) (*entity.Lead, error) {
	return uc.get(ctx, caller, id)
}

func (uc *LeadUseCase) List(ctx context.Context, caller Identity, f entity.LeadFilter) ([]entity.Lead, error) {
	return uc.Leads.List(ctx, ScopeLeadFilter(caller, f))
}

type UpdateLeadInput struct {
	Title     string   `json:"title" validate:"required,min=2,max=255"`
	Value     int64    `json:"value" validate:"gte=0"`
	Currency  string   `json:"currency" validate:"omitempty,len=3"`
	Source    string   `json:"source"`
	ContactID *string  `json:"contact_id"`
	CompanyID *string  `json:"company_id"`
	LabelIDs  []string `json:"label_ids"`
}

func (uc *LeadUseCase) Update(ctx context.Context, caller Identity, id string, input UpdateLeadInput) (*entity.Lead, error) {
	if err := uc.Validate.Struct(input); err != nil {
		return nil, validationErr(validation.Describe(err))
	}
	lead, err := uc.get(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	lead.Title = input.Title
	lead.Value = input.Value
	if input.Currency != "" {
		lead.Currency = input.Currency
	}
	lead.Source = input.Source
	lead.ContactID = input.ContactID
	lead.CompanyID = input.CompanyID
	lead.UpdatedAt = time.Now()

	if err := uc.Leads.Update(ctx, lead); err != nil {
		return nil, err
	}
	if input.LabelIDs != nil {
		if err := uc.Leads.SetLabels(ctx, lead.ID, input.LabelIDs); err != nil {
			return nil, err
		}
		lead.LabelIDs = input.LabelIDs
	}
	return lead, nil
}

// MoveStage moves a lead across the board. Landing on Won or Lost also
// closes the status; this is the only direction in which the two axes
// are coupled.
func (uc *LeadUseCase) MoveStage(ctx context.Context, caller Identity, id string, stage entity.Stage) (*entity.Lead, error) {
	if !entity.ValidStage(stage) {
		return nil, validationErr("Unknown stage: " + string(stage))
	}
	lead, err := uc.get(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	status := lead.Status
	closedAt := lead.ClosedAt
	switch stage {
	case entity.StageWon:
		status = entity.LeadWon
		now := time.Now()
		closedAt = &now
	case entity.StageLost:
		status = entity.LeadLost
		now := time.Now()
		closedAt = &now
	}

	if err := uc.Leads.UpdateStage(ctx, id, stage, status, closedAt); err != nil {
		return nil, err
	}
	lead.Stage = stage
	lead.Status = status
	lead.ClosedAt = closedAt
	return lead, nil
}

func (uc *LeadUseCase) SetStatus(ctx context.Context, caller Identity, id string, status entity.LeadStatus) (*entity.Lead, error) {
	switch status {
	case entity.LeadActive, entity.LeadWon, entity.LeadLost:
	default:
		return nil, validationErr("Unknown status: " + string(status))
	}
	lead, err := uc.get(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	closedAt := lead.ClosedAt
	if status == entity.LeadActive {
		closedAt = nil
	} else if closedAt == nil {
		now := time.Now()
		closedAt = &now
	}

	if err := uc.Leads.UpdateStatus(ctx, id, status, closedAt); err != nil {
		return nil, err
	}
	lead.Status = status
	lead.ClosedAt = closedAt
	return lead, nil
}

func (uc *LeadUseCase) Delete(ctx context.Context, caller Identity, id string) error {
	lead, err := uc.get(ctx, caller, id)
	if err != nil {
		return err
	}
	if err := uc.Leads.SoftDelete(ctx, lead.ID); err != nil {
		return err
	}
	if err := uc.Dispatcher.DispatchAudit(ctx, caller.UserID, "delete", "lead", lead.ID, lead.Title); err != nil {
		log.Printf("[LEAD] audit dispatch failed: %v", err)
	}
	return nil
}
