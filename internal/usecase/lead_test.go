package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/salespipe/crm-backend/internal/entity"
	"github.com/salespipe/crm-backend/internal/usecase"
	"github.com/salespipe/crm-backend/internal/validation"
)

func newLeadUseCase(leads *MockLeadRepository, dispatcher *MockDispatcher) *usecase.LeadUseCase {
	return &usecase.LeadUseCase{
		Leads:      leads,
		Contacts:   new(MockContactRepository),
		Companies:  new(MockCompanyRepository),
		Dispatcher: dispatcher,
		Validate:   validation.New(),
	}
}

func TestCreateLeadDefaults(t *testing.T) {
	ctx := context.Background()
	caller := usecase.Identity{UserID: "sales-1", Role: entity.RoleSales}

	repo := new(MockLeadRepository)
	repo.On("Create", ctx, mock.Anything).Return(nil)

	dispatcher := new(MockDispatcher)
	dispatcher.On("DispatchAudit", ctx, "sales-1", "create", "lead", mock.Anything, mock.Anything).Return(nil)

	uc := newLeadUseCase(repo, dispatcher)
	lead, err := uc.Create(ctx, caller, usecase.CreateLeadInput{
		Title: "PT Maju API integration",
		Value: 5_000_000_00,
	})

	assert.NoError(t, err)
	assert.Equal(t, entity.StageLeadIn, lead.Stage)
	assert.Equal(t, entity.LeadActive, lead.Status)
	assert.Equal(t, "IDR", lead.Currency)
	assert.Equal(t, "sales-1", lead.OwnerID)
}

func TestCreateLeadDanglingContact(t *testing.T) {
	ctx := context.Background()
	caller := usecase.Identity{UserID: "sales-1", Role: entity.RoleSales}

	contactID := "ghost-contact"
	repo := new(MockLeadRepository)

	contacts := new(MockContactRepository)
	contacts.On("FindByID", ctx, contactID).Return(nil, entity.ErrNotFound)

	uc := newLeadUseCase(repo, new(MockDispatcher))
	uc.Contacts = contacts

	lead, err := uc.Create(ctx, caller, usecase.CreateLeadInput{
		Title:     "PT Maju API integration",
		Value:     100_00,
		ContactID: &contactID,
	})

	assert.Nil(t, lead)
	domainErr, ok := usecase.AsDomainError(err)
	assert.True(t, ok)
	assert.Equal(t, usecase.CodeNotFound, domainErr.Code)
	repo.AssertNotCalled(t, "Create")
}

func TestCreateLeadUnknownStage(t *testing.T) {
	ctx := context.Background()
	caller := usecase.Identity{UserID: "sales-1", Role: entity.RoleSales}

	uc := newLeadUseCase(new(MockLeadRepository), new(MockDispatcher))
	lead, err := uc.Create(ctx, caller, usecase.CreateLeadInput{
		Title: "PT Maju API integration",
		Stage: "Limbo",
	})

	assert.Nil(t, lead)
	domainErr, ok := usecase.AsDomainError(err)
	assert.True(t, ok)
	assert.Equal(t, usecase.CodeValidation, domainErr.Code)
}

// Soft-deleted and cross-owner leads both read as absent for SALES.
func TestGetLeadHiddenRows(t *testing.T) {
	ctx := context.Background()
	sales := usecase.Identity{UserID: "sales-1", Role: entity.RoleSales}

	deleted := entity.NewLead("Gone", 100_00, "IDR", "sales-1")
	now := time.Now()
	deleted.DeletedAt = &now

	foreign := entity.NewLead("Not yours", 100_00, "IDR", "sales-2")

	repo := new(MockLeadRepository)
	repo.On("FindByID", ctx, deleted.ID).Return(deleted, nil)
	repo.On("FindByID", ctx, foreign.ID).Return(foreign, nil)

	uc := newLeadUseCase(repo, new(MockDispatcher))

	for _, id := range []string{deleted.ID, foreign.ID} {
		lead, err := uc.Get(ctx, sales, id)
		assert.Nil(t, lead)
		domainErr, ok := usecase.AsDomainError(err)
		assert.True(t, ok)
		assert.Equal(t, usecase.CodeNotFound, domainErr.Code)
	}

	// An admin reads the foreign lead fine.
	admin := usecase.Identity{UserID: "admin-1", Role: entity.RoleAdmin}
	lead, err := uc.Get(ctx, admin, foreign.ID)
	assert.NoError(t, err)
	assert.Equal(t, foreign.ID, lead.ID)
}

func TestMoveStageToWonClosesStatus(t *testing.T) {
	ctx := context.Background()
	caller := usecase.Identity{UserID: "sales-1", Role: entity.RoleSales}

	lead := entity.NewLead("PT Maju API integration", 5_000_000_00, "IDR", "sales-1")

	repo := new(MockLeadRepository)
	repo.On("FindByID", ctx, lead.ID).Return(lead, nil)
	repo.On("UpdateStage", ctx, lead.ID, entity.StageWon, entity.LeadWon, mock.Anything).Return(nil)

	uc := newLeadUseCase(repo, new(MockDispatcher))
	updated, err := uc.MoveStage(ctx, caller, lead.ID, entity.StageWon)

	assert.NoError(t, err)
	assert.Equal(t, entity.StageWon, updated.Stage)
	assert.Equal(t, entity.LeadWon, updated.Status)
	assert.NotNil(t, updated.ClosedAt)
}

// Moving between open stages leaves status alone.
func TestMoveStageKeepsStatusForOpenStages(t *testing.T) {
	ctx := context.Background()
	caller := usecase.Identity{UserID: "sales-1", Role: entity.RoleSales}

	lead := entity.NewLead("PT Maju API integration", 5_000_000_00, "IDR", "sales-1")

	repo := new(MockLeadRepository)
	repo.On("FindByID", ctx, lead.ID).Return(lead, nil)
	repo.On("UpdateStage", ctx, lead.ID, entity.StageNegotiation, entity.LeadActive, (*time.Time)(nil)).Return(nil)

	uc := newLeadUseCase(repo, new(MockDispatcher))
	updated, err := uc.MoveStage(ctx, caller, lead.ID, entity.StageNegotiation)

	assert.NoError(t, err)
	assert.Equal(t, entity.LeadActive, updated.Status)
	assert.Nil(t, updated.ClosedAt)
}

// Reopening a closed lead clears closed_at but does not move the stage.
func TestSetStatusActiveReopens(t *testing.T) {
	ctx := context.Background()
	caller := usecase.Identity{UserID: "sales-1", Role: entity.RoleSales}

	lead := entity.NewLead("PT Maju API integration", 5_000_000_00, "IDR", "sales-1")
	lead.Stage = entity.StageWon
	lead.Status = entity.LeadWon
	closed := time.Now()
	lead.ClosedAt = &closed

	repo := new(MockLeadRepository)
	repo.On("FindByID", ctx, lead.ID).Return(lead, nil)
	repo.On("UpdateStatus", ctx, lead.ID, entity.LeadActive, (*time.Time)(nil)).Return(nil)

	uc := newLeadUseCase(repo, new(MockDispatcher))
	updated, err := uc.SetStatus(ctx, caller, lead.ID, entity.LeadActive)

	assert.NoError(t, err)
	assert.Equal(t, entity.LeadActive, updated.Status)
	assert.Nil(t, updated.ClosedAt)
	assert.Equal(t, entity.StageWon, updated.Stage)
}

func TestDeleteLeadIsSoft(t *testing.T) {
	ctx := context.Background()
	caller := usecase.Identity{UserID: "sales-1", Role: entity.RoleSales}

	lead := entity.NewLead("PT Maju API integration", 5_000_000_00, "IDR", "sales-1")

	repo := new(MockLeadRepository)
	repo.On("FindByID", ctx, lead.ID).Return(lead, nil)
	repo.On("SoftDelete", ctx, lead.ID).Return(nil)

	dispatcher := new(MockDispatcher)
	dispatcher.On("DispatchAudit", ctx, "sales-1", "delete", "lead", lead.ID, lead.Title).Return(nil)

	uc := newLeadUseCase(repo, dispatcher)
	assert.NoError(t, uc.Delete(ctx, caller, lead.ID))
	repo.AssertCalled(t, "SoftDelete", ctx, lead.ID)
	dispatcher.AssertCalled(t, "DispatchAudit", ctx, "sales-1", "delete", "lead", lead.ID, lead.Title)
}
