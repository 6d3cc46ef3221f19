package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/salespipe/crm-backend/internal/entity"
	"github.com/salespipe/crm-backend/internal/validation"
)

// DirectoryUseCase covers the shared address book: contacts and
// companies. Both are workspace-visible to every role; only leads
// carry per-owner scoping.
type DirectoryUseCase struct {
	Contacts  entity.ContactRepository
	Companies entity.CompanyRepository
	Validate  *validation.Validator
}

type ContactInput struct {
	FullName  string  `json:"full_name" validate:"required,min=2,max=200"`
	Email     string  `json:"email" validate:"omitempty,email"`
	Phone     string  `json:"phone" validate:"max=32"`
	Position  string  `json:"position" validate:"max=100"`
	CompanyID *string `json:"company_id"`
}

func (uc *DirectoryUseCase) CreateContact(ctx context.Context, caller Identity, input ContactInput) (*entity.Contact, error) {
	if err := uc.Validate.Struct(input); err != nil {
		return nil, validationErr(validation.Describe(err))
	}
	if input.CompanyID != nil {
		if _, err := uc.GetCompany(ctx, *input.CompanyID); err != nil {
			return nil, err
		}
	}

	contact := entity.NewContact(input.FullName, caller.UserID)
	contact.Email = input.Email
	contact.Phone = input.Phone
	contact.Position = input.Position
	contact.CompanyID = input.CompanyID

	if err := uc.Contacts.Create(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

func (uc *DirectoryUseCase) GetContact(ctx context.Context, id string) (*entity.Contact, error) {
	contact, err := uc.Contacts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, notFoundErr("Contact not found")
		}
		return nil, err
	}
	if contact.DeletedAt != nil {
		return nil, notFoundErr("Contact not found")
	}
	return contact, nil
}

func (uc *DirectoryUseCase) UpdateContact(ctx context.Context, id string, input ContactInput) (*entity.Contact, error) {
	if err := uc.Validate.Struct(input); err != nil {
		return nil, validationErr(validation.Describe(err))
	}
	contact, err := uc.GetContact(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.CompanyID != nil {
		if _, err := uc.GetCompany(ctx, *input.CompanyID); err != nil {
			return nil, err
		}
	}

	contact.FullName = input.FullName
	contact.Email = input.Email
	contact.Phone = input.Phone
	contact.Position = input.Position
	contact.CompanyID = input.CompanyID
	contact.UpdatedAt = time.Now()

	if err := uc.Contacts.Update(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

func (uc *DirectoryUseCase) DeleteContact(ctx context.Context, id string) error {
	if _, err := uc.GetContact(ctx, id); err != nil {
		return err
	}
	return uc.Contacts.SoftDelete(ctx, id)
}

func (uc *DirectoryUseCase) ListContacts(ctx context.Context, search string, limit, offset int) ([]entity.Contact, error) {
	return uc.Contacts.List(ctx, search, limit, offset)
}

type CompanyInput struct {
	Name     string `json:"name" validate:"required,min=2,max=200"`
	Website  string `json:"website" validate:"max=255"`
	Industry string `json:"industry" validate:"max=100"`
	Address  string `json:"address" validate:"max=500"`
}

func (uc *DirectoryUseCase) CreateCompany(ctx context.Context, caller Identity, input CompanyInput) (*entity.Company, error) {
	if err := uc.Validate.Struct(input); err != nil {
		return nil, validationErr(validation.Describe(err))
	}

	company := entity.NewCompany(input.Name, caller.UserID)
	company.Website = input.Website
	company.Industry = input.Industry
	company.Address = input.Address

	if err := uc.Companies.Create(ctx, company); err != nil {
		return nil, err
	}
	return company, nil
}

func (uc *DirectoryUseCase) GetCompany(ctx context.Context, id string) (*entity.Company, error) {
	company, err := uc.Companies.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, notFoundErr("Company not found")
		}
		return nil, err
	}
	if company.DeletedAt != nil {
		return nil, notFoundErr("Company not found")
	}
	return company, nil
}

func (uc *DirectoryUseCase) UpdateCompany(ctx context.Context, id string, input CompanyInput) (*entity.Company, error) {
	if err := uc.Validate.Struct(input); err != nil {
		return nil, validationErr(validation.Describe(err))
	}
	company, err := uc.GetCompany(ctx, id)
	if err != nil {
		return nil, err
	}

	company.Name = input.Name
	company.Website = input.Website
	company.Industry = input.Industry
	company.Address = input.Address
	company.UpdatedAt = time.Now()

	if err := uc.Companies.Update(ctx, company); err != nil {
		return nil, err
	}
	return company, nil
}

func (uc *DirectoryUseCase) DeleteCompany(ctx context.Context, id string) error {
	if _, err := uc.GetCompany(ctx, id); err != nil {
		return err
	}
	return uc.Companies.SoftDelete(ctx, id)
}

func (uc *DirectoryUseCase) ListCompanies(ctx context.Context, search string, limit, offset int) ([]entity.Company, error) {
	return uc.Companies.List(ctx, search, limit, offset)
}
