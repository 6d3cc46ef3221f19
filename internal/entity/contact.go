package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Contact struct {
	ID        string     `json:"id"`
	FullName  string     `json:"full_name"`
	Email     string     `json:"email,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	Position  string     `json:"position,omitempty"`
	CompanyID *string    `json:"company_id,omitempty"`
	OwnerID   string     `json:"owner_id"`
	DeletedAt *time.Time `json:"-"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func NewContact(fullName, ownerID string) *Contact {
	now := time.Now()
	return &Contact{
		ID:        uuid.New().String(),
		FullName:  fullName,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

type ContactRepository interface {
	Create(ctx context.Context, c *Contact) error
	FindByID(ctx context.Context, id string) (*Contact, error)
	Update(ctx context.Context, c *Contact) error
	SoftDelete(ctx context.Context, id string) error
	List(ctx context.Context, search string, limit, offset int) ([]Contact, error)
}

type Company struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Website   string     `json:"website,omitempty"`
	Industry  string     `json:"industry,omitempty"`
	Address   string     `json:"address,omitempty"`
	OwnerID   string     `json:"owner_id"`
	DeletedAt *time.Time `json:"-"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func NewCompany(name, ownerID string) *Company {
	now := time.Now()
	return &Company{
		ID:        uuid.New().String(),
		Name:      name,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

type CompanyRepository interface {
	Create(ctx context.Context, c *Company) error
	FindByID(ctx context.Context, id string) (*Company, error)
	Update(ctx context.Context, c *Company) error
	SoftDelete(ctx context.Context, id string) error
	List(ctx context.Context, search string, limit, offset int) ([]Company, error)
}
