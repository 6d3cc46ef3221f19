package usecase

import (
	"context"
	"errors"

	"github.com/salespipe/crm-backend/internal/entity"
	"github.com/salespipe/crm-backend/internal/validation"
)

// LabelUseCase manages the workspace-wide label catalog. Labels are
// shared, not per-user.
type LabelUseCase struct {
	Labels   entity.LabelRepository
	Validate *validation.Validator
}

type LabelInput struct {
	Name  string `json:"name" validate:"required,min=1,max=64"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
}

func (uc *LabelUseCase) Create(ctx context.Context, input LabelInput) (*entity.Label, error) {
	if err := uc.Validate.Struct(input); err != nil {
		return nil, validationErr(validation.Describe(err))
	}
	label := entity.NewLabel(input.Name, input.Color)
	if err := uc.Labels.Create(ctx, label); err != nil {
		if errors.Is(err, entity.ErrDuplicate) {
			return nil, conflictErr("Label name already in use")
		}
		return nil, err
	}
	return label, nil
}

func (uc *LabelUseCase) List(ctx context.Context) ([]entity.Label, error) {
	return uc.Labels.List(ctx)
}

func (uc *LabelUseCase) Delete(ctx context.Context, id string) error {
	affected, err := uc.Labels.Delete(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return notFoundErr("Label not found")
	}
	return nil
}
