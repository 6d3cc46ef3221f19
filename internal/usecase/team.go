package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/salespipe/crm-backend/internal/auth"
	"github.com/salespipe/crm-backend/internal/entity"
	"github.com/salespipe/crm-backend/internal/validation"
)

type TeamUseCase struct {
	Users      entity.UserRepository
	Dispatcher Dispatcher
	Validate   *validation.Validator
}

func (uc *TeamUseCase) List(ctx context.Context) ([]entity.User, error) {
	return uc.Users.List(ctx)
}

type InviteInput struct {
	FullName string `json:"fullName" validate:"required,min=3,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Role     string `json:"role" validate:"required"`
}

// Invite creates an ACTIVE account with a generated password and mails
// the credentials best-effort. The account exists whether or not the
// email arrives; an admin can always re-issue credentials.
func (uc *TeamUseCase) Invite(ctx context.Context, actor Identity, input InviteInput) (*entity.User, error) {
	if err := uc.Validate.Struct(input); err != nil {
		return nil, validationErr(validation.Describe(err))
	}
	role, err := entity.ParseRole(input.Role)
	if err != nil {
		return nil, validationErr(err.Error())
	}

	tempPassword := strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
	hash, err := auth.HashPassword(tempPassword)
	if err != nil {
		return nil, err
	}

	user := entity.NewUser(input.FullName, input.Email, hash, role)
	if err := uc.Users.Create(ctx, user); err != nil {
		if errors.Is(err, entity.ErrEmailAlreadyRegistered) {
			return nil, conflictErr(entity.ErrEmailAlreadyRegistered.Error())
		}
		return nil, err
	}

	body := fmt.Sprintf("<p>Hi %s,</p><p>You have been invited to the CRM as %s.</p><p>Temporary password: <b>%s</b></p><p>Please change it after your first login.</p>",
		user.FullName, role, tempPassword)
	if err := uc.Dispatcher.DispatchEmail(ctx, user.Email, "You have been invited", body); err != nil {
		log.Printf("[TEAM] invite email dispatch failed: %v", err)
	}
	if err := uc.Dispatcher.DispatchAudit(ctx, actor.UserID, "invite", "user", user.ID, user.Email); err != nil {
		log.Printf("[TEAM] audit dispatch failed: %v", err)
	}
	return user, nil
}

func (uc *TeamUseCase) ChangeRole(ctx context.Context, actor Identity, userID, roleStr string) error {
	role, err := entity.ParseRole(roleStr)
	if err != nil {
		return validationErr(err.Error())
	}
	if _, err := uc.Users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return notFoundErr("User not found")
		}
		return err
	}
	if err := uc.Users.UpdateRole(ctx, userID, role); err != nil {
		return err
	}
	if err := uc.Dispatcher.DispatchAudit(ctx, actor.UserID, "change_role", "user", userID, string(role)); err != nil {
		log.Printf("[TEAM] audit dispatch failed: %v", err)
	}
	return nil
}

// Deactivate soft-deletes a user by flipping status to INACTIVE. Rows
// are never physically removed; every lead and activity keeps a valid
// owner reference.
func (uc *TeamUseCase) Deactivate(ctx context.Context, actor Identity, userID string) error {
	if actor.UserID == userID {
		return forbiddenErr("You cannot deactivate your own account")
	}
	if _, err := uc.Users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return notFoundErr("User not found")
		}
		return err
	}
	if err := uc.Users.Deactivate(ctx, userID); err != nil {
		return err
	}
	if err := uc.Dispatcher.DispatchAudit(ctx, actor.UserID, "deactivate", "user", userID, ""); err != nil {
		log.Printf("[TEAM] audit dispatch failed: %v", err)
	}
	return nil
}
