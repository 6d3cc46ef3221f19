package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/salespipe/crm-backend/internal/auth"
	"github.com/salespipe/crm-backend/internal/entity"
	"github.com/salespipe/crm-backend/internal/validation"
)

const lockoutMessage = "Terlalu banyak percobaan login. Silakan coba beberapa saat lagi."

type AuthUseCase struct {
	Users         entity.UserRepository
	Resets        entity.PasswordResetRepository
	Tokens        TokenManager
	Attempts      AttemptStore
	Dispatcher    Dispatcher
	Validate      *validation.Validator
	MaxAttempts   int64
	LockoutWindow time.Duration
	ResetTTL      time.Duration
	ResetBaseURL  string
}

type SignupInput struct {
	FullName string `json:"fullName" validate:"required,min=3,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	ClientIP string `json:"-"`
}

type LoginOutput struct {
	Token string       `json:"token"`
	User  *entity.User `json:"user"`
}

// Signup registers a user. The very first account becomes ADMIN so a
// fresh install is immediately manageable; everyone after is SALES
// until an admin promotes them.
func (uc *AuthUseCase) Signup(ctx context.Context, input SignupInput) (*entity.User, error) {
	if err := uc.Validate.Struct(input); err != nil {
		return nil, validationErr(validation.Describe(err))
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	role := entity.RoleSales
	count, err := uc.Users.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		role = entity.RoleAdmin
	}

	user := entity.NewUser(input.FullName, input.Email, hash, role)
	if err := uc.Users.Create(ctx, user); err != nil {
		if errors.Is(err, entity.ErrEmailAlreadyRegistered) {
			return nil, conflictErr(entity.ErrEmailAlreadyRegistered.Error())
		}
		return nil, err
	}

	if err := uc.Dispatcher.DispatchAudit(ctx, user.ID, "signup", "user", user.ID, user.Email); err != nil {
		log.Printf("[AUTH] audit dispatch failed: %v", err)
	}

	return user, nil
}

// Login authenticates and issues a session token. The lockout check
// runs before credential verification: a locked IP is refused even with
// the correct password, until the window expires.
func (uc *AuthUseCase) Login(ctx context.Context, input LoginInput) (*LoginOutput, error) {
	if err := uc.Validate.Struct(input); err != nil {
		return nil, validationErr(validation.Describe(err))
	}

	key := "login:" + input.ClientIP
	count, err := uc.Attempts.Count(ctx, key)
	if err != nil {
		// The counter is a best-effort mitigation, not a correctness
		// mechanism. A broken store must not lock everyone out.
		log.Printf("[AUTH] attempt store unavailable: %v", err)
		count = 0
	}
	if count >= uc.MaxAttempts {
		return nil, rateLimitedErr(lockoutMessage)
	}

	user, err := uc.Users.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			uc.recordFailure(ctx, key)
			return nil, unauthenticatedErr("Invalid email or password")
		}
		return nil, err
	}

	if err := auth.ComparePassword(user.PasswordHash, input.Password); err != nil {
		uc.recordFailure(ctx, key)
		return nil, unauthenticatedErr("Invalid email or password")
	}

	if user.Status != entity.UserActive {
		return nil, forbiddenErr("Account is inactive")
	}

	if err := uc.Attempts.Reset(ctx, key); err != nil {
		log.Printf("[AUTH] attempt reset failed: %v", err)
	}

	token, err := uc.Tokens.Generate(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	return &LoginOutput{Token: token, User: user}, nil
}

func (uc *AuthUseCase) recordFailure(ctx context.Context, key string) {
	if _, err := uc.Attempts.Increment(ctx, key, uc.LockoutWindow); err != nil {
		log.Printf("[AUTH] attempt increment failed: %v", err)
	}
}

type UpdateProfileInput struct {
	FullName string `json:"fullName" validate:"required,min=3,max=200"`
}

func (uc *AuthUseCase) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	user, err := uc.Users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, notFoundErr("User not found")
		}
		return nil, err
	}
	return user, nil
}

func (uc *AuthUseCase) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*entity.User, error) {
	if err := uc.Validate.Struct(input); err != nil {
		return nil, validationErr(validation.Describe(err))
	}
	if err := uc.Users.UpdateProfile(ctx, userID, input.FullName); err != nil {
		return nil, err
	}
	return uc.GetProfile(ctx, userID)
}

type ForgotPasswordInput struct {
	Email string `json:"email" validate:"required,email"`
}

// ForgotPassword always reports success so the endpoint cannot be used
// to probe which emails exist.
func (uc *AuthUseCase) ForgotPassword(ctx context.Context, input ForgotPasswordInput) error {
	if err := uc.Validate.Struct(input); err != nil {
		return validationErr(validation.Describe(err))
	}

	user, err := uc.Users.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil
		}
		return err
	}

	reset := &entity.PasswordReset{
		Token:     uuid.New().String(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(uc.ResetTTL),
		CreatedAt: time.Now(),
	}
	if err := uc.Resets.Create(ctx, reset); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", uc.ResetBaseURL, reset.Token)
	body := fmt.Sprintf("<p>Hi %s,</p><p>Reset your password here: <a href=%q>%s</a></p><p>The link expires in %s.</p>",
		user.FullName, link, link, uc.ResetTTL)
	if err := uc.Dispatcher.DispatchEmail(ctx, user.Email, "Password reset", body); err != nil {
		log.Printf("[AUTH] reset email dispatch failed: %v", err)
	}
	return nil
}

type ResetPasswordInput struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

func (uc *AuthUseCase) ResetPassword(ctx context.Context, input ResetPasswordInput) error {
	if err := uc.Validate.Struct(input); err != nil {
		return validationErr(validation.Describe(err))
	}

	reset, err := uc.Resets.FindByToken(ctx, input.Token)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return validationErr("Invalid or expired reset token")
		}
		return err
	}
	if reset.UsedAt != nil || time.Now().After(reset.ExpiresAt) {
		return validationErr("Invalid or expired reset token")
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return err
	}
	if err := uc.Users.UpdatePassword(ctx, reset.UserID, hash); err != nil {
		return err
	}
	if err := uc.Resets.MarkUsed(ctx, reset.Token); err != nil {
		log.Printf("[AUTH] marking reset token used failed: %v", err)
	}
	return nil
}
