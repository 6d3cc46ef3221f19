package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/salespipe/crm-backend/internal/auth"
	"github.com/salespipe/crm-backend/internal/entity"
	"github.com/salespipe/crm-backend/internal/usecase"
	"github.com/salespipe/crm-backend/internal/validation"
)

func newAuthUseCase(users *MockUserRepository, attempts usecase.AttemptStore, dispatcher *MockDispatcher) *usecase.AuthUseCase {
	tokens := new(MockTokenManager)
	tokens.On("Generate", mock.Anything, mock.Anything).Return("token-123", nil)

	return &usecase.AuthUseCase{
		Users:         users,
		Resets:        new(MockPasswordResetRepository),
		Tokens:        tokens,
		Attempts:      attempts,
		Dispatcher:    dispatcher,
		Validate:      validation.New(),
		MaxAttempts:   5,
		LockoutWindow: 15 * time.Minute,
		ResetTTL:      time.Hour,
		ResetBaseURL:  "http://localhost:5173",
	}
}

func activeUser(email, password string) *entity.User {
	hash, _ := auth.HashPassword(password)
	return entity.NewUser("Budi Santoso", email, hash, entity.RoleSales)
}

func TestSignupFirstUserBecomesAdmin(t *testing.T) {
	ctx := context.Background()

	users := new(MockUserRepository)
	users.On("Count", ctx).Return(int64(0), nil)
	users.On("Create", ctx, mock.Anything).Return(nil)

	dispatcher := new(MockDispatcher)
	dispatcher.On("DispatchAudit", ctx, mock.Anything, "signup", "user", mock.Anything, mock.Anything).Return(nil)

	uc := newAuthUseCase(users, newFakeAttemptStore(), dispatcher)

	user, err := uc.Signup(ctx, usecase.SignupInput{
		FullName: "Budi Santoso",
		Email:    "budi@example.com",
		Password: "rahasia-sekali",
	})

	assert.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, user.Role)
	assert.Equal(t, entity.UserActive, user.Status)
}

func TestSignupLaterUsersAreSales(t *testing.T) {
	ctx := context.Background()

	users := new(MockUserRepository)
	users.On("Count", ctx).Return(int64(3), nil)
	users.On("Create", ctx, mock.Anything).Return(nil)

	dispatcher := new(MockDispatcher)
	dispatcher.On("DispatchAudit", ctx, mock.Anything, "signup", "user", mock.Anything, mock.Anything).Return(nil)

	uc := newAuthUseCase(users, newFakeAttemptStore(), dispatcher)

	user, err := uc.Signup(ctx, usecase.SignupInput{
		FullName: "Siti Rahma",
		Email:    "siti@example.com",
		Password: "rahasia-sekali",
	})

	assert.NoError(t, err)
	assert.Equal(t, entity.RoleSales, user.Role)
}

func TestSignupDuplicateEmailConflict(t *testing.T) {
	ctx := context.Background()

	users := new(MockUserRepository)
	users.On("Count", ctx).Return(int64(1), nil)
	users.On("Create", ctx, mock.Anything).Return(entity.ErrEmailAlreadyRegistered)

	uc := newAuthUseCase(users, newFakeAttemptStore(), new(MockDispatcher))

	user, err := uc.Signup(ctx, usecase.SignupInput{
		FullName: "Budi Santoso",
		Email:    "budi@example.com",
		Password: "rahasia-sekali",
	})

	assert.Nil(t, user)
	domainErr, ok := usecase.AsDomainError(err)
	assert.True(t, ok)
	assert.Equal(t, usecase.CodeConflict, domainErr.Code)
	assert.Equal(t, "Email already registered.", domainErr.Message)
}

func TestLoginSuccessResetsAttempts(t *testing.T) {
	ctx := context.Background()
	user := activeUser("budi@example.com", "rahasia-sekali")

	users := new(MockUserRepository)
	users.On("FindByEmail", ctx, "budi@example.com").Return(user, nil)

	attempts := newFakeAttemptStore()
	attempts.counts["login:10.0.0.1"] = 3

	uc := newAuthUseCase(users, attempts, new(MockDispatcher))

	out, err := uc.Login(ctx, usecase.LoginInput{
		Email:    "budi@example.com",
		Password: "rahasia-sekali",
		ClientIP: "10.0.0.1",
	})

	assert.NoError(t, err)
	assert.Equal(t, "token-123", out.Token)
	assert.Equal(t, user.ID, out.User.ID)

	count, _ := attempts.Count(ctx, "login:10.0.0.1")
	assert.Equal(t, int64(0), count)
}

func TestLoginWrongPassword(t *testing.T) {
	ctx := context.Background()
	user := activeUser("budi@example.com", "rahasia-sekali")

	users := new(MockUserRepository)
	users.On("FindByEmail", ctx, "budi@example.com").Return(user, nil)

	attempts := newFakeAttemptStore()
	uc := newAuthUseCase(users, attempts, new(MockDispatcher))

	out, err := uc.Login(ctx, usecase.LoginInput{
		Email:    "budi@example.com",
		Password: "salah-total",
		ClientIP: "10.0.0.1",
	})

	assert.Nil(t, out)
	domainErr, ok := usecase.AsDomainError(err)
	assert.True(t, ok)
	assert.Equal(t, usecase.CodeUnauthenticated, domainErr.Code)
	assert.Equal(t, "Invalid email or password", domainErr.Message)

	count, _ := attempts.Count(ctx, "login:10.0.0.1")
	assert.Equal(t, int64(1), count)
}

// After five failures the sixth attempt is refused before credential
// verification, so even the correct password is locked out.
func TestLoginLockoutAfterFiveFailures(t *testing.T) {
	ctx := context.Background()
	user := activeUser("budi@example.com", "rahasia-sekali")

	users := new(MockUserRepository)
	users.On("FindByEmail", ctx, "budi@example.com").Return(user, nil)

	attempts := newFakeAttemptStore()
	uc := newAuthUseCase(users, attempts, new(MockDispatcher))

	for i := 0; i < 5; i++ {
		_, err := uc.Login(ctx, usecase.LoginInput{
			Email:    "budi@example.com",
			Password: "salah-total",
			ClientIP: "10.0.0.1",
		})
		assert.Error(t, err)
	}

	out, err := uc.Login(ctx, usecase.LoginInput{
		Email:    "budi@example.com",
		Password: "rahasia-sekali",
		ClientIP: "10.0.0.1",
	})

	assert.Nil(t, out)
	domainErr, ok := usecase.AsDomainError(err)
	assert.True(t, ok)
	assert.Equal(t, usecase.CodeRateLimited, domainErr.Code)
	assert.Contains(t, domainErr.Message, "Terlalu banyak percobaan")
}

// The lockout is per IP: a different client is not affected.
func TestLoginLockoutScopedToIP(t *testing.T) {
	ctx := context.Background()
	user := activeUser("budi@example.com", "rahasia-sekali")

	users := new(MockUserRepository)
	users.On("FindByEmail", ctx, "budi@example.com").Return(user, nil)

	attempts := newFakeAttemptStore()
	attempts.counts["login:10.0.0.1"] = 5

	uc := newAuthUseCase(users, attempts, new(MockDispatcher))

	out, err := uc.Login(ctx, usecase.LoginInput{
		Email:    "budi@example.com",
		Password: "rahasia-sekali",
		ClientIP: "10.0.0.2",
	})

	assert.NoError(t, err)
	assert.NotNil(t, out)
}

func TestLoginInactiveAccountForbidden(t *testing.T) {
	ctx := context.Background()
	user := activeUser("budi@example.com", "rahasia-sekali")
	user.Status = entity.UserInactive

	users := new(MockUserRepository)
	users.On("FindByEmail", ctx, "budi@example.com").Return(user, nil)

	uc := newAuthUseCase(users, newFakeAttemptStore(), new(MockDispatcher))

	out, err := uc.Login(ctx, usecase.LoginInput{
		Email:    "budi@example.com",
		Password: "rahasia-sekali",
		ClientIP: "10.0.0.1",
	})

	assert.Nil(t, out)
	domainErr, ok := usecase.AsDomainError(err)
	assert.True(t, ok)
	assert.Equal(t, usecase.CodeForbidden, domainErr.Code)
	assert.Equal(t, "Account is inactive", domainErr.Message)
}

func TestLoginUnknownEmailCountsAsFailure(t *testing.T) {
	ctx := context.Background()

	users := new(MockUserRepository)
	users.On("FindByEmail", ctx, "hantu@example.com").Return(nil, entity.ErrNotFound)

	attempts := newFakeAttemptStore()
	uc := newAuthUseCase(users, attempts, new(MockDispatcher))

	_, err := uc.Login(ctx, usecase.LoginInput{
		Email:    "hantu@example.com",
		Password: "whatever1",
		ClientIP: "10.0.0.1",
	})

	domainErr, ok := usecase.AsDomainError(err)
	assert.True(t, ok)
	assert.Equal(t, usecase.CodeUnauthenticated, domainErr.Code)

	count, _ := attempts.Count(ctx, "login:10.0.0.1")
	assert.Equal(t, int64(1), count)
}

func TestResetPasswordExpiredToken(t *testing.T) {
	ctx := context.Background()

	resets := new(MockPasswordResetRepository)
	resets.On("FindByToken", ctx, "tok-1").Return(&entity.PasswordReset{
		Token:     "tok-1",
		UserID:    "user-1",
		ExpiresAt: time.Now().Add(-time.Minute),
	}, nil)

	uc := newAuthUseCase(new(MockUserRepository), newFakeAttemptStore(), new(MockDispatcher))
	uc.Resets = resets

	err := uc.ResetPassword(ctx, usecase.ResetPasswordInput{
		Token:    "tok-1",
		Password: "baru-banget",
	})

	domainErr, ok := usecase.AsDomainError(err)
	assert.True(t, ok)
	assert.Equal(t, usecase.CodeValidation, domainErr.Code)
}

func TestForgotPasswordUnknownEmailSilent(t *testing.T) {
	ctx := context.Background()

	users := new(MockUserRepository)
	users.On("FindByEmail", ctx, "hantu@example.com").Return(nil, entity.ErrNotFound)

	dispatcher := new(MockDispatcher)
	uc := newAuthUseCase(users, newFakeAttemptStore(), dispatcher)

	err := uc.ForgotPassword(ctx, usecase.ForgotPasswordInput{Email: "hantu@example.com"})

	assert.NoError(t, err)
	dispatcher.AssertNotCalled(t, "DispatchEmail")
}
