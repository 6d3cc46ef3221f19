package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/salespipe/crm-backend/internal/auth"
	"github.com/salespipe/crm-backend/internal/entity"
	"github.com/salespipe/crm-backend/internal/infra/cache"
	"github.com/salespipe/crm-backend/internal/infra/http/handlers"
	"github.com/salespipe/crm-backend/internal/usecase"
	"github.com/salespipe/crm-backend/internal/validation"
)

// stubUserRepo holds a single account; enough for the login contract.
type stubUserRepo struct {
	user *entity.User
}

func (s *stubUserRepo) Create(ctx context.Context, u *entity.User) error {
	if s.user != nil && s.user.Email == u.Email {
		return entity.ErrEmailAlreadyRegistered
	}
	s.user = u
	return nil
}

func (s *stubUserRepo) FindByID(ctx context.Context, id string) (*entity.User, error) {
	if s.user != nil && s.user.ID == id {
		return s.user, nil
	}
	return nil, entity.ErrNotFound
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if s.user != nil && s.user.Email == email {
		return s.user, nil
	}
	return nil, entity.ErrNotFound
}

func (s *stubUserRepo) Count(ctx context.Context) (int64, error) {
	if s.user == nil {
		return 0, nil
	}
	return 1, nil
}

func (s *stubUserRepo) List(ctx context.Context) ([]entity.User, error) { return nil, nil }

func (s *stubUserRepo) UpdateProfile(ctx context.Context, id, name string) error { return nil }

func (s *stubUserRepo) UpdateRole(ctx context.Context, id string, r entity.Role) error { return nil }

func (s *stubUserRepo) UpdatePassword(ctx context.Context, id, hash string) error { return nil }

func (s *stubUserRepo) Deactivate(ctx context.Context, id string) error { return nil }

type stubResetRepo struct{}

func (stubResetRepo) Create(ctx context.Context, pr *entity.PasswordReset) error { return nil }
func (stubResetRepo) FindByToken(ctx context.Context, token string) (*entity.PasswordReset, error) {
	return nil, entity.ErrNotFound
}
func (stubResetRepo) MarkUsed(ctx context.Context, token string) error { return nil }

type stubDispatcher struct{}

func (stubDispatcher) DispatchNotification(ctx context.Context, userID, message string, leadID *string) error {
	return nil
}
func (stubDispatcher) DispatchAudit(ctx context.Context, actorID, action, entityName, entityID, detail string) error {
	return nil
}
func (stubDispatcher) DispatchEmail(ctx context.Context, to, subject, body string) error {
	return nil
}

func newTestAuthHandler(users *stubUserRepo) *handlers.AuthHandler {
	uc := &usecase.AuthUseCase{
		Users:  users,
		Resets: stubResetRepo{},
		Tokens: &auth.Manager{
			Secret: []byte("test-secret"),
			TTL:    time.Hour,
			Issuer: "crm-backend",
		},
		Attempts:      cache.NewMemoryCounterStore(100),
		Dispatcher:    stubDispatcher{},
		Validate:      validation.New(),
		MaxAttempts:   5,
		LockoutWindow: 15 * time.Minute,
		ResetTTL:      time.Hour,
		ResetBaseURL:  "http://localhost:5173",
	}
	return handlers.NewAuthHandler(uc, "token", false, time.Hour)
}

func postLogin(t *testing.T, h *handlers.AuthHandler, email, password, ip string) *httptest.ResponseRecorder {
	t.Helper()
	body := `{"email":"` + email + `","password":"` + password + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", ip)
	rec := httptest.NewRecorder()
	h.Login(rec, req)
	return rec
}

func TestLoginHandlerSuccessSetsCookie(t *testing.T) {
	hash, _ := auth.HashPassword("rahasia-sekali")
	users := &stubUserRepo{user: entity.NewUser("Budi Santoso", "budi@example.com", hash, entity.RoleSales)}
	h := newTestAuthHandler(users)

	rec := postLogin(t, h, "budi@example.com", "rahasia-sekali", "10.0.0.1")

	assert.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	var tokenCookie *http.Cookie
	for _, c := range cookies {
		if c.Name == "token" {
			tokenCookie = c
		}
	}
	assert.NotNil(t, tokenCookie)
	assert.NotEmpty(t, tokenCookie.Value)
	assert.True(t, tokenCookie.HttpOnly)

	var out usecase.LoginOutput
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, "budi@example.com", out.User.Email)
}

func TestLoginHandlerWrongPassword(t *testing.T) {
	hash, _ := auth.HashPassword("rahasia-sekali")
	users := &stubUserRepo{user: entity.NewUser("Budi Santoso", "budi@example.com", hash, entity.RoleSales)}
	h := newTestAuthHandler(users)

	rec := postLogin(t, h, "budi@example.com", "salah-total", "10.0.0.1")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid email or password")
}

// Five failures lock the IP; the sixth attempt gets 429 even with the
// correct password.
func TestLoginHandlerLockout(t *testing.T) {
	hash, _ := auth.HashPassword("rahasia-sekali")
	users := &stubUserRepo{user: entity.NewUser("Budi Santoso", "budi@example.com", hash, entity.RoleSales)}
	h := newTestAuthHandler(users)

	for i := 0; i < 5; i++ {
		rec := postLogin(t, h, "budi@example.com", "salah-total", "10.0.0.1")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	rec := postLogin(t, h, "budi@example.com", "rahasia-sekali", "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "Terlalu banyak percobaan")

	// Another IP is unaffected.
	rec = postLogin(t, h, "budi@example.com", "rahasia-sekali", "10.0.0.2")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginHandlerInactiveAccount(t *testing.T) {
	hash, _ := auth.HashPassword("rahasia-sekali")
	user := entity.NewUser("Budi Santoso", "budi@example.com", hash, entity.RoleSales)
	user.Status = entity.UserInactive
	h := newTestAuthHandler(&stubUserRepo{user: user})

	rec := postLogin(t, h, "budi@example.com", "rahasia-sekali", "10.0.0.1")

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Account is inactive")
}

func TestSignupHandlerDuplicateEmail(t *testing.T) {
	hash, _ := auth.HashPassword("rahasia-sekali")
	users := &stubUserRepo{user: entity.NewUser("Budi Santoso", "budi@example.com", hash, entity.RoleAdmin)}
	h := newTestAuthHandler(users)

	body := `{"fullName":"Budi Kedua","email":"budi@example.com","password":"rahasia-lain"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Signup(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "Email already registered.")
}

func TestSignupHandlerCreated(t *testing.T) {
	users := &stubUserRepo{}
	h := newTestAuthHandler(users)

	body := `{"fullName":"Budi Santoso","email":"budi@example.com","password":"rahasia-sekali"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Signup(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var created entity.User
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.Equal(t, entity.RoleAdmin, created.Role)
	// The hash never leaves the server.
	assert.NotContains(t, rec.Body.String(), "password")
}
