package usecase

import (
	"context"
	"time"

	"github.com/salespipe/crm-backend/internal/entity"
)

// Identity is the resolved caller, produced once by the auth middleware.
type Identity struct {
	UserID string
	Role   entity.Role
}

// ScopeLeadFilter applies the hard authorization invariant: SALES
// callers only ever see their own leads, whatever filter they sent.
func ScopeLeadFilter(caller Identity, f entity.LeadFilter) entity.LeadFilter {
	if caller.Role.SeesOnlyOwnLeads() {
		f.OwnerID = caller.UserID
	}
	return f
}

// TokenManager issues session tokens for authenticated users.
type TokenManager interface {
	Generate(userID string, role entity.Role) (string, error)
}

// Dispatcher hands side-channel writes (notifications, audit rows,
// outbound email) to a best-effort channel after the primary write.
// Callers log a returned error and move on; they never abort on it.
type Dispatcher interface {
	DispatchNotification(ctx context.Context, userID, message string, leadID *string) error
	DispatchAudit(ctx context.Context, actorID, action, entityName, entityID, detail string) error
	DispatchEmail(ctx context.Context, to, subject, body string) error
}

// Mailer sends a single email synchronously. Only the side-channel
// worker and the sync dispatcher talk to it directly.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// AttemptStore is the injectable fixed-window counter behind login
// lockout. Memory-backed in a single instance, Redis-backed when the
// lockout must hold across instances.
type AttemptStore interface {
	Count(ctx context.Context, key string) (int64, error)
	Increment(ctx context.Context, key string, window time.Duration) (int64, error)
	Reset(ctx context.Context, key string) error
}
