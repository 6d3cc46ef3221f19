package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ActivityKind string

const (
	ActivityMeeting ActivityKind = "MEETING"
	ActivityCall    ActivityKind = "CALL"
)

// Activity is a scheduled meeting or call. ReminderSent transitions
// false -> true exactly once; the repository claims rows atomically so
// overlapping sweeps cannot fire the same reminder twice.
type Activity struct {
	ID                    string       `json:"id"`
	Kind                  ActivityKind `json:"kind"`
	Title                 string       `json:"title"`
	StartTime             time.Time    `json:"start_time"`
	ReminderMinutesBefore int          `json:"reminder_minutes_before"`
	ReminderSent          bool         `json:"reminder_sent"`
	OwnerID               string       `json:"owner_id"`
	LeadID                *string      `json:"lead_id,omitempty"`
	Notes                 string       `json:"notes,omitempty"`
	CreatedAt             time.Time    `json:"created_at"`
	UpdatedAt             time.Time    `json:"updated_at"`
}

func NewActivity(kind ActivityKind, title string, startTime time.Time, reminderMinutes int, ownerID string) *Activity {
	now := time.Now()
	return &Activity{
		ID:                    uuid.New().String(),
		Kind:                  kind,
		Title:                 title,
		StartTime:             startTime,
		ReminderMinutesBefore: reminderMinutes,
		OwnerID:               ownerID,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
}

// ReminderDue reports whether the reminder window has opened while the
// activity itself is still in the future. Past activities are never
// back-filled.
func (a *Activity) ReminderDue(now time.Time) bool {
	if a.ReminderSent || a.ReminderMinutesBefore <= 0 {
		return false
	}
	if !a.StartTime.After(now) {
		return false
	}
	remindAt := a.StartTime.Add(-time.Duration(a.ReminderMinutesBefore) * time.Minute)
	return !remindAt.After(now)
}

type ActivityFilter struct {
	Kind    ActivityKind
	OwnerID string
	LeadID  string
	Limit   int
	Offset  int
}

type ActivityRepository interface {
	Create(ctx context.Context, a *Activity) error
	FindByID(ctx context.Context, id string) (*Activity, error)
	List(ctx context.Context, f ActivityFilter) ([]Activity, error)
	Delete(ctx context.Context, id, ownerID string) (int64, error)
	// ClaimDueReminders flips reminder_sent on every due row in a single
	// statement and returns the claimed rows.
	ClaimDueReminders(ctx context.Context, now time.Time) ([]Activity, error)
}

// EmailLog records an outbound email tied to a lead. Actual delivery is
// handed to the side channel; the log row is the primary write.
type EmailLog struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	LeadID    *string   `json:"lead_id,omitempty"`
	To        string    `json:"to"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	SentAt    time.Time `json:"sent_at"`
	CreatedAt time.Time `json:"created_at"`
}

func NewEmailLog(ownerID, to, subject, body string, leadID *string) *EmailLog {
	now := time.Now()
	return &EmailLog{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		LeadID:    leadID,
		To:        to,
		Subject:   subject,
		Body:      body,
		SentAt:    now,
		CreatedAt: now,
	}
}

type EmailLogRepository interface {
	Create(ctx context.Context, e *EmailLog) error
	List(ctx context.Context, ownerID, leadID string, limit, offset int) ([]EmailLog, error)
}
