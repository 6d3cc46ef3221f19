package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/salespipe/crm-backend/internal/entity"
	"github.com/salespipe/crm-backend/internal/usecase"
)

func TestReminderDueBoundary(t *testing.T) {
	now := time.Now()

	// reminder_minutes_before=5, starting in 4 minutes: window is open.
	soon := entity.NewActivity(entity.ActivityMeeting, "Demo PT Maju", now.Add(4*time.Minute), 5, "sales-1")
	assert.True(t, soon.ReminderDue(now))

	// Starting in 10 minutes: window not yet open.
	later := entity.NewActivity(entity.ActivityMeeting, "Demo PT Maju", now.Add(10*time.Minute), 5, "sales-1")
	assert.False(t, later.ReminderDue(now))

	// Exactly on the window edge fires.
	edge := entity.NewActivity(entity.ActivityCall, "Follow up", now.Add(5*time.Minute), 5, "sales-1")
	assert.False(t, edge.ReminderSent)
	assert.True(t, edge.ReminderDue(now))

	// Already started: never back-filled.
	past := entity.NewActivity(entity.ActivityCall, "Missed", now.Add(-time.Minute), 5, "sales-1")
	assert.False(t, past.ReminderDue(now))

	// Already sent: fires once only.
	sent := entity.NewActivity(entity.ActivityMeeting, "Done", now.Add(4*time.Minute), 5, "sales-1")
	sent.ReminderSent = true
	assert.False(t, sent.ReminderDue(now))

	// No reminder configured.
	none := entity.NewActivity(entity.ActivityMeeting, "Quiet", now.Add(4*time.Minute), 0, "sales-1")
	assert.False(t, none.ReminderDue(now))
}

func TestCheckAndSendRemindersNotifiesEachClaim(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	leadID := "lead-1"
	claimed := []entity.Activity{
		*entity.NewActivity(entity.ActivityMeeting, "Demo PT Maju", now.Add(4*time.Minute), 5, "sales-1"),
		*entity.NewActivity(entity.ActivityCall, "Follow up CV Sentosa", now.Add(3*time.Minute), 5, "sales-2"),
	}
	claimed[0].LeadID = &leadID

	repo := new(MockActivityRepository)
	repo.On("ClaimDueReminders", ctx, now).Return(claimed, nil)

	dispatcher := new(MockDispatcher)
	dispatcher.On("DispatchNotification", ctx, "sales-1", mock.MatchedBy(func(msg string) bool {
		return strings.HasPrefix(msg, "Reminder:")
	}), &leadID).Return(nil)
	dispatcher.On("DispatchNotification", ctx, "sales-2", mock.Anything, (*string)(nil)).Return(nil)

	uc := &usecase.ReminderUseCase{Activities: repo, Dispatcher: dispatcher}
	fired, err := uc.CheckAndSendReminders(ctx, now)

	assert.NoError(t, err)
	assert.Equal(t, 2, fired)
	dispatcher.AssertNumberOfCalls(t, "DispatchNotification", 2)
}

// A failed dispatch is logged and swallowed; the sweep still counts the
// claim and keeps processing the rest.
func TestCheckAndSendRemindersDispatchFailureSwallowed(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	claimed := []entity.Activity{
		*entity.NewActivity(entity.ActivityMeeting, "Demo", now.Add(4*time.Minute), 5, "sales-1"),
		*entity.NewActivity(entity.ActivityCall, "Call", now.Add(4*time.Minute), 5, "sales-2"),
	}

	repo := new(MockActivityRepository)
	repo.On("ClaimDueReminders", ctx, now).Return(claimed, nil)

	dispatcher := new(MockDispatcher)
	dispatcher.On("DispatchNotification", ctx, "sales-1", mock.Anything, mock.Anything).Return(errors.New("broker down"))
	dispatcher.On("DispatchNotification", ctx, "sales-2", mock.Anything, mock.Anything).Return(nil)

	uc := &usecase.ReminderUseCase{Activities: repo, Dispatcher: dispatcher}
	fired, err := uc.CheckAndSendReminders(ctx, now)

	assert.NoError(t, err)
	assert.Equal(t, 2, fired)
	dispatcher.AssertNumberOfCalls(t, "DispatchNotification", 2)
}

// Claiming is what makes overlapping sweeps idempotent: a second sweep
// sees no unclaimed rows and fires nothing.
func TestCheckAndSendRemindersSecondSweepEmpty(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	repo := new(MockActivityRepository)
	repo.On("ClaimDueReminders", ctx, now).Return([]entity.Activity{}, nil)

	dispatcher := new(MockDispatcher)

	uc := &usecase.ReminderUseCase{Activities: repo, Dispatcher: dispatcher}
	fired, err := uc.CheckAndSendReminders(ctx, now)

	assert.NoError(t, err)
	assert.Equal(t, 0, fired)
	dispatcher.AssertNotCalled(t, "DispatchNotification")
}

func TestCheckAndSendRemindersClaimFailure(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	repo := new(MockActivityRepository)
	repo.On("ClaimDueReminders", ctx, now).Return(nil, errors.New("db down"))

	uc := &usecase.ReminderUseCase{Activities: repo, Dispatcher: new(MockDispatcher)}
	fired, err := uc.CheckAndSendReminders(ctx, now)

	assert.Error(t, err)
	assert.Equal(t, 0, fired)
}
