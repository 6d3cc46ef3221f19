package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/salespipe/crm-backend/internal/entity"
	"github.com/salespipe/crm-backend/internal/validation"
)

type ActivityUseCase struct {
	Activities entity.ActivityRepository
	Leads      entity.LeadRepository
	EmailLogs  entity.EmailLogRepository
	Dispatcher Dispatcher
	Validate   *validation.Validator
}

type CreateActivityInput struct {
	Title                 string  `json:"title" validate:"required,min=2,max=255"`
	StartTime             string  `json:"start_time" validate:"required"`
	ReminderMinutesBefore int     `json:"reminder_minutes_before" validate:"gte=0"`
	LeadID                *string `json:"lead_id"`
	Notes                 string  `json:"notes"`
}

// Create schedules a meeting or call. The "scheduled" notification is a
// side-channel write: it cannot fail the creation.
func (uc *ActivityUseCase) Create(ctx context.Context, caller Identity, kind entity.ActivityKind, input CreateActivityInput) (*entity.Activity, error) {
	if err := uc.Validate.Struct(input); err != nil {
		return nil, validationErr(validation.Describe(err))
	}

	startTime, err := time.Parse(time.RFC3339, input.StartTime)
	if err != nil {
		return nil, validationErr("start_time must be an RFC3339 timestamp")
	}

	if input.LeadID != nil {
		if err := uc.checkLead(ctx, *input.LeadID); err != nil {
			return nil, err
		}
	}

	activity := entity.NewActivity(kind, input.Title, startTime, input.ReminderMinutesBefore, caller.UserID)
	activity.LeadID = input.LeadID
	activity.Notes = input.Notes

	if err := uc.Activities.Create(ctx, activity); err != nil {
		return nil, err
	}

	msg := fmt.Sprintf("%s %q scheduled for %s",
		titleKind(kind), activity.Title, activity.StartTime.Format("02 Jan 2006 15:04"))
	if err := uc.Dispatcher.DispatchNotification(ctx, caller.UserID, msg, activity.LeadID); err != nil {
		log.Printf("[ACTIVITY] notification dispatch failed: %v", err)
	}
	return activity, nil
}

func (uc *ActivityUseCase) List(ctx context.Context, caller Identity, f entity.ActivityFilter) ([]entity.Activity, error) {
	if caller.Role.SeesOnlyOwnLeads() {
		f.OwnerID = caller.UserID
	}
	return uc.Activities.List(ctx, f)
}

func (uc *ActivityUseCase) Delete(ctx context.Context, caller Identity, id string) error {
	affected, err := uc.Activities.Delete(ctx, id, caller.UserID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return notFoundErr("Activity not found")
	}
	return nil
}

type LogEmailInput struct {
	To      string  `json:"to" validate:"required,email"`
	Subject string  `json:"subject" validate:"required,max=255"`
	Body    string  `json:"body" validate:"required"`
	LeadID  *string `json:"lead_id"`
}

// LogEmail persists the activity row (primary write), then hands the
// actual send to the side channel.
func (uc *ActivityUseCase) LogEmail(ctx context.Context, caller Identity, input LogEmailInput) (*entity.EmailLog, error) {
	if err := uc.Validate.Struct(input); err != nil {
		return nil, validationErr(validation.Describe(err))
	}
	if input.LeadID != nil {
		if err := uc.checkLead(ctx, *input.LeadID); err != nil {
			return nil, err
		}
	}

	entry := entity.NewEmailLog(caller.UserID, input.To, input.Subject, input.Body, input.LeadID)
	if err := uc.EmailLogs.Create(ctx, entry); err != nil {
		return nil, err
	}

	if err := uc.Dispatcher.DispatchEmail(ctx, input.To, input.Subject, input.Body); err != nil {
		log.Printf("[ACTIVITY] email dispatch failed: %v", err)
	}
	return entry, nil
}

func (uc *ActivityUseCase) ListEmails(ctx context.Context, caller Identity, leadID string, limit, offset int) ([]entity.EmailLog, error) {
	ownerID := ""
	if caller.Role.SeesOnlyOwnLeads() {
		ownerID = caller.UserID
	}
	return uc.EmailLogs.List(ctx, ownerID, leadID, limit, offset)
}

func (uc *ActivityUseCase) checkLead(ctx context.Context, leadID string) error {
	lead, err := uc.Leads.FindByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return notFoundErr("Lead not found")
		}
		return err
	}
	if lead.DeletedAt != nil {
		return notFoundErr("Lead not found")
	}
	return nil
}

func titleKind(kind entity.ActivityKind) string {
	s := strings.ToLower(string(kind))
	if s == "" {
		return "Activity"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
