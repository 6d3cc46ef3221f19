package usecase

import (
	"context"

	"github.com/salespipe/crm-backend/internal/entity"
)

// AuditUseCase exposes the audit trail to admins. Writes never go
// through here; they travel the side channel.
type AuditUseCase struct {
	Audits entity.AuditLogRepository
}

func (uc *AuditUseCase) List(ctx context.Context, limit, offset int) ([]entity.AuditLog, error) {
	return uc.Audits.List(ctx, limit, offset)
}
