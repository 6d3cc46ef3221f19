package usecase

import (
	"context"

	"github.com/salespipe/crm-backend/internal/entity"
)

// StageColumn is one Kanban bucket: the full ordered lead list plus the
// summed deal value. Columns are never paginated; the board shows every
// card in a stage.
type StageColumn struct {
	Leads      []entity.Lead `json:"leads"`
	TotalValue int64         `json:"total_value"`
}

type KanbanUseCase struct {
	Leads entity.LeadRepository
}

// Execute fetches every matching non-deleted lead in one pass and
// groups in memory by stage. Leads without a stage land in the
// "Unassigned" bucket. Stages with no leads are absent from the result;
// the fixed stage list lives with the board, not here.
func (uc *KanbanUseCase) Execute(ctx context.Context, caller Identity, f entity.LeadFilter) (map[string]*StageColumn, error) {
	f = ScopeLeadFilter(caller, f)
	f.Limit = 0
	f.Offset = 0

	leads, err := uc.Leads.List(ctx, f)
	if err != nil {
		return nil, err
	}

	board := make(map[string]*StageColumn)
	for _, lead := range leads {
		bucket := lead.StageBucket()
		col, ok := board[bucket]
		if !ok {
			col = &StageColumn{Leads: []entity.Lead{}}
			board[bucket] = col
		}
		col.Leads = append(col.Leads, lead)
		col.TotalValue += lead.Value
	}
	return board, nil
}
