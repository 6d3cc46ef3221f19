package usecase

import (
	"context"

	"github.com/salespipe/crm-backend/internal/entity"
)

type DashboardMetrics struct {
	PipelineValue  int64 `json:"pipeline_value"`
	ActiveDeals    int64 `json:"active_deals"`
	AvgDealSize    int64 `json:"avg_deal_size"`
	TotalLeads     int64 `json:"total_leads"`
	WonLeads       int64 `json:"won_leads"`
	LostLeads      int64 `json:"lost_leads"`
	PipelineGrowth int64 `json:"pipeline_growth"`
	LeadGrowth     int64 `json:"lead_growth"`
}

type DashboardUseCase struct {
	Leads entity.LeadRepository
}

// Metrics computes the KPI scalars over two contexts on purpose: counts
// respect the requested period, while pipeline value and average deal
// size are a point-in-time snapshot of currently ACTIVE deals and
// ignore the date range. Growth figures are placeholders; there is no
// historical snapshot store to derive them from yet.
func (uc *DashboardUseCase) Metrics(ctx context.Context, caller Identity, f entity.LeadFilter) (*DashboardMetrics, error) {
	f = ScopeLeadFilter(caller, f)

	counts, err := uc.Leads.CountByStatus(ctx, f)
	if err != nil {
		return nil, err
	}

	snapshot, err := uc.Leads.ActiveSnapshot(ctx, f.OwnerID)
	if err != nil {
		return nil, err
	}

	m := &DashboardMetrics{
		PipelineValue: snapshot.Value,
		ActiveDeals:   snapshot.ActiveDeals,
		TotalLeads:    counts.Total,
		WonLeads:      counts.Won,
		LostLeads:     counts.Lost,
	}
	if snapshot.ActiveDeals > 0 {
		m.AvgDealSize = snapshot.Value / snapshot.ActiveDeals
	}
	return m, nil
}
