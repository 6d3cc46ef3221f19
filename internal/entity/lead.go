package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Stage string

const (
	StageLeadIn         Stage = "Lead In"
	StageContactMode    Stage = "Contact Mode"
	StageNeedIdentified Stage = "Need Identified"
	StageProposalMade   Stage = "Proposal Made"
	StageNegotiation    Stage = "Negotiation"
	StageContractSent   Stage = "Contract Sent"
	StageWon            Stage = "Won"
	StageLost           Stage = "Lost"
)

// StageUnassigned is the bucket for leads with no stage set. It is a
// presentation sentinel, never stored.
const StageUnassigned = "Unassigned"

// Stages is the fixed pipeline order. The Kanban payload only carries
// stages that have leads; the board renders this master list.
var Stages = []Stage{
	StageLeadIn, StageContactMode, StageNeedIdentified, StageProposalMade,
	StageNegotiation, StageContractSent, StageWon, StageLost,
}

func ValidStage(s Stage) bool {
	for _, st := range Stages {
		if st == s {
			return true
		}
	}
	return false
}

type LeadStatus string

const (
	LeadActive LeadStatus = "ACTIVE"
	LeadWon    LeadStatus = "WON"
	LeadLost   LeadStatus = "LOST"
)

// Lead is a deal tracked through the pipeline. Stage and Status are
// independent axes: moving a lead into the Won/Lost stage also closes
// its status, but setting status never moves the stage.
type Lead struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Value     int64      `json:"value"` // minor currency units
	Currency  string     `json:"currency"`
	Stage     Stage      `json:"stage"`
	Status    LeadStatus `json:"status"`
	OwnerID   string     `json:"owner_id"`
	ContactID *string    `json:"contact_id,omitempty"`
	CompanyID *string    `json:"company_id,omitempty"`
	Source    string     `json:"source,omitempty"`
	LabelIDs  []string   `json:"label_ids,omitempty"`
	DeletedAt *time.Time `json:"-"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func NewLead(title string, value int64, currency, ownerID string) *Lead {
	now := time.Now()
	if currency == "" {
		currency = "IDR"
	}
	return &Lead{
		ID:        uuid.New().String(),
		Title:     title,
		Value:     value,
		Currency:  currency,
		Stage:     StageLeadIn,
		Status:    LeadActive,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// StageBucket returns the Kanban bucket key for this lead.
func (l *Lead) StageBucket() string {
	if l.Stage == "" {
		return StageUnassigned
	}
	return string(l.Stage)
}

// LeadFilter narrows lead queries. An OwnerID set by the role-scoping
// layer is authoritative; repositories apply it verbatim.
type LeadFilter struct {
	OwnerID string
	Status  LeadStatus
	Source  string
	LabelID string
	Search  string
	From    *time.Time
	To      *time.Time
	Limit   int
	Offset  int
}

// LeadCounts are the period-bounded dashboard figures.
type LeadCounts struct {
	Total int64 `json:"total"`
	Won   int64 `json:"won"`
	Lost  int64 `json:"lost"`
}

// PipelineSnapshot is the point-in-time view over ACTIVE leads only.
type PipelineSnapshot struct {
	Value       int64 `json:"value"`
	ActiveDeals int64 `json:"active_deals"`
}

type LeadRepository interface {
	Create(ctx context.Context, l *Lead) error
	FindByID(ctx context.Context, id string) (*Lead, error)
	Update(ctx context.Context, l *Lead) error
	UpdateStage(ctx context.Context, id string, stage Stage, status LeadStatus, closedAt *time.Time) error
	UpdateStatus(ctx context.Context, id string, status LeadStatus, closedAt *time.Time) error
	SetLabels(ctx context.Context, id string, labelIDs []string) error
	SoftDelete(ctx context.Context, id string) error
	List(ctx context.Context, f LeadFilter) ([]Lead, error)
	CountByStatus(ctx context.Context, f LeadFilter) (LeadCounts, error)
	ActiveSnapshot(ctx context.Context, ownerID string) (PipelineSnapshot, error)
}
