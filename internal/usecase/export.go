package usecase

import (
	"bytes"
	"context"
	"io"

	"github.com/salespipe/crm-backend/internal/entity"
)

// ReportRenderer turns a lead snapshot into one export format. Renderers
// are stateless: the output is a pure function of the rows passed in.
type ReportRenderer interface {
	ContentType() string
	FileExtension() string
	Render(w io.Writer, leads []entity.Lead) error
}

type ExportResult struct {
	Body        []byte
	ContentType string
	Filename    string
}

type ExportUseCase struct {
	Leads     entity.LeadRepository
	Renderers map[string]ReportRenderer
}

// Execute renders a role-scoped lead snapshot. Unknown formats are a
// validation failure, not a fallback to a default.
func (uc *ExportUseCase) Execute(ctx context.Context, caller Identity, format string, f entity.LeadFilter) (*ExportResult, error) {
	renderer, ok := uc.Renderers[format]
	if !ok {
		return nil, validationErr("Unknown export format: " + format)
	}

	f = ScopeLeadFilter(caller, f)
	f.Limit = 0
	f.Offset = 0
	leads, err := uc.Leads.List(ctx, f)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := renderer.Render(&buf, leads); err != nil {
		return nil, err
	}
	return &ExportResult{
		Body:        buf.Bytes(),
		ContentType: renderer.ContentType(),
		Filename:    "leads-report." + renderer.FileExtension(),
	}, nil
}
