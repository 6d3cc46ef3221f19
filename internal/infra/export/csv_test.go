package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/salespipe/crm-backend/internal/entity"
)

func TestCSVRendererRows(t *testing.T) {
	lead := entity.NewLead("PT Maju API integration", 5_000_000_00, "IDR", "sales-1")
	lead.Stage = entity.StageNegotiation
	lead.Source = "referral"

	orphan := entity.NewLead("No stage yet", 100_00, "IDR", "sales-2")
	orphan.Stage = ""

	var buf bytes.Buffer
	err := CSVRenderer{}.Render(&buf, []entity.Lead{*lead, *orphan})
	assert.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	assert.NoError(t, err)
	assert.Len(t, records, 3)

	assert.Equal(t, "title", records[0][1])
	assert.Equal(t, "PT Maju API integration", records[1][1])
	assert.Equal(t, "500000000", records[1][2])
	assert.Equal(t, "Negotiation", records[1][4])
	assert.Equal(t, "referral", records[1][7])

	// Stageless leads export under the Unassigned bucket.
	assert.Equal(t, "Unassigned", records[2][4])
	// Open leads have no closed_at.
	assert.Equal(t, "", records[1][9])
}

func TestCSVRendererEmptySnapshot(t *testing.T) {
	var buf bytes.Buffer
	err := CSVRenderer{}.Render(&buf, nil)
	assert.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	assert.NoError(t, err)
	assert.Len(t, records, 1) // header only
}

func TestPDFRendererProducesDocument(t *testing.T) {
	lead := entity.NewLead("PT Maju API integration", 5_000_000_00, "IDR", "sales-1")

	var buf bytes.Buffer
	err := PDFRenderer{}.Render(&buf, []entity.Lead{*lead})
	assert.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestRendererMetadata(t *testing.T) {
	assert.Equal(t, "text/csv", CSVRenderer{}.ContentType())
	assert.Equal(t, "csv", CSVRenderer{}.FileExtension())
	assert.Equal(t, "application/pdf", PDFRenderer{}.ContentType())
	assert.Equal(t, "pdf", PDFRenderer{}.FileExtension())
}
