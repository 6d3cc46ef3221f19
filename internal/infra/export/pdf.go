package export

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/salespipe/crm-backend/internal/entity"
)

// PDFRenderer produces a simple tabular lead report.
type PDFRenderer struct{}

func (PDFRenderer) ContentType() string {
	return "application/pdf"
}

func (PDFRenderer) FileExtension() string {
	return "pdf"
}

func (PDFRenderer) Render(w io.Writer, leads []entity.Lead) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 10, "Leads Report")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 6, "Generated "+time.Now().Format("02 Jan 2006 15:04"))
	pdf.Ln(10)

	widths := []float64{90, 30, 40, 25, 45, 40}
	headers := []string{"Title", "Value", "Stage", "Status", "Source", "Created"}

	pdf.SetFont("Helvetica", "B", 9)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	var total int64
	for _, l := range leads {
		total += l.Value
		row := []string{
			l.Title,
			fmt.Sprintf("%d %s", l.Value, l.Currency),
			l.StageBucket(),
			string(l.Status),
			l.Source,
			l.CreatedAt.Format("02 Jan 2006"),
		}
		for i, cell := range row {
			pdf.CellFormat(widths[i], 6, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Cell(0, 8, fmt.Sprintf("Leads: %d   Total value: %d", len(leads), total))

	return pdf.Output(w)
}
