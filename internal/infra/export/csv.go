package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/salespipe/crm-backend/internal/entity"
)

// CSVRenderer writes the lead snapshot as RFC 4180 CSV. Stateless: the
// output is a pure function of the rows.
type CSVRenderer struct{}

func (CSVRenderer) ContentType() string {
	return "text/csv"
}

func (CSVRenderer) FileExtension() string {
	return "csv"
}

func (CSVRenderer) Render(w io.Writer, leads []entity.Lead) error {
	cw := csv.NewWriter(w)

	header := []string{"id", "title", "value", "currency", "stage", "status", "owner_id", "source", "created_at", "closed_at"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, l := range leads {
		closedAt := ""
		if l.ClosedAt != nil {
			closedAt = l.ClosedAt.Format(time.RFC3339)
		}
		record := []string{
			l.ID,
			l.Title,
			strconv.FormatInt(l.Value, 10),
			l.Currency,
			l.StageBucket(),
			string(l.Status),
			l.OwnerID,
			l.Source,
			l.CreatedAt.Format(time.RFC3339),
			closedAt,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
