package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/spec-kit/triage-dashboard/internal/repository"
	apperrors "github.com/spec-kit/triage-dashboard/pkg/util"
)

// ExportService renders the full collection as an Excel workbook for
// offline analysis. Pure pass-through: the same snapshot shape feeds the
// aggregators, nothing is derived here.
type ExportService struct {
	tickets repository.TicketRepository
	now     func() time.Time
}

// NewExportService constructs the service.
func NewExportService(tickets repository.TicketRepository) *ExportService {
	return &ExportService{tickets: tickets, now: time.Now}
}

var exportColumns = []string{
	"Ticket ID", "Source", "Sender", "Summary", "Category", "Priority",
	"Department", "Sentiment", "Status", "Assigned To", "Assigned At",
	"Resolved At", "Created At", "Message",
}

// BuildWorkbook returns the xlsx bytes and a timestamped filename.
func (s *ExportService) BuildWorkbook(ctx context.Context) ([]byte, string, error) {
	tickets, err := s.tickets.ListAll(ctx)
	if err != nil {
		return nil, "", apperrors.MapError(err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheetName = "Tickets"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", apperrors.MapError(err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	for i, col := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx := range tickets {
		t := &tickets[rowIdx]
		values := []any{
			t.TicketID,
			string(t.Source),
			t.Sender,
			t.Summary,
			t.Category,
			string(t.Priority),
			derefDept(t.Department),
			deref(t.Sentiment),
			string(t.Status),
			deref(t.AssignedTo),
			formatTime(t.AssignedAt),
			formatTime(t.ResolvedAt),
			t.CreatedAt.Format("2006-01-02 15:04:05"),
			t.OriginalMessage,
		}
		for colIdx, val := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, val)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", apperrors.MapError(err)
	}
	filename := fmt.Sprintf("tickets_export_%s.xlsx", s.now().Format("20060102_150405"))
	return buf.Bytes(), filename, nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func derefDept[T ~string](p *T) string {
	if p == nil {
		return ""
	}
	return string(*p)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}
