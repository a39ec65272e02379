package service

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

const entitySheet = "Entities"

// ExportService renders dashboard results as spreadsheets
type ExportService struct {
	dashboard *DashboardService
	now       func() time.Time
}

// NewExportService creates a new export service
func NewExportService(dashboard *DashboardService) *ExportService {
	return &ExportService{dashboard: dashboard, now: time.Now}
}

// ExportEntityTable writes the entity breakdown for filters and username to
// an XLSX workbook. Amounts are written as numbers so the sheet stays
// usable for further calculation; the header and total row are styled.
func (s *ExportService) ExportEntityTable(filters Filters, username string) ([]byte, string, error) {
	result := s.dashboard.Compute(filters, username)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", entitySheet); err != nil {
		return nil, "", fmt.Errorf("cannot name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#2A2A2A"}, Pattern: 1},
	})
	if err != nil {
		return nil, "", fmt.Errorf("cannot create header style: %w", err)
	}
	totalStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"#D9D9D9"}, Pattern: 1},
		NumFmt: 3, // #,##0
	})
	if err != nil {
		return nil, "", fmt.Errorf("cannot create total style: %w", err)
	}
	amountStyle, err := f.NewStyle(&excelize.Style{NumFmt: 3})
	if err != nil {
		return nil, "", fmt.Errorf("cannot create amount style: %w", err)
	}

	if err := f.SetSheetRow(entitySheet, "A1", &EntityTableHeader); err != nil {
		return nil, "", fmt.Errorf("cannot write header: %w", err)
	}
	if err := f.SetCellStyle(entitySheet, "A1", "F1", headerStyle); err != nil {
		return nil, "", fmt.Errorf("cannot style header: %w", err)
	}

	for i, e := range result.Entities {
		row := i + 2
		values := []interface{}{
			e.Entity,
			e.InvoiceAmount.InexactFloat64(),
			e.PaidAmount.InexactFloat64(),
			e.PaidPercent.InexactFloat64(),
			e.Receivables.InexactFloat64(),
			e.ReceivablesPercent.InexactFloat64(),
		}
		if err := f.SetSheetRow(entitySheet, fmt.Sprintf("A%d", row), &values); err != nil {
			return nil, "", fmt.Errorf("cannot write row %d: %w", row, err)
		}

		style := amountStyle
		if i == len(result.Entities)-1 {
			style = totalStyle
		}
		if err := f.SetCellStyle(entitySheet, fmt.Sprintf("A%d", row), fmt.Sprintf("F%d", row), style); err != nil {
			return nil, "", fmt.Errorf("cannot style row %d: %w", row, err)
		}
	}

	if err := f.SetColWidth(entitySheet, "A", "A", 30); err != nil {
		return nil, "", err
	}
	if err := f.SetColWidth(entitySheet, "B", "F", 16); err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", fmt.Errorf("cannot create Excel: %w", err)
	}

	return buf.Bytes(), exportFilename(username, s.now()), nil
}

func exportFilename(username string, at time.Time) string {
	scope := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, username)
	if scope == "" {
		scope = "all"
	}
	return fmt.Sprintf("entity-breakdown_%s_%s.xlsx", scope, at.Format("20060102-150405"))
}
