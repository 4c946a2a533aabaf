package report

import (
	"fmt"
	"time"

	"github.com/rcamargo/equiptrack/internal/domain/entity"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const renewalSheet = "Upcoming Renewals"

// RenewalReportWriter renders renewal candidates as an xlsx workbook
type RenewalReportWriter struct {
	logger *zap.Logger
}

// NewRenewalReportWriter creates a new report writer
func NewRenewalReportWriter(logger *zap.Logger) *RenewalReportWriter {
	return &RenewalReportWriter{logger: logger}
}

// Write renders the workbook and returns its bytes
func (w *RenewalReportWriter) Write(requests []*entity.Request, generatedAt time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(renewalSheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		w.logger.Warn("Failed to remove default sheet", zap.Error(err))
	}

	headers := []string{"Request ID", "Client", "Description", "Status", "Contract Expiration", "Adjustment Month"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		w.setCell(f, cell, h)
	}

	for row, r := range requests {
		values := []interface{}{
			r.ID,
			r.ClientID,
			r.Description,
			r.Status,
			formatDate(r.ContractExpiration),
			formatMonth(r.AdjustmentMonth),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			w.setCell(f, cell, v)
		}
	}

	footerCell, _ := excelize.CoordinatesToCellName(1, len(requests)+3)
	w.setCell(f, footerCell, fmt.Sprintf("Generated %s", generatedAt.Format("2006-01-02 15:04")))

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	w.logger.Info("Renewal report generated", zap.Int("rows", len(requests)))
	return buf.Bytes(), nil
}

// setCell sets a cell value in the workbook
func (w *RenewalReportWriter) setCell(f *excelize.File, cell string, value interface{}) {
	if err := f.SetCellValue(renewalSheet, cell, value); err != nil {
		w.logger.Warn("Failed to set cell value", zap.String("cell", cell), zap.Error(err))
	}
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatMonth(m *int) string {
	if m == nil {
		return ""
	}
	return time.Month(*m).String()
}
