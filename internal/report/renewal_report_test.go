package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/rcamargo/equiptrack/internal/domain/entity"
)

func TestRenewalReportWriter_Write(t *testing.T) {
	expiration := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	month := 4
	requests := []*entity.Request{
		{
			ID:                 1,
			ClientID:           "client-9",
			Description:        "industrial press",
			Status:             "CONTRACTING",
			ContractExpiration: &expiration,
			AdjustmentMonth:    &month,
		},
		{
			ID:          2,
			ClientID:    "client-12",
			Description: "forklift lease",
			Status:      "COMPLETED",
		},
	}

	writer := NewRenewalReportWriter(zap.NewNop())
	generatedAt := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)

	content, err := writer.Write(requests, generatedAt)
	require.NoError(t, err)
	require.NotEmpty(t, content)

	f, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer f.Close()

	assert.Contains(t, f.GetSheetList(), renewalSheet)

	header, err := f.GetCellValue(renewalSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Request ID", header)

	tests := []struct {
		cell string
		want string
	}{
		{"B1", "Client"},
		{"E1", "Contract Expiration"},
		{"F1", "Adjustment Month"},
		{"A2", "1"},
		{"B2", "client-9"},
		{"C2", "industrial press"},
		{"D2", "CONTRACTING"},
		{"E2", "2026-04-10"},
		{"F2", "April"},
		{"A3", "2"},
		{"E3", ""},
		{"F3", ""},
	}
	for _, tt := range tests {
		got, err := f.GetCellValue(renewalSheet, tt.cell)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "cell %s", tt.cell)
	}

	footer, err := f.GetCellValue(renewalSheet, "A5")
	require.NoError(t, err)
	assert.Equal(t, "Generated 2026-03-14 10:30", footer)
}

func TestRenewalReportWriter_Write_Empty(t *testing.T) {
	writer := NewRenewalReportWriter(zap.NewNop())

	content, err := writer.Write(nil, time.Now())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue(renewalSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Request ID", header)
}
