package export_test

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"fieldlens/internal/domain"
	"fieldlens/internal/export"
)

func sampleResult(t *testing.T) *domain.ExtractionResult {
	t.Helper()
	raw := `{
		"basic_information": {
			"account_holder": {"value": "Jane Doe", "confidence": 0.92},
			"account_number": {"value": "XXXX1234", "confidence": 0.88}
		},
		"transactions": [
			{"date": {"value": "14-05-2024"}, "narration": {"value": "ATM WDL"}, "withdrawal": {"value": 500}},
			{"date": {"value": "15-05-2024"}, "narration": {"value": "NEFT"}, "deposit": {"value": 29293}}
		],
		"statement_summary": {
			"opening_balance": {"value": 1500.5},
			"closing_balance": {"value": 30293.5}
		}
	}`
	var data domain.ExtractionData
	require.NoError(t, json.Unmarshal([]byte(raw), &data))
	return &domain.ExtractionResult{Status: domain.StatusSuccess, Data: &data}
}

func TestCSV(t *testing.T) {
	out, err := export.CSV(sampleResult(t))
	require.NoError(t, err)

	require.True(t, bytes.HasPrefix(out, export.BOM))

	records, err := csv.NewReader(bytes.NewReader(out[len(export.BOM):])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	// Columns follow first-seen order across all transactions.
	assert.Equal(t, []string{"Date", "Narration", "Withdrawal", "Deposit"}, records[0])
	assert.Equal(t, []string{"14-05-2024", "ATM WDL", "500", ""}, records[1])
	assert.Equal(t, []string{"15-05-2024", "NEFT", "", "29293"}, records[2])
}

func TestCSV_ErrorResult(t *testing.T) {
	_, err := export.CSV(&domain.ExtractionResult{Status: domain.StatusError, Error: "boom"})
	assert.ErrorIs(t, err, domain.ErrNoResultData)
}

func TestXLSX(t *testing.T) {
	out, err := export.XLSX(sampleResult(t))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	holder, err := f.GetCellValue("Summary", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Account Holder", holder)
	value, err := f.GetCellValue("Summary", "B1")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", value)

	header, err := f.GetCellValue("Transactions", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Date", header)
	deposit, err := f.GetCellValue("Transactions", "D3")
	require.NoError(t, err)
	assert.Equal(t, "29293", deposit)
}
