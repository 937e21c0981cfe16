package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"fieldlens/internal/domain"
	"fieldlens/internal/view"
)

const (
	summarySheet      = "Summary"
	transactionsSheet = "Transactions"
)

// XLSX renders a successful result as a two-sheet workbook: the
// basic-information and summary fields, and the transaction table.
func XLSX(result *domain.ExtractionResult) ([]byte, error) {
	if !result.Succeeded() {
		return nil, domain.ErrNoResultData
	}
	data := result.Data

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	// The default sheet becomes the summary sheet.
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}

	row := 1
	writeField := func(name string, field domain.ExtractionField) error {
		if err := f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), view.Humanize(name)); err != nil {
			return err
		}
		if err := f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), cellValue(field, true)); err != nil {
			return err
		}
		row++
		return nil
	}

	for _, name := range data.BasicInformation.Keys() {
		field, _ := data.BasicInformation.Get(name)
		if err := writeField(name, field); err != nil {
			return nil, err
		}
	}
	if data.StatementSummary != nil {
		row++ // blank separator row
		for _, name := range data.StatementSummary.Keys() {
			field, _ := data.StatementSummary.Get(name)
			if err := writeField(name, field); err != nil {
				return nil, err
			}
		}
	}

	if _, err := f.NewSheet(transactionsSheet); err != nil {
		return nil, err
	}

	cols := transactionColumns(data)
	for i, name := range cols {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(transactionsSheet, cell, view.Humanize(name)); err != nil {
			return nil, err
		}
	}
	for r, txn := range data.Transactions {
		for i, name := range cols {
			field, ok := txn.Get(name)
			cell, err := excelize.CoordinatesToCellName(i+1, r+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(transactionsSheet, cell, cellValue(field, ok)); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
