// Package export renders stored extraction results as downloadable
// CSV and XLSX files.
package export

import (
	"bytes"
	"encoding/csv"

	"fieldlens/internal/domain"
	"fieldlens/internal/view"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// transactionColumns returns the union of transaction field names in
// first-seen order, so columns come out the way the extractor emitted them.
func transactionColumns(data *domain.ExtractionData) []string {
	var cols []string
	seen := make(map[string]bool)
	for _, txn := range data.Transactions {
		for _, name := range txn.Keys() {
			if !seen[name] {
				seen[name] = true
				cols = append(cols, name)
			}
		}
	}
	return cols
}

// cellValue renders one field for a spreadsheet cell; absent values
// export as empty cells, not placeholders.
func cellValue(f domain.ExtractionField, ok bool) string {
	if !ok || !f.HasValue() {
		return ""
	}
	return view.FormatValue(f)
}

// CSV renders the transactions of a successful result as a CSV file.
func CSV(result *domain.ExtractionResult) ([]byte, error) {
	if !result.Succeeded() {
		return nil, domain.ErrNoResultData
	}

	var buf bytes.Buffer
	buf.Write(BOM)
	w := csv.NewWriter(&buf)

	cols := transactionColumns(result.Data)
	header := make([]string, len(cols))
	for i, name := range cols {
		header[i] = view.Humanize(name)
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, txn := range result.Data.Transactions {
		row := make([]string, len(cols))
		for i, name := range cols {
			f, ok := txn.Get(name)
			row[i] = cellValue(f, ok)
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
