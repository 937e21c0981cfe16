package view

import (
	"fmt"
	"strings"

	"fieldlens/internal/domain"
)

// Badge classifies a field confidence into a display tier.
type Badge string

const (
	BadgePositive Badge = "positive"
	BadgeCaution  Badge = "caution"
	BadgeNegative Badge = "negative"
	BadgeNone     Badge = "none"
)

// notFoundPlaceholder is rendered for absent or falsy values.
const notFoundPlaceholder = "not found"

// BadgeFor maps a confidence score onto its tier. No confidence means
// no badge.
func BadgeFor(confidence *float64) Badge {
	if confidence == nil {
		return BadgeNone
	}
	switch c := *confidence; {
	case c >= 0.80:
		return BadgePositive
	case c >= 0.60:
		return BadgeCaution
	default:
		return BadgeNegative
	}
}

// Card is one field rendered for display. Clickable fields carry the raw
// extraction-space position; the highlight itself is computed per render.
type Card struct {
	Field          string    `json:"field"`
	Label          string    `json:"label"`
	Value          string    `json:"value"`
	Found          bool      `json:"found"`
	Clickable      bool      `json:"clickable"`
	Confidence     *float64  `json:"confidence,omitempty"`
	Badge          Badge     `json:"badge"`
	Position       []float64 `json:"position,omitempty"`
	ReviewRequired bool      `json:"review_required,omitempty"`
}

// TransactionRow is one transaction rendered for the table, with cells in
// the column order the extractor emitted.
type TransactionRow struct {
	Cells []Card `json:"cells"`
}

// Summary is the statistics block shown above the result.
type Summary struct {
	TransactionCount int    `json:"transaction_count"`
	OpeningBalance   string `json:"opening_balance,omitempty"`
	ClosingBalance   string `json:"closing_balance,omitempty"`
}

// Presentation is the shaped form of an extraction result for display.
type Presentation struct {
	Cards        []Card           `json:"cards"`
	Transactions []TransactionRow `json:"transactions"`
	Summary      Summary          `json:"summary"`
	SummaryCards []Card           `json:"summary_cards,omitempty"`
}

// Humanize turns a snake_case field name into a display label.
func Humanize(name string) string {
	parts := strings.Split(name, "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}

// FormatValue renders a field value for display. Falsy values fall back
// to the placeholder.
func FormatValue(f domain.ExtractionField) string {
	if !f.HasValue() {
		return notFoundPlaceholder
	}
	switch v := f.Value.(type) {
	case string:
		return v
	case float64:
		// Drop the trailing .000000 for whole numbers.
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%.2f", v)
	case bool:
		return fmt.Sprintf("%t", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// buildCard shapes one field into a Card. The badge follows the reported
// confidence even for absent values; only the click target requires both
// a value and a well-formed position.
func buildCard(name string, f domain.ExtractionField) Card {
	found := f.HasValue()
	clickable := found && len(f.Position) == 4
	card := Card{
		Field:          name,
		Label:          Humanize(name),
		Value:          FormatValue(f),
		Found:          found,
		Clickable:      clickable,
		Confidence:     f.Confidence,
		Badge:          BadgeFor(f.Confidence),
		ReviewRequired: f.ReviewRequired,
	}
	if found {
		card.Position = f.Position
	}
	return card
}

// Present shapes an extraction result for display: one card per
// basic-information field in extractor order, one row per transaction,
// and the summary block.
func Present(result *domain.ExtractionResult) *Presentation {
	p := &Presentation{
		Cards:        []Card{},
		Transactions: []TransactionRow{},
	}
	if !result.Succeeded() {
		return p
	}
	data := result.Data

	for _, name := range data.BasicInformation.Keys() {
		f, _ := data.BasicInformation.Get(name)
		p.Cards = append(p.Cards, buildCard(name, f))
	}

	for _, txn := range data.Transactions {
		row := TransactionRow{}
		for _, name := range txn.Keys() {
			f, _ := txn.Get(name)
			row.Cells = append(row.Cells, buildCard(name, f))
		}
		p.Transactions = append(p.Transactions, row)
	}

	p.Summary.TransactionCount = len(data.Transactions)
	if data.StatementSummary != nil {
		for _, name := range data.StatementSummary.Keys() {
			f, _ := data.StatementSummary.Get(name)
			p.SummaryCards = append(p.SummaryCards, buildCard(name, f))
		}
		if f, ok := data.StatementSummary.Get("opening_balance"); ok && f.HasValue() {
			p.Summary.OpeningBalance = FormatValue(f)
		}
		if f, ok := data.StatementSummary.Get("closing_balance"); ok && f.HasValue() {
			p.Summary.ClosingBalance = FormatValue(f)
		}
	}
	return p
}
