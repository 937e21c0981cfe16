// Package schema owns the JSON schemas extraction results must match.
// Every leaf field is the object form {value, position, confidence,
// review_required} so the UI can highlight source locations.
package schema

import (
	"encoding/json"

	"fieldlens/internal/domain"
)

// field builds the schema for one extracted field object. Value may be a
// string, number, or null; position is the extraction-space box
// [x_min, y_min, x_max, y_max] and is empty when the value is null.
func field(valueTypes ...string) map[string]any {
	types := append([]string{}, valueTypes...)
	types = append(types, "null")
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"value":           map[string]any{"type": types},
			"position":        map[string]any{"type": "array", "items": map[string]any{"type": "number"}},
			"confidence":      map[string]any{"type": "number", "minimum": 0, "maximum": 1},
			"review_required": map[string]any{"type": "boolean"},
		},
		"required": []any{"value"},
	}
}

// Defaults maps each built-in document type to its extraction schema.
// All of them share the basic_information / transactions /
// statement_summary envelope so the presenter renders every type the
// same way.
var Defaults = map[domain.DocumentType]map[string]any{
	domain.DocTypeBankStatement: {
		"type": "object",
		"properties": map[string]any{
			"basic_information": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"account_holder": field("string"),
					"account_number": field("string"),
					"ifsc_code":      field("string"),
					"branch":         field("string"),
					"currency":       field("string"),
				},
			},
			"transactions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"date":       field("string"),
						"narration":  field("string"),
						"withdrawal": field("string", "number"),
						"deposit":    field("string", "number"),
						"balance":    field("string", "number"),
					},
				},
			},
			"statement_summary": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"opening_balance":  field("string", "number"),
					"total_withdrawal": field("string", "number"),
					"total_deposit":    field("string", "number"),
					"closing_balance":  field("string", "number"),
				},
			},
		},
	},
	domain.DocTypeInvoice: {
		"type": "object",
		"properties": map[string]any{
			"basic_information": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"invoice_number": field("string"),
					"invoice_date":   field("string"),
					"due_date":       field("string"),
					"vendor_name":    field("string"),
					"vendor_address": field("string"),
					"vendor_phone":   field("string"),
				},
			},
			"transactions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"description": field("string"),
						"quantity":    field("number"),
						"unit_price":  field("number"),
						"amount":      field("number"),
					},
				},
			},
			"statement_summary": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"subtotal":    field("number"),
					"tax":         field("number"),
					"grand_total": field("number"),
				},
			},
		},
	},
	domain.DocTypeReceipt: {
		"type": "object",
		"properties": map[string]any{
			"basic_information": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"store_name":     field("string"),
					"store_address":  field("string"),
					"store_phone":    field("string"),
					"receipt_number": field("string"),
					"date":           field("string"),
					"time":           field("string"),
				},
			},
			"transactions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"item_name": field("string"),
						"quantity":  field("number"),
						"price":     field("number"),
					},
				},
			},
			"statement_summary": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"total": field("number"),
				},
			},
		},
	},
}

// Resolve picks the schema for a processing request. "auto" falls back to
// the bank statement schema (the most common document in practice);
// "custom" parses and compiles the caller-supplied schema string.
func Resolve(docType domain.DocumentType, customSchema string) (name string, s map[string]any, err error) {
	switch docType {
	case domain.DocTypeAuto:
		return string(domain.DocTypeBankStatement), Defaults[domain.DocTypeBankStatement], nil
	case domain.DocTypeCustom:
		var parsed map[string]any
		if customSchema == "" {
			return "", nil, domain.ErrInvalidSchema
		}
		if err := json.Unmarshal([]byte(customSchema), &parsed); err != nil {
			return "", nil, domain.ErrInvalidSchema
		}
		if err := Compile(parsed); err != nil {
			return "", nil, domain.ErrInvalidSchema
		}
		return string(domain.DocTypeCustom), parsed, nil
	default:
		s, ok := Defaults[docType]
		if !ok {
			return "", nil, domain.ErrUnknownDocumentType
		}
		return string(docType), s, nil
	}
}
