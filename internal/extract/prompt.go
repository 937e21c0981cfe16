package extract

import (
	"encoding/json"
	"fmt"

	"fieldlens/internal/domain"
)

// systemPrompts customize extraction per document type.
var systemPrompts = map[domain.DocumentType]string{
	domain.DocTypeBankStatement: `Extract bank statement information including:
- Account holder name and details
- Account number, IFSC code, branch
- All transactions with dates, descriptions, amounts
- Statement summary with totals
Be precise with amounts and dates. Handle multiple pages correctly.`,
	domain.DocTypeInvoice: `Extract invoice information including:
- Invoice number, date, due date
- Vendor/company information
- All line items with descriptions, quantities, prices
- Subtotal, tax, and total amounts
Be precise with all numerical values.`,
	domain.DocTypeReceipt: `Extract receipt information including:
- Store/vendor information
- Transaction date and time
- All items with names, quantities, prices
- Total amount
Be precise with all numerical values.`,
}

const basePrompt = "You are an expert at extracting structured information from documents. "

const defaultPrompt = `Extract all relevant information from the document and structure it according to the provided schema.
Be precise and thorough in your extraction.`

// SystemPrompt returns the extraction system prompt for a document type.
func SystemPrompt(docType domain.DocumentType) string {
	p, ok := systemPrompts[docType]
	if !ok {
		p = defaultPrompt
	}
	return basePrompt + "\n" + p
}

// fieldObjectContract is appended to every structuring prompt so providers
// emit fields in the {value, position, confidence, review_required} form
// the presenter and coordinate mapper consume.
const fieldObjectContract = `MANDATORY FIELD FORMAT:
Every extracted field must be an object with: value, position, confidence, review_required.
- position is the bounding box [x_min, y_min, x_max, y_max] in source-image pixels
- a field without a value uses: {"value": null, "position": [], "confidence": 1.0, "review_required": false}
Never return a direct value like "balance": 29293.0 - always the object form.`

// BuildStructuringPrompt produces the user prompt for the two-step
// pipeline: OCR text in, schema-shaped JSON out.
func BuildStructuringPrompt(text string, schemaMap map[string]any, extractTables bool) (string, error) {
	schemaJSON, err := json.MarshalIndent(schemaMap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling schema: %w", err)
	}
	tables := ""
	if !extractTables {
		tables = "\nDo not extract transaction rows; return an empty transactions array.\n"
	}
	return fmt.Sprintf(`Extract information from the following document text and return it as JSON that matches the provided schema.

Document Text:
%s

Schema:
%s

%s%s
Return only valid JSON that matches the schema exactly. Do not include any additional text or explanations.`,
		text, schemaJSON, fieldObjectContract, tables), nil
}

// BuildVisionPrompt produces the prompt for the single-step vision
// pipeline, where the provider sees the PDF pages directly and must report
// positions itself.
func BuildVisionPrompt(docType domain.DocumentType, schemaMap map[string]any, extractTables bool) (string, error) {
	schemaJSON, err := json.MarshalIndent(schemaMap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling schema: %w", err)
	}
	tables := ""
	if !extractTables {
		tables = "\nDo not extract transaction rows; return an empty transactions array.\n"
	}
	return fmt.Sprintf(`%s

You can see the document pages directly. Extract structured information according to this JSON schema:

%s

%s

When OCR splits a single phrase or amount across fragments, merge the fragments and report the combined bounding box [leftmost_x, topmost_y, rightmost_x, bottommost_y].
Process every page; extract every transaction, not just the first few.
%s
Return only valid JSON matching the schema.`,
		SystemPrompt(docType), schemaJSON, fieldObjectContract, tables), nil
}
