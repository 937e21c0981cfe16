package domain

// Envelope status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ModelName selects the extraction strategy for a processing request.
type ModelName string

const (
	ModelMistralOCR   ModelName = "mistral-ocr"
	ModelGeminiVision ModelName = "gemini-vision"
	ModelGeminiPro    ModelName = "gemini-1.5-pro"
)

// KnownModels enumerates the accepted model_name values.
var KnownModels = map[ModelName]bool{
	ModelMistralOCR:   true,
	ModelGeminiVision: true,
	ModelGeminiPro:    true,
}

// DocumentType selects the extraction schema for a processing request.
type DocumentType string

const (
	DocTypeAuto          DocumentType = "auto"
	DocTypeBankStatement DocumentType = "bank_statement"
	DocTypeInvoice       DocumentType = "invoice"
	DocTypeReceipt       DocumentType = "receipt"
	DocTypeCustom        DocumentType = "custom"
)

// KnownDocumentTypes enumerates the accepted document_type values.
var KnownDocumentTypes = map[DocumentType]bool{
	DocTypeAuto:          true,
	DocTypeBankStatement: true,
	DocTypeInvoice:       true,
	DocTypeReceipt:       true,
	DocTypeCustom:        true,
}

// UploadState is the orchestrator lifecycle for the current upload.
type UploadState string

const (
	UploadIdle      UploadState = "idle"
	UploadUploading UploadState = "uploading"
	UploadSuccess   UploadState = "success"
	UploadFailed    UploadState = "failed"
)

// DocumentStatus is the terminal state of a persisted document record.
type DocumentStatus string

const (
	DocumentProcessed DocumentStatus = "processed"
	DocumentFailed    DocumentStatus = "failed"
)

// AllowedExtensions maps accepted upload extensions (without dot) to their
// MIME content type. Only PDF input is supported.
var AllowedExtensions = map[string]string{
	"pdf": "application/pdf",
}

// AllowedContentTypes is the set of magic-byte detected content types
// accepted for upload.
var AllowedContentTypes = map[string]bool{
	"application/pdf": true,
}
