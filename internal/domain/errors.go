package domain

import "errors"

var (
	ErrNotFound            = errors.New("resource not found")
	ErrDocumentNotFound    = errors.New("document not found")
	ErrUnsupportedFileType = errors.New("only PDF files are supported")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrUnreadablePDF       = errors.New("file is not a readable PDF")
	ErrUploadInFlight      = errors.New("an upload is already in progress")
	ErrInvalidSchema       = errors.New("custom schema is not a valid JSON schema")
	ErrUnknownModel        = errors.New("unknown model name")
	ErrUnknownDocumentType = errors.New("unknown document type")
	ErrNoDocumentLoaded    = errors.New("no document has been processed yet")
	ErrNoResultData        = errors.New("document has no extraction result")
)
