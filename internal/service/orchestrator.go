// Package service coordinates the upload lifecycle: local validation,
// strategy dispatch, result bookkeeping, and persistence.
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"fieldlens/internal/domain"
	"fieldlens/internal/extract"
	"fieldlens/internal/port"
	"fieldlens/internal/schema"
)

// UploadRequest carries one processing submission.
type UploadRequest struct {
	Filename      string
	FileBytes     []byte
	ModelName     domain.ModelName
	DocumentType  domain.DocumentType
	CustomSchema  string
	ExtractTables bool
}

// UploadOrchestrator owns the single-document upload lifecycle. At most
// one upload runs at a time; a newly accepted upload supersedes any
// earlier result.
type UploadOrchestrator interface {
	Submit(ctx context.Context, req UploadRequest) (*domain.ExtractionResult, error)
	State() domain.UploadState
	Result() *domain.ExtractionResult
}

// SelectionResetter clears the field selection when a new document
// replaces the current one.
type SelectionResetter interface {
	Reset()
}

// Orchestrator implements UploadOrchestrator.
type Orchestrator struct {
	registry  *extract.Registry
	inspector port.PDFInspector
	selection SelectionResetter
	repo      port.DocumentRepository
	storage   port.ObjectStorage
	bucket    string
	maxBytes  int64

	mu     sync.Mutex
	seq    uint64
	state  domain.UploadState
	result *domain.ExtractionResult
}

// OrchestratorDeps bundles the orchestrator's collaborators. Repo and
// Storage may be nil; persistence is then skipped.
type OrchestratorDeps struct {
	Registry  *extract.Registry
	Inspector port.PDFInspector
	Selection SelectionResetter
	Repo      port.DocumentRepository
	Storage   port.ObjectStorage
	Bucket    string
	MaxBytes  int64
}

func NewOrchestrator(deps OrchestratorDeps) *Orchestrator {
	return &Orchestrator{
		registry:  deps.Registry,
		inspector: deps.Inspector,
		selection: deps.Selection,
		repo:      deps.Repo,
		storage:   deps.Storage,
		bucket:    deps.Bucket,
		maxBytes:  deps.MaxBytes,
		state:     domain.UploadIdle,
	}
}

// State returns the current upload lifecycle state.
func (o *Orchestrator) State() domain.UploadState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Result returns the result of the most recent completed upload, or nil.
func (o *Orchestrator) Result() *domain.ExtractionResult {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.result
}

// Submit validates and processes one upload. Validation failures return
// a domain sentinel error before any provider call or state change.
// Provider failures do not return an error; they produce an error
// envelope, which also becomes the current result.
func (o *Orchestrator) Submit(ctx context.Context, req UploadRequest) (*domain.ExtractionResult, error) {
	input, err := o.validate(req)
	if err != nil {
		log.Printf("uploadOrchestrator.Submit: rejected %q: %v", req.Filename, err)
		return nil, err
	}

	extractor, err := o.registry.Resolve(req.ModelName)
	if err != nil {
		return nil, err
	}

	mySeq, err := o.takeSlot()
	if err != nil {
		return nil, err
	}

	log.Printf("uploadOrchestrator.Submit: processing %q (model=%s, type=%s, pages=%d)",
		req.Filename, req.ModelName, req.DocumentType, input.Pages)

	// An accepted upload runs to completion and its result lands in the
	// session state even if the submitting client has gone away, so the
	// extraction and persistence must not ride the request lifetime.
	runCtx := context.WithoutCancel(ctx)

	start := time.Now()
	result, extractErr := extractor.Extract(runCtx, input)
	elapsed := time.Since(start).Milliseconds()

	if extractErr != nil {
		result = &domain.ExtractionResult{
			Status:         domain.StatusError,
			Error:          extractErr.Error(),
			PagesProcessed: input.Pages,
		}
	}
	result.ProcessingTimeMS = elapsed

	applied := o.applyResult(mySeq, result)
	if !applied {
		// A newer upload started while this one was in flight; its
		// result must not overwrite the newer document's state.
		log.Printf("uploadOrchestrator.Submit: discarding superseded result for %q", req.Filename)
		return result, nil
	}

	o.persist(runCtx, req, input, result)
	return result, nil
}

// validate runs every local check before any slot is taken or provider
// called: extension, magic bytes, size cap, schema, and PDF readability.
func (o *Orchestrator) validate(req UploadRequest) (port.ExtractInput, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(req.Filename)), ".")
	if _, ok := domain.AllowedExtensions[ext]; !ok {
		return port.ExtractInput{}, domain.ErrUnsupportedFileType
	}

	if len(req.FileBytes) == 0 {
		return port.ExtractInput{}, fmt.Errorf("%w: empty file", domain.ErrUnreadablePDF)
	}
	if o.maxBytes > 0 && int64(len(req.FileBytes)) > o.maxBytes {
		return port.ExtractInput{}, domain.ErrFileTooLarge
	}

	if detected := http.DetectContentType(req.FileBytes); !domain.AllowedContentTypes[detected] {
		return port.ExtractInput{}, domain.ErrUnsupportedFileType
	}

	schemaName, schemaMap, err := schema.Resolve(req.DocumentType, req.CustomSchema)
	if err != nil {
		return port.ExtractInput{}, err
	}

	info, err := o.inspector.Inspect(req.FileBytes)
	if err != nil {
		return port.ExtractInput{}, err
	}

	return port.ExtractInput{
		FileBytes:     req.FileBytes,
		Filename:      req.Filename,
		DocumentType:  req.DocumentType,
		Schema:        schemaMap,
		SchemaName:    schemaName,
		ExtractTables: req.ExtractTables,
		Pages:         info.PageCount,
	}, nil
}

// takeSlot claims the single in-flight slot, clears the prior result,
// and resets the selection for the new document.
func (o *Orchestrator) takeSlot() (uint64, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == domain.UploadUploading {
		return 0, domain.ErrUploadInFlight
	}
	o.seq++
	o.state = domain.UploadUploading
	o.result = nil
	if o.selection != nil {
		o.selection.Reset()
	}
	return o.seq, nil
}

// applyResult installs the result if its upload is still the current
// one. Returns false when the result was superseded.
func (o *Orchestrator) applyResult(mySeq uint64, result *domain.ExtractionResult) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.seq != mySeq {
		return false
	}
	o.result = result
	if result.Succeeded() {
		o.state = domain.UploadSuccess
	} else {
		o.state = domain.UploadFailed
	}
	return true
}

// persist records the processed document and archives the original.
// Both are best effort; a storage hiccup never fails a finished extraction.
func (o *Orchestrator) persist(ctx context.Context, req UploadRequest, input port.ExtractInput, result *domain.ExtractionResult) {
	if o.repo == nil {
		return
	}

	doc := &domain.Document{
		ID:               uuid.New(),
		OriginalName:     req.Filename,
		FileSize:         int64(len(req.FileBytes)),
		ModelName:        req.ModelName,
		DocumentType:     req.DocumentType,
		SchemaUsed:       input.SchemaName,
		ProcessingTimeMS: result.ProcessingTimeMS,
		PagesProcessed:   result.PagesProcessed,
		CreatedAt:        time.Now().UTC(),
	}

	canvas := domain.DefaultCanvas
	if result.Canvas != nil {
		canvas = *result.Canvas
	}
	doc.CanvasWidth = canvas.Width
	doc.CanvasHeight = canvas.Height

	if result.Succeeded() {
		doc.Status = domain.DocumentProcessed
		doc.ConfidenceScore = result.ConfidenceScore
		if raw, err := json.Marshal(result); err == nil {
			doc.Result = raw
		}
	} else {
		doc.Status = domain.DocumentFailed
		doc.Error = result.Error
	}

	if o.storage != nil && result.Succeeded() {
		key := fmt.Sprintf("documents/%s/%s", doc.ID, req.Filename)
		_, err := o.storage.Upload(ctx, port.UploadInput{
			Bucket:      o.bucket,
			Key:         key,
			Body:        bytes.NewReader(req.FileBytes),
			ContentType: "application/pdf",
			Size:        int64(len(req.FileBytes)),
		})
		if err != nil {
			log.Printf("uploadOrchestrator.persist: archiving %q failed: %v", req.Filename, err)
		} else {
			doc.S3Bucket = o.bucket
			doc.S3Key = key
		}
	}

	if err := o.repo.Create(ctx, doc); err != nil {
		log.Printf("uploadOrchestrator.persist: recording document %s failed: %v", doc.ID, err)
	}
}
