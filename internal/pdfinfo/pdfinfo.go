// Package pdfinfo validates uploaded PDFs and reports their page count
// before any provider call is made.
package pdfinfo

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"fieldlens/internal/domain"
	"fieldlens/internal/port"
)

// Inspector implements port.PDFInspector using pdfcpu.
type Inspector struct {
	conf *model.Configuration
}

// NewInspector creates a pdfcpu-backed inspector.
func NewInspector() *Inspector {
	conf := model.NewDefaultConfiguration()
	// Relaxed validation: provider-generated statements are frequently
	// slightly out of spec but still render fine.
	conf.ValidationMode = model.ValidationRelaxed
	return &Inspector{conf: conf}
}

// Inspect parses data as a PDF and returns its page count. An unreadable
// or empty document maps to domain.ErrUnreadablePDF so the orchestrator
// can reject it locally.
func (i *Inspector) Inspect(data []byte) (*port.PDFInfo, error) {
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), i.conf)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnreadablePDF, err)
	}
	if ctx.PageCount == 0 {
		return nil, fmt.Errorf("%w: document has no pages", domain.ErrUnreadablePDF)
	}
	return &port.PDFInfo{PageCount: ctx.PageCount}, nil
}
