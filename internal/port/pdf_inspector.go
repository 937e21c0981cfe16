package port

// PDFInfo holds the facts learned from local PDF inspection.
type PDFInfo struct {
	PageCount int
}

// PDFInspector validates an uploaded PDF and reports its page count
// before any provider call is made.
type PDFInspector interface {
	Inspect(data []byte) (*PDFInfo, error)
}
