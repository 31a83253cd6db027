package printing

import (
	"context"
	"time"

	"github.com/vikalp/backend/internal/domain/printing"
)

// RenderRequest contains the parameters for rendering HTML to PDF
type RenderRequest struct {
	// HTML is a complete invoice page
	HTML string
	// PaperSize defines the output paper dimensions
	PaperSize printing.PaperSize
	// Orientation defines portrait or landscape
	Orientation printing.Orientation
	// Margins in millimeters
	Margins printing.Margins
	// Title for the PDF document metadata
	Title string
	// Timeout overrides the default rendering timeout
	Timeout time.Duration
}

// RenderResult contains the output from PDF rendering
type RenderResult struct {
	// PDFData is the raw PDF file content
	PDFData []byte
	// PageCount is the number of pages in the PDF
	PageCount int
	// RenderDuration is how long the rendering took
	RenderDuration time.Duration
}

// PDFRenderer renders HTML to a vector PDF
type PDFRenderer interface {
	Render(ctx context.Context, req *RenderRequest) (*RenderResult, error)
	Close() error
}

// RasterRequest contains the parameters for capturing a page bitmap
type RasterRequest struct {
	HTML      string
	PaperSize printing.PaperSize
	// Scale is the device pixel ratio of the capture, at least printing.MinRasterScale
	Scale float64
	// Timeout overrides the default rasterize timeout
	Timeout time.Duration
}

// RasterResult is a full-page PNG capture of a rendered document
type RasterResult struct {
	PNG    []byte
	Scale  float64
	Width  int
	Height int
	// RenderDuration covers loading, settling, and capturing
	RenderDuration time.Duration
}

// Rasterizer lays out HTML on an off-screen surface and captures it as a bitmap
type Rasterizer interface {
	Rasterize(ctx context.Context, req *RasterRequest) (*RasterResult, error)
	Close() error
}

// RasterAssembler wraps a captured bitmap in a paged PDF document
type RasterAssembler interface {
	Assemble(ctx context.Context, raster *RasterResult, paper printing.PaperSize, title string) ([]byte, error)
}

// RenderError represents an error during PDF rendering
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// Error codes for rendering failures
const (
	ErrCodeRenderTimeout    = "RENDER_TIMEOUT"
	ErrCodeRenderFailed     = "RENDER_FAILED"
	ErrCodeInvalidHTML      = "INVALID_HTML"
	ErrCodeNotSettled       = "RENDER_NOT_SETTLED"
	ErrCodeRasterFailed     = "RASTER_FAILED"
	ErrCodeAssemblyFailed   = "ASSEMBLY_FAILED"
	ErrCodeInvalidPaperSize = "INVALID_PAPER_SIZE"
	ErrCodeStorageFailed    = "STORAGE_FAILED"
)

// NewRenderError creates a new RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}
