package printing

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/vikalp/backend/internal/domain/invoicing"
	"github.com/vikalp/backend/internal/domain/printing"
	"github.com/vikalp/backend/internal/domain/shared"
	infra "github.com/vikalp/backend/internal/infrastructure/printing"
	"github.com/vikalp/backend/internal/infrastructure/telemetry"
)

// DocumentResolver loads an invoice with its buyer as a printable document
type DocumentResolver interface {
	ResolveDocument(ctx context.Context, session shared.Session, invoiceID string) (*printing.InvoiceDocument, *invoicing.Invoice, error)
}

// HTMLRenderer renders a document in one layout to a complete HTML page
type HTMLRenderer interface {
	RenderDocument(ctx context.Context, doc *printing.InvoiceDocument, layout printing.Layout) (*infra.RenderTemplateResult, error)
}

// DocumentService renders invoices to HTML and, as the local document
// service, to vector PDF
type DocumentService struct {
	resolver DocumentResolver
	html     HTMLRenderer
	pdf      infra.PDFRenderer
	paper    printing.PaperSize
	margins  printing.Margins
	timeout  time.Duration
	logger   *zap.Logger
}

// NewDocumentService creates a new DocumentService. pdf may be nil, in which
// case RenderServerPDF reports the document service as unavailable.
func NewDocumentService(resolver DocumentResolver, html HTMLRenderer, pdf infra.PDFRenderer, timeout time.Duration, logger *zap.Logger) *DocumentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentService{
		resolver: resolver,
		html:     html,
		pdf:      pdf,
		paper:    printing.PaperSizeA4,
		margins:  printing.DefaultMargins(),
		timeout:  timeout,
		logger:   logger,
	}
}

// RenderHTML renders the invoice in the given layout
func (s *DocumentService) RenderHTML(ctx context.Context, session shared.Session, invoiceID string, layout printing.Layout) (*RenderedDocument, error) {
	if !layout.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown layout: "+layout.String())
	}
	doc, inv, err := s.resolver.ResolveDocument(ctx, session, invoiceID)
	if err != nil {
		return nil, err
	}
	html, err := s.renderHTML(ctx, doc, layout)
	if err != nil {
		return nil, err
	}
	return &RenderedDocument{
		InvoiceID:     inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		Layout:        layout,
		HTML:          html,
	}, nil
}

func (s *DocumentService) renderHTML(ctx context.Context, doc *printing.InvoiceDocument, layout printing.Layout) (string, error) {
	result, err := s.html.RenderDocument(ctx, doc, layout)
	if err != nil {
		return "", fmt.Errorf("failed to render %s layout: %w", layout, err)
	}
	return result.HTML, nil
}

// RenderServerPDF renders the invoice to a vector PDF with headless Chrome
func (s *DocumentService) RenderServerPDF(ctx context.Context, session shared.Session, invoiceID string, layout printing.Layout) (*PDFFile, error) {
	if s.pdf == nil {
		return nil, infra.NewRenderError(infra.ErrCodeRenderFailed, "document service is not configured", nil)
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "DocumentService", "RenderServerPDF",
		telemetry.AttrInvoiceID.String(invoiceID), telemetry.AttrLayout.String(layout.String()))
	var err error
	defer func() { telemetry.EndSpan(span, err) }()

	var rendered *RenderedDocument
	rendered, err = s.RenderHTML(ctx, session, invoiceID, layout)
	if err != nil {
		return nil, err
	}

	var result *infra.RenderResult
	result, err = s.pdf.Render(ctx, &infra.RenderRequest{
		HTML:        rendered.HTML,
		PaperSize:   s.paper,
		Orientation: printing.OrientationPortrait,
		Margins:     s.margins,
		Title:       "Invoice " + rendered.InvoiceNumber,
		Timeout:     s.timeout,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Rendered server PDF",
		zap.String("invoice_id", invoiceID),
		zap.String("layout", layout.String()),
		zap.Int("pages", result.PageCount),
		zap.Duration("duration", result.RenderDuration))

	return &PDFFile{
		FileName: printing.ExportFileName(rendered.InvoiceNumber),
		Data:     result.PDFData,
	}, nil
}
