package printing_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	app "github.com/vikalp/backend/internal/application/printing"
	domain "github.com/vikalp/backend/internal/domain/printing"
	"github.com/vikalp/backend/internal/domain/shared"
	infra "github.com/vikalp/backend/internal/infrastructure/printing"
)

type MockPDFRenderer struct {
	mock.Mock
}

func (m *MockPDFRenderer) Render(ctx context.Context, req *infra.RenderRequest) (*infra.RenderResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*infra.RenderResult), args.Error(1)
}

func (m *MockPDFRenderer) Close() error {
	return nil
}

func newDocumentService(t *testing.T, pdf infra.PDFRenderer, resolver app.DocumentResolver) *app.DocumentService {
	t.Helper()
	engine, err := infra.NewTemplateEngine()
	require.NoError(t, err)
	return app.NewDocumentService(resolver, engine, pdf, 5*time.Second, nil)
}

func TestDocumentService_RenderHTML(t *testing.T) {
	svc := newDocumentService(t, nil, &fakeResolver{})

	t.Run("statutory layout", func(t *testing.T) {
		doc, err := svc.RenderHTML(context.Background(), session, "inv-7", domain.LayoutStatutory)
		require.NoError(t, err)

		assert.Equal(t, "inv-7", doc.InvoiceID)
		assert.Equal(t, "VE/2025-26/0007", doc.InvoiceNumber)
		assert.Equal(t, domain.LayoutStatutory, doc.Layout)
		assert.Contains(t, doc.HTML, "Tax Invoice")
		assert.Contains(t, doc.HTML, "Ravi Patel")
		assert.Contains(t, doc.HTML, "1,180.00")
	})

	t.Run("card layout shows the same total", func(t *testing.T) {
		doc, err := svc.RenderHTML(context.Background(), session, "inv-7", domain.LayoutCard)
		require.NoError(t, err)
		assert.Contains(t, doc.HTML, "1,180.00")
	})

	t.Run("unknown layout", func(t *testing.T) {
		_, err := svc.RenderHTML(context.Background(), session, "inv-7", domain.Layout("POSTER"))
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("unknown invoice", func(t *testing.T) {
		svc := newDocumentService(t, nil, &fakeResolver{err: shared.ErrNotFound})
		_, err := svc.RenderHTML(context.Background(), session, "missing", domain.LayoutCard)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestDocumentService_RenderServerPDF(t *testing.T) {
	t.Run("renders a vector PDF named after the invoice", func(t *testing.T) {
		pdf := new(MockPDFRenderer)
		pdf.On("Render", mock.Anything, mock.MatchedBy(func(req *infra.RenderRequest) bool {
			return req.PaperSize == domain.PaperSizeA4 &&
				req.Title == "Invoice VE/2025-26/0007" &&
				req.Timeout == 5*time.Second &&
				strings.Contains(req.HTML, "Ravi Patel")
		})).Return(&infra.RenderResult{PDFData: serverPDF, PageCount: 1}, nil)

		svc := newDocumentService(t, pdf, &fakeResolver{})
		file, err := svc.RenderServerPDF(context.Background(), session, "inv-7", domain.LayoutStatutory)
		require.NoError(t, err)

		assert.Equal(t, "Invoice_VE-2025-26-0007.pdf", file.FileName)
		assert.Equal(t, serverPDF, file.Data)
		pdf.AssertExpectations(t)
	})

	t.Run("renderer failure is returned", func(t *testing.T) {
		pdf := new(MockPDFRenderer)
		pdf.On("Render", mock.Anything, mock.Anything).
			Return(nil, infra.NewRenderError(infra.ErrCodeRenderTimeout, "timed out", context.DeadlineExceeded))

		svc := newDocumentService(t, pdf, &fakeResolver{})
		_, err := svc.RenderServerPDF(context.Background(), session, "inv-7", domain.LayoutCard)

		var renderErr *infra.RenderError
		require.ErrorAs(t, err, &renderErr)
		assert.Equal(t, infra.ErrCodeRenderTimeout, renderErr.Code)
	})

	t.Run("without a renderer", func(t *testing.T) {
		svc := newDocumentService(t, nil, &fakeResolver{})
		_, err := svc.RenderServerPDF(context.Background(), session, "inv-7", domain.LayoutCard)

		var renderErr *infra.RenderError
		require.ErrorAs(t, err, &renderErr)
		assert.Equal(t, infra.ErrCodeRenderFailed, renderErr.Code)
	})
}
