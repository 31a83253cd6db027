package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	printingapp "github.com/vikalp/backend/internal/application/printing"
	"github.com/vikalp/backend/internal/domain/printing"
	"github.com/vikalp/backend/internal/domain/shared"
	"github.com/vikalp/backend/internal/interfaces/http/dto"
)

const sampleFileName = "Invoice_VE-2025-26-0007.pdf"

var samplePDF = []byte("%PDF-1.4\n%sample\n%%EOF")

func setupDocumentRouter(docs *MockDocumentRenderer, exports *MockExporter) *gin.Engine {
	h := NewDocumentHandler(docs, exports)
	r := newTestEngine()
	r.GET("/invoices/:id/document", h.Document)
	r.GET("/invoices/:id/download-pdf", h.DownloadPDF)
	r.GET("/invoices/:id/export", h.Export)
	r.GET("/exports/:id", h.GetExportJob)
	return r
}

func TestDocumentHandler_Document(t *testing.T) {
	t.Run("renders the requested layout", func(t *testing.T) {
		docs := new(MockDocumentRenderer)
		r := setupDocumentRouter(docs, new(MockExporter))
		docs.On("RenderHTML", mock.Anything, testSession, "42", printing.LayoutCard).
			Return(&printingapp.RenderedDocument{InvoiceID: "42", Layout: printing.LayoutCard, HTML: "<html>card</html>"}, nil)

		w := doRequest(t, r, http.MethodGet, "/invoices/42/document?layout=CARD", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
		assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
		assert.Equal(t, "<html>card</html>", w.Body.String())
		docs.AssertExpectations(t)
	})

	t.Run("unknown layout", func(t *testing.T) {
		docs := new(MockDocumentRenderer)
		r := setupDocumentRouter(docs, new(MockExporter))

		w := doRequest(t, r, http.MethodGet, "/invoices/42/document?layout=A5", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		docs.AssertNotCalled(t, "RenderHTML", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestDocumentHandler_DownloadPDF(t *testing.T) {
	docs := new(MockDocumentRenderer)
	r := setupDocumentRouter(docs, new(MockExporter))
	docs.On("RenderServerPDF", mock.Anything, testSession, "42", printing.LayoutStatutory).
		Return(&printingapp.PDFFile{FileName: sampleFileName, Data: samplePDF}, nil)

	w := doRequest(t, r, http.MethodGet, "/invoices/42/download-pdf", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Invoice_VE-2025-26-0007.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, samplePDF, w.Body.Bytes())
	docs.AssertExpectations(t)
}

func TestDocumentHandler_Export(t *testing.T) {
	t.Run("server strategy", func(t *testing.T) {
		exports := new(MockExporter)
		r := setupDocumentRouter(new(MockDocumentRenderer), exports)
		jobID := uuid.New()
		exports.On("Export", mock.Anything, testSession, printingapp.ExportRequest{
			InvoiceID: "42",
			Layout:    printing.LayoutStatutory,
		}).Return(&printingapp.ExportResult{
			FileName: sampleFileName,
			Data:     samplePDF,
			Strategy: printing.StrategyServer,
			JobID:    jobID,
		}, nil)

		w := doRequest(t, r, http.MethodGet, "/invoices/42/export", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "SERVER", w.Header().Get(HeaderExportStrategy))
		assert.Equal(t, jobID.String(), w.Header().Get(HeaderExportJobID))
		assert.Empty(t, w.Header().Get(HeaderArchiveURL))
		assert.Equal(t, `attachment; filename="Invoice_VE-2025-26-0007.pdf"`, w.Header().Get("Content-Disposition"))
		assert.Equal(t, samplePDF, w.Body.Bytes())
		exports.AssertExpectations(t)
	})

	t.Run("client strategy with archive and idempotency key", func(t *testing.T) {
		exports := new(MockExporter)
		r := setupDocumentRouter(new(MockDocumentRenderer), exports)
		exports.On("Export", mock.Anything, testSession, printingapp.ExportRequest{
			InvoiceID:      "42",
			Layout:         printing.LayoutCard,
			IdempotencyKey: "click-1",
		}).Return(&printingapp.ExportResult{
			FileName:   sampleFileName,
			Data:       samplePDF,
			Strategy:   printing.StrategyClient,
			JobID:      uuid.New(),
			ArchiveURL: "file:///var/invoices/42.pdf",
		}, nil)

		req := newRequest(t, http.MethodGet, "/invoices/42/export?layout=card")
		req.Header.Set(HeaderIdempotencyKey, "  click-1 ")
		w := serve(r, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "CLIENT", w.Header().Get(HeaderExportStrategy))
		assert.Equal(t, "file:///var/invoices/42.pdf", w.Header().Get(HeaderArchiveURL))
		exports.AssertExpectations(t)
	})

	t.Run("both strategies failed", func(t *testing.T) {
		exports := new(MockExporter)
		r := setupDocumentRouter(new(MockDocumentRenderer), exports)
		jobID := uuid.New()
		exports.On("Export", mock.Anything, testSession, mock.Anything).
			Return(nil, &printingapp.ExportError{JobID: jobID, Stage: "rasterize", Err: errors.New("chrome crashed")})

		w := doRequest(t, r, http.MethodGet, "/invoices/42/export", nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, jobID.String(), w.Header().Get(HeaderExportJobID))
		resp, _ := decodeResponse(t, w)
		assert.Equal(t, dto.ErrCodeExportFailed, resp.Error.Code)
		assert.Equal(t, "Failed to generate PDF. Please try again.", resp.Error.Message)
	})

	t.Run("export already running", func(t *testing.T) {
		exports := new(MockExporter)
		r := setupDocumentRouter(new(MockDocumentRenderer), exports)
		exports.On("Export", mock.Anything, testSession, mock.Anything).
			Return(nil, shared.NewDomainError("CONFLICT", "Export already in progress"))

		w := doRequest(t, r, http.MethodGet, "/invoices/42/export", nil)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Empty(t, w.Header().Get(HeaderExportJobID))
	})
}

func TestDocumentHandler_GetExportJob(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		exports := new(MockExporter)
		r := setupDocumentRouter(new(MockDocumentRenderer), exports)
		jobID := uuid.New()
		exports.On("GetJob", mock.Anything, jobID).
			Return(&printingapp.ExportJobResponse{ID: jobID.String(), Status: "COMPLETED", Strategy: "SERVER"}, nil)

		w := doRequest(t, r, http.MethodGet, "/exports/"+jobID.String(), nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"COMPLETED"`)
		exports.AssertExpectations(t)
	})

	t.Run("malformed id", func(t *testing.T) {
		exports := new(MockExporter)
		r := setupDocumentRouter(new(MockDocumentRenderer), exports)

		w := doRequest(t, r, http.MethodGet, "/exports/not-a-uuid", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		exports.AssertNotCalled(t, "GetJob", mock.Anything, mock.Anything)
	})

	t.Run("unknown job", func(t *testing.T) {
		exports := new(MockExporter)
		r := setupDocumentRouter(new(MockDocumentRenderer), exports)
		exports.On("GetJob", mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound)

		w := doRequest(t, r, http.MethodGet, "/exports/"+uuid.NewString(), nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
