package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	invoicingapp "github.com/vikalp/backend/internal/application/invoicing"
	printingapp "github.com/vikalp/backend/internal/application/printing"
	"github.com/vikalp/backend/internal/domain/printing"
	"github.com/vikalp/backend/internal/domain/servicedesk"
	"github.com/vikalp/backend/internal/domain/shared"
)

// setupLookupRouter mounts the lookup handlers without any session middleware
func setupLookupRouter(desk *MockServiceDesk, exports *MockExporter) *gin.Engine {
	h := NewLookupHandler(desk, exports, func(mobile string) printingapp.DocumentResolver {
		return stubResolver{mobile: mobile}
	})
	r := gin.New()
	r.GET("/customers/lookup/:mobile", h.Lookup)
	r.GET("/customers/lookup/:mobile/invoices/:id/export", h.Export)
	return r
}

func TestLookupHandler_Lookup(t *testing.T) {
	t.Run("found without signing in", func(t *testing.T) {
		desk := new(MockServiceDesk)
		r := setupLookupRouter(desk, new(MockExporter))
		desk.On("Lookup", mock.Anything, shared.Session{}, "9876543210").Return(&invoicingapp.LookupResponse{
			Customer:   &servicedesk.Customer{ID: "c-1", Mobile: "9876543210"},
			Complaints: []servicedesk.Complaint{{ID: "k-1", Status: servicedesk.ComplaintPending}},
			Invoices:   []invoicingapp.InvoiceResponse{},
		}, nil)

		w := doRequest(t, r, http.MethodGet, "/customers/lookup/9876543210", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		_, data := decodeResponse(t, w)
		var got invoicingapp.LookupResponse
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, "c-1", got.Customer.ID)
		assert.Len(t, got.Complaints, 1)
		desk.AssertExpectations(t)
	})

	t.Run("a signed in caller still looks up anonymously", func(t *testing.T) {
		desk := new(MockServiceDesk)
		h := NewLookupHandler(desk, new(MockExporter), nil)
		r := newTestEngine()
		r.GET("/customers/lookup/:mobile", h.Lookup)
		desk.On("Lookup", mock.Anything, shared.Session{}, "9876543210").
			Return(&invoicingapp.LookupResponse{Complaints: []servicedesk.Complaint{}, Invoices: []invoicingapp.InvoiceResponse{}}, nil)

		w := doRequest(t, r, http.MethodGet, "/customers/lookup/9876543210", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		desk.AssertExpectations(t)
	})

	t.Run("unknown mobile", func(t *testing.T) {
		desk := new(MockServiceDesk)
		r := setupLookupRouter(desk, new(MockExporter))
		desk.On("Lookup", mock.Anything, shared.Session{}, "9000000000").Return(nil, shared.ErrNotFound)

		w := doRequest(t, r, http.MethodGet, "/customers/lookup/9000000000", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestLookupHandler_Export(t *testing.T) {
	t.Run("exports an invoice of the lookup", func(t *testing.T) {
		exports := new(MockExporter)
		r := setupLookupRouter(new(MockServiceDesk), exports)
		jobID := uuid.New()
		exports.On("ExportFor", mock.Anything, shared.Session{}, stubResolver{mobile: "9876543210"}, printingapp.ExportRequest{
			InvoiceID: "inv-1",
			Layout:    printing.LayoutCard,
		}).Return(&printingapp.ExportResult{
			FileName: sampleFileName,
			Data:     samplePDF,
			Strategy: printing.StrategyServer,
			JobID:    jobID,
		}, nil)

		req := newRequest(t, http.MethodGet, "/customers/lookup/9876543210/invoices/inv-1/export?layout=card")
		req.Header.Set(HeaderIdempotencyKey, "click-1")
		w := serve(r, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "SERVER", w.Header().Get(HeaderExportStrategy))
		assert.Equal(t, jobID.String(), w.Header().Get(HeaderExportJobID))
		assert.Equal(t, samplePDF, w.Body.Bytes())
		exports.AssertExpectations(t)
	})

	t.Run("an invoice outside the lookup is not found", func(t *testing.T) {
		exports := new(MockExporter)
		r := setupLookupRouter(new(MockServiceDesk), exports)
		exports.On("ExportFor", mock.Anything, shared.Session{}, stubResolver{mobile: "9876543210"}, mock.Anything).
			Return(nil, shared.NewDomainError("NOT_FOUND", "Invoice not found for this mobile number"))

		w := doRequest(t, r, http.MethodGet, "/customers/lookup/9876543210/invoices/other/export", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Empty(t, w.Header().Get(HeaderExportJobID))
	})

	t.Run("unknown layout is rejected before export", func(t *testing.T) {
		exports := new(MockExporter)
		r := setupLookupRouter(new(MockServiceDesk), exports)

		w := doRequest(t, r, http.MethodGet, "/customers/lookup/9876543210/invoices/inv-1/export?layout=poster", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		exports.AssertNotCalled(t, "ExportFor", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
