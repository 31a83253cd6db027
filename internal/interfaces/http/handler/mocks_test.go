package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	invoicingapp "github.com/vikalp/backend/internal/application/invoicing"
	printingapp "github.com/vikalp/backend/internal/application/printing"
	"github.com/vikalp/backend/internal/domain/invoicing"
	"github.com/vikalp/backend/internal/domain/printing"
	"github.com/vikalp/backend/internal/domain/servicedesk"
	"github.com/vikalp/backend/internal/domain/shared"
	"github.com/vikalp/backend/internal/interfaces/http/dto"
	"github.com/vikalp/backend/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// testSession is the caller every handler test runs as
var testSession = shared.Session{Token: "token-abc", UserID: "u-1", Username: "counter"}

// =============================================================================
// Mocks
// =============================================================================

// MockInvoiceService is a mock implementation of InvoiceService
type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) Calculate(items []invoicing.LineItem) invoicing.Totals {
	args := m.Called(items)
	return args.Get(0).(invoicing.Totals)
}

func (m *MockInvoiceService) Submit(ctx context.Context, session shared.Session, draft *invoicing.Draft) (*invoicingapp.InvoiceResponse, error) {
	args := m.Called(ctx, session, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoicingapp.InvoiceResponse), args.Error(1)
}

func (m *MockInvoiceService) Get(ctx context.Context, session shared.Session, id string) (*invoicingapp.InvoiceResponse, error) {
	args := m.Called(ctx, session, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoicingapp.InvoiceResponse), args.Error(1)
}

func (m *MockInvoiceService) List(ctx context.Context, session shared.Session, query string) ([]invoicingapp.InvoiceResponse, error) {
	args := m.Called(ctx, session, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]invoicingapp.InvoiceResponse), args.Error(1)
}

func (m *MockInvoiceService) Delete(ctx context.Context, session shared.Session, id string) error {
	args := m.Called(ctx, session, id)
	return args.Error(0)
}

// MockDocumentRenderer is a mock implementation of DocumentRenderer
type MockDocumentRenderer struct {
	mock.Mock
}

func (m *MockDocumentRenderer) RenderHTML(ctx context.Context, session shared.Session, invoiceID string, layout printing.Layout) (*printingapp.RenderedDocument, error) {
	args := m.Called(ctx, session, invoiceID, layout)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*printingapp.RenderedDocument), args.Error(1)
}

func (m *MockDocumentRenderer) RenderServerPDF(ctx context.Context, session shared.Session, invoiceID string, layout printing.Layout) (*printingapp.PDFFile, error) {
	args := m.Called(ctx, session, invoiceID, layout)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*printingapp.PDFFile), args.Error(1)
}

// MockExporter is a mock implementation of Exporter
type MockExporter struct {
	mock.Mock
}

func (m *MockExporter) Export(ctx context.Context, session shared.Session, req printingapp.ExportRequest) (*printingapp.ExportResult, error) {
	args := m.Called(ctx, session, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*printingapp.ExportResult), args.Error(1)
}

func (m *MockExporter) ExportFor(ctx context.Context, session shared.Session, resolver printingapp.DocumentResolver, req printingapp.ExportRequest) (*printingapp.ExportResult, error) {
	args := m.Called(ctx, session, resolver, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*printingapp.ExportResult), args.Error(1)
}

func (m *MockExporter) GetJob(ctx context.Context, id uuid.UUID) (*printingapp.ExportJobResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*printingapp.ExportJobResponse), args.Error(1)
}

// stubResolver stands in for a lookup's document resolver
type stubResolver struct {
	mobile string
}

func (r stubResolver) ResolveDocument(context.Context, shared.Session, string) (*printing.InvoiceDocument, *invoicing.Invoice, error) {
	return nil, nil, shared.ErrNotFound
}

// MockServiceDesk is a mock implementation of ServiceDesk
type MockServiceDesk struct {
	mock.Mock
}

func (m *MockServiceDesk) RegisterCustomer(ctx context.Context, session shared.Session, req invoicingapp.CreateCustomerRequest) (*servicedesk.Customer, error) {
	args := m.Called(ctx, session, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*servicedesk.Customer), args.Error(1)
}

func (m *MockServiceDesk) UpdateCustomer(ctx context.Context, session shared.Session, id string, req invoicingapp.UpdateCustomerRequest) (*servicedesk.Customer, error) {
	args := m.Called(ctx, session, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*servicedesk.Customer), args.Error(1)
}

func (m *MockServiceDesk) DeleteCustomer(ctx context.Context, session shared.Session, id string) error {
	args := m.Called(ctx, session, id)
	return args.Error(0)
}

func (m *MockServiceDesk) RaiseComplaint(ctx context.Context, session shared.Session, req invoicingapp.RaiseComplaintRequest) (*servicedesk.Complaint, error) {
	args := m.Called(ctx, session, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*servicedesk.Complaint), args.Error(1)
}

func (m *MockServiceDesk) Lookup(ctx context.Context, session shared.Session, mobile string) (*invoicingapp.LookupResponse, error) {
	args := m.Called(ctx, session, mobile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoicingapp.LookupResponse), args.Error(1)
}

func (m *MockServiceDesk) DraftFromComplaint(ctx context.Context, session shared.Session, complaintID string) (*invoicingapp.DraftResponse, error) {
	args := m.Called(ctx, session, complaintID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoicingapp.DraftResponse), args.Error(1)
}

func (m *MockServiceDesk) UpdateComplaintStatus(ctx context.Context, session shared.Session, complaintID string, status servicedesk.ComplaintStatus) (*servicedesk.Complaint, error) {
	args := m.Called(ctx, session, complaintID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*servicedesk.Complaint), args.Error(1)
}

func (m *MockServiceDesk) DashboardStats(ctx context.Context, session shared.Session) (*servicedesk.DashboardStats, error) {
	args := m.Called(ctx, session)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*servicedesk.DashboardStats), args.Error(1)
}

// =============================================================================
// Helpers
// =============================================================================

// withTestSession stands in for the JWT middleware
func withTestSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.RequestIDKey, "req-test")
		c.Set(middleware.SessionKey, testSession)
		c.Set(middleware.JWTUserIDKey, testSession.UserID)
		c.Next()
	}
}

// newTestEngine returns an engine with the test session installed
func newTestEngine() *gin.Engine {
	r := gin.New()
	r.Use(withTestSession())
	return r
}

// doRequest performs a request, encoding body as JSON when it is not nil
func doRequest(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// decodeResponse decodes the standard envelope, leaving data raw
func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) (dto.Response, json.RawMessage) {
	t.Helper()
	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   *dto.ErrorInfo  `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope), w.Body.String())
	return dto.Response{Success: envelope.Success, Error: envelope.Error}, envelope.Data
}

// newRequest builds a request without a body
func newRequest(t *testing.T, method, path string) *http.Request {
	t.Helper()
	return httptest.NewRequest(method, path, nil)
}

// serve runs req through r
func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
