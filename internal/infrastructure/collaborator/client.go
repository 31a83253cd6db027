// Package collaborator is the REST client for the shop's record store,
// which owns customers, complaints, and invoices.
package collaborator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"

	"github.com/vikalp/backend/internal/domain/shared"
	"github.com/vikalp/backend/internal/infrastructure/config"
)

const (
	// maxResponseSize caps JSON responses
	maxResponseSize = 10 * 1024 * 1024
	// maxPDFSize caps downloaded documents
	maxPDFSize = 50 * 1024 * 1024

	defaultTimeout = 15 * time.Second
)

var pdfMagic = []byte("%PDF-")

// Client talks to the record store over HTTP. It is safe for concurrent use.
type Client struct {
	baseURL     string
	documentURL string
	httpClient  *http.Client
	logger      *zap.Logger
}

// Option configures the client
type Option func(*Client)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDocumentBaseURL points DownloadInvoicePDF at a document service other
// than the record store. An empty u keeps the record store.
func WithDocumentBaseURL(u string) Option {
	return func(c *Client) {
		if u = strings.TrimRight(u, "/"); u != "" {
			c.documentURL = u
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a client for the record store at cfg.BaseURL
func NewClient(cfg config.CollaboratorConfig, opts ...Option) (*Client, error) {
	base := strings.TrimRight(cfg.BaseURL, "/")
	u, err := url.Parse(base)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid collaborator base URL %q", cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	c := &Client{
		baseURL:     base,
		documentURL: base,
		httpClient:  &http.Client{Timeout: timeout},
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the record store base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// DocumentURL returns the base URL DownloadInvoicePDF is sent to. It is the
// record store unless WithDocumentBaseURL moved it.
func (c *Client) DocumentURL() string {
	return c.documentURL
}

// do sends one request and decodes a JSON response into out when out is non-nil
func (c *Client) do(ctx context.Context, session shared.Session, method, path string, body, out any) error {
	resp, op, err := c.send(ctx, session, c.baseURL, method, path, body, "application/json")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return &CollaboratorError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("%w: %v", ErrCollaboratorUnavailable, err)}
	}
	if resp.StatusCode >= 400 {
		return statusError(op, resp.StatusCode, data)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &CollaboratorError{Op: op, StatusCode: resp.StatusCode, Message: "failed to decode response", Err: fmt.Errorf("%w: %v", ErrMalformedResponse, err)}
	}
	return nil
}

// send builds and executes a request; the caller closes the body
func (c *Client) send(ctx context.Context, session shared.Session, base, method, path string, body any, accept string) (*http.Response, string, error) {
	op := method + " " + path

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, op, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, base+path, reader)
	if err != nil {
		return nil, op, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", accept)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if !session.IsAnonymous() {
		req.Header.Set("Authorization", "Bearer "+session.Token)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Collaborator request failed",
			zap.String("op", op),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return nil, op, &CollaboratorError{Op: op, Err: fmt.Errorf("%w: %v", ErrCollaboratorUnavailable, err)}
	}

	c.logger.Debug("Collaborator request",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))
	return resp, op, nil
}

func statusError(op string, status int, data []byte) error {
	var eb errorBody
	msg := ""
	if json.Unmarshal(data, &eb) == nil {
		msg = firstNonEmpty(eb.Message, eb.Error)
	}
	if msg == "" {
		msg = http.StatusText(status)
	}

	cerr := &CollaboratorError{Op: op, StatusCode: status, Message: msg}
	switch status {
	case http.StatusNotFound:
		cerr.Err = shared.ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		cerr.Err = shared.ErrUnauthorized
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		cerr.Err = ErrCollaboratorUnavailable
	}
	return cerr
}

// DownloadInvoicePDF fetches the vector PDF for an invoice from the document service
func (c *Client) DownloadInvoicePDF(ctx context.Context, session shared.Session, invoiceID, layout string) ([]byte, error) {
	if invoiceID == "" {
		return nil, fmt.Errorf("invoice id is required: %w", shared.ErrInvalidInput)
	}
	path := "/invoices/" + url.PathEscape(invoiceID) + "/download-pdf"
	if layout != "" {
		path += "?layout=" + url.QueryEscape(layout)
	}

	resp, op, err := c.send(ctx, session, c.documentURL, http.MethodGet, path, nil, "application/pdf")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPDFSize+1))
	if err != nil {
		return nil, &CollaboratorError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("%w: %v", ErrCollaboratorUnavailable, err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(op, resp.StatusCode, data)
	}
	if len(data) > maxPDFSize {
		return nil, &CollaboratorError{Op: op, StatusCode: resp.StatusCode, Message: "document exceeds size limit", Err: ErrMalformedResponse}
	}
	if mediaType, _, perr := mime.ParseMediaType(resp.Header.Get("Content-Type")); perr != nil || mediaType != "application/pdf" {
		return nil, &CollaboratorError{Op: op, StatusCode: resp.StatusCode,
			Message: "unexpected content type " + resp.Header.Get("Content-Type"), Err: ErrMalformedResponse}
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		return nil, &CollaboratorError{Op: op, StatusCode: resp.StatusCode, Message: "response is not a PDF document", Err: ErrMalformedResponse}
	}
	return data, nil
}
