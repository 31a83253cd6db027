package printing

import (
	"time"

	"github.com/google/uuid"

	"github.com/vikalp/backend/internal/domain/printing"
)

// ExportRequest asks for one invoice to be exported as a PDF file
type ExportRequest struct {
	InvoiceID string
	Layout    printing.Layout
	// IdempotencyKey rejects a repeated trigger of the same export while set
	IdempotencyKey string
}

// ExportResult is the single file an export produced
type ExportResult struct {
	FileName   string
	Data       []byte
	Strategy   printing.ExportStrategy
	JobID      uuid.UUID
	ArchiveURL string
}

// PDFFile is a rendered PDF with its download name
type PDFFile struct {
	FileName string
	Data     []byte
}

// RenderedDocument is an invoice rendered to a complete HTML page
type RenderedDocument struct {
	InvoiceID     string
	InvoiceNumber string
	Layout        printing.Layout
	HTML          string
}

// ExportJobResponse represents an export job record
type ExportJobResponse struct {
	ID            string     `json:"id"`
	InvoiceID     string     `json:"invoice_id"`
	InvoiceNumber string     `json:"invoice_number"`
	Layout        string     `json:"layout"`
	Status        string     `json:"status"`
	Strategy      string     `json:"strategy,omitempty"`
	FileName      string     `json:"file_name"`
	ServerError   string     `json:"server_error,omitempty"`
	ErrorMessage  string     `json:"error_message,omitempty"`
	ArchiveURL    string     `json:"archive_url,omitempty"`
	SizeBytes     int64      `json:"size_bytes"`
	RequestedBy   string     `json:"requested_by,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

// ToExportJobResponse converts a domain job to a response
func ToExportJobResponse(job *printing.ExportJob) ExportJobResponse {
	return ExportJobResponse{
		ID:            job.ID.String(),
		InvoiceID:     job.InvoiceID,
		InvoiceNumber: job.InvoiceNumber,
		Layout:        job.Layout.String(),
		Status:        job.Status.String(),
		Strategy:      job.Strategy.String(),
		FileName:      job.FileName,
		ServerError:   job.ServerError,
		ErrorMessage:  job.ErrorMessage,
		ArchiveURL:    job.ArchiveURL,
		SizeBytes:     job.SizeBytes,
		RequestedBy:   job.RequestedBy,
		CreatedAt:     job.CreatedAt,
		UpdatedAt:     job.UpdatedAt,
		CompletedAt:   job.CompletedAt,
	}
}
