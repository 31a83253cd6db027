package printing

import (
	"strings"
	"time"

	"github.com/vikalp/backend/internal/domain/shared"
)

// ExportJob records one request to export an invoice as a PDF file.
// A job produces at most one file, from exactly one strategy.
type ExportJob struct {
	shared.BaseAggregateRoot
	InvoiceID     string
	InvoiceNumber string
	Layout        Layout
	Status        ExportStatus
	Strategy      ExportStrategy // strategy that produced the file, empty until completed
	FileName      string
	ServerError   string // why the server stage was skipped or failed
	ErrorMessage  string // why the export failed for good
	ArchiveURL    string
	SizeBytes     int64
	RequestedBy   string
	CompletedAt   *time.Time
}

// ExportFileName returns the download name for an invoice, "Invoice_<number>.pdf".
// Path separators in the number are replaced so the name stays a single segment.
func ExportFileName(invoiceNumber string) string {
	safe := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '"':
			return '-'
		}
		return r
	}, strings.TrimSpace(invoiceNumber))
	return "Invoice_" + safe + ".pdf"
}

// NewExportJob creates a pending export job
func NewExportJob(invoiceID, invoiceNumber string, layout Layout, requestedBy string) (*ExportJob, error) {
	if strings.TrimSpace(invoiceID) == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE", "Invoice ID cannot be empty")
	}
	if strings.TrimSpace(invoiceNumber) == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if !layout.IsValid() {
		return nil, shared.NewDomainError("INVALID_LAYOUT", "Unknown layout: "+string(layout))
	}

	return &ExportJob{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoiceID:         invoiceID,
		InvoiceNumber:     invoiceNumber,
		Layout:            layout,
		Status:            ExportPending,
		FileName:          ExportFileName(invoiceNumber),
		RequestedBy:       requestedBy,
	}, nil
}

// StartServer marks the job as waiting on the document service
func (j *ExportJob) StartServer() error {
	return j.transition(ExportServerExport)
}

// FallbackToClient moves the job to client-side export, recording why the
// server stage could not be used
func (j *ExportJob) FallbackToClient(reason string) error {
	if err := j.transition(ExportClientExport); err != nil {
		return err
	}
	j.ServerError = reason
	return nil
}

// Complete marks the job as done with the strategy that produced the file
func (j *ExportJob) Complete(strategy ExportStrategy, size int64) error {
	if size <= 0 {
		return shared.NewDomainError("INVALID_PDF", "Exported PDF is empty")
	}
	expected := map[ExportStatus]ExportStrategy{
		ExportServerExport: StrategyServer,
		ExportClientExport: StrategyClient,
	}
	if want, ok := expected[j.Status]; ok && want != strategy {
		return shared.NewDomainError("INVALID_STATE",
			"Cannot complete with "+strategy.String()+" from status: "+j.Status.String())
	}
	if err := j.transition(ExportCompleted); err != nil {
		return err
	}

	now := time.Now()
	j.Strategy = strategy
	j.SizeBytes = size
	j.CompletedAt = &now
	return nil
}

// SetArchiveURL records where the exported file was archived
func (j *ExportJob) SetArchiveURL(url string) {
	j.ArchiveURL = url
	j.Touch()
}

// Fail marks the job as failed for good
func (j *ExportJob) Fail(reason string) error {
	if err := j.transition(ExportFailed); err != nil {
		return err
	}
	j.ErrorMessage = reason
	return nil
}

// IsTerminal returns true if the job is in a terminal state
func (j *ExportJob) IsTerminal() bool {
	return j.Status.IsTerminal()
}

// UsedFallback reports whether the client stage ran
func (j *ExportJob) UsedFallback() bool {
	return j.ServerError != "" || j.Strategy == StrategyClient
}

func (j *ExportJob) transition(target ExportStatus) error {
	if !j.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE",
			"Cannot move export from "+j.Status.String()+" to "+target.String())
	}
	j.Status = target
	j.Touch()
	j.IncrementVersion()
	return nil
}
