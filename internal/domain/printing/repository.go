package printing

import (
	"context"

	"github.com/google/uuid"
)

// ExportJobRepository defines the interface for export job persistence
type ExportJobRepository interface {
	// FindByID finds a job by ID
	FindByID(ctx context.Context, id uuid.UUID) (*ExportJob, error)

	// FindByInvoice finds the jobs of one invoice, newest first
	FindByInvoice(ctx context.Context, invoiceID string, limit int) ([]ExportJob, error)

	// Save saves a job (insert or update)
	Save(ctx context.Context, job *ExportJob) error
}
