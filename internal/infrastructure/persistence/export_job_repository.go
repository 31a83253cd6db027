package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vikalp/backend/internal/domain/printing"
	"github.com/vikalp/backend/internal/domain/shared"
	"github.com/vikalp/backend/internal/infrastructure/persistence/models"
)

var _ printing.ExportJobRepository = (*GormExportJobRepository)(nil)

// maxInvoiceJobs caps FindByInvoice
const maxInvoiceJobs = 100

// GormExportJobRepository implements ExportJobRepository using GORM
type GormExportJobRepository struct {
	db *gorm.DB
}

// NewGormExportJobRepository creates a new GormExportJobRepository
func NewGormExportJobRepository(db *gorm.DB) *GormExportJobRepository {
	return &GormExportJobRepository{db: db}
}

// FindByID finds a job by ID
func (r *GormExportJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*printing.ExportJob, error) {
	var model models.ExportJobModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByInvoice returns the jobs of one invoice, newest first
func (r *GormExportJobRepository) FindByInvoice(ctx context.Context, invoiceID string, limit int) ([]printing.ExportJob, error) {
	if limit <= 0 || limit > maxInvoiceJobs {
		limit = maxInvoiceJobs
	}

	var rows []models.ExportJobModel
	if err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	jobs := make([]printing.ExportJob, len(rows))
	for i := range rows {
		jobs[i] = *rows[i].ToDomain()
	}
	return jobs, nil
}

// Save inserts the job or overwrites the stored row with the same ID
func (r *GormExportJobRepository) Save(ctx context.Context, job *printing.ExportJob) error {
	if job == nil {
		return shared.NewDomainError("INVALID_INPUT", "export job is nil")
	}
	model := models.ExportJobModelFromDomain(job)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(model).Error
}
