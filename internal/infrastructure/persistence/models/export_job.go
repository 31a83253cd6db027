package models

import (
	"time"

	"github.com/vikalp/backend/internal/domain/printing"
)

// ExportJobModel is the GORM model for the export_jobs table
type ExportJobModel struct {
	AggregateModel
	InvoiceID     string     `gorm:"column:invoice_id;type:varchar(64);not null;index"`
	InvoiceNumber string     `gorm:"column:invoice_number;type:varchar(64);not null"`
	Layout        string     `gorm:"type:varchar(20);not null"`
	Status        string     `gorm:"type:varchar(20);not null;default:'PENDING'"`
	Strategy      string     `gorm:"type:varchar(10)"`
	FileName      string     `gorm:"column:file_name;type:varchar(255);not null"`
	ServerError   string     `gorm:"column:server_error;type:text"`
	ErrorMessage  string     `gorm:"column:error_message;type:text"`
	ArchiveURL    string     `gorm:"column:archive_url;type:text"`
	SizeBytes     int64      `gorm:"column:size_bytes;not null;default:0"`
	RequestedBy   string     `gorm:"column:requested_by;type:varchar(64)"`
	CompletedAt   *time.Time `gorm:"column:completed_at"`
}

// TableName returns the table name for ExportJobModel
func (ExportJobModel) TableName() string {
	return "export_jobs"
}

// ToDomain converts the row to a domain ExportJob
func (m *ExportJobModel) ToDomain() *printing.ExportJob {
	return &printing.ExportJob{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		InvoiceID:         m.InvoiceID,
		InvoiceNumber:     m.InvoiceNumber,
		Layout:            printing.Layout(m.Layout),
		Status:            printing.ExportStatus(m.Status),
		Strategy:          printing.ExportStrategy(m.Strategy),
		FileName:          m.FileName,
		ServerError:       m.ServerError,
		ErrorMessage:      m.ErrorMessage,
		ArchiveURL:        m.ArchiveURL,
		SizeBytes:         m.SizeBytes,
		RequestedBy:       m.RequestedBy,
		CompletedAt:       m.CompletedAt,
	}
}

// ExportJobModelFromDomain creates a row from a domain ExportJob
func ExportJobModelFromDomain(j *printing.ExportJob) *ExportJobModel {
	m := &ExportJobModel{
		InvoiceID:     j.InvoiceID,
		InvoiceNumber: j.InvoiceNumber,
		Layout:        string(j.Layout),
		Status:        string(j.Status),
		Strategy:      string(j.Strategy),
		FileName:      j.FileName,
		ServerError:   j.ServerError,
		ErrorMessage:  j.ErrorMessage,
		ArchiveURL:    j.ArchiveURL,
		SizeBytes:     j.SizeBytes,
		RequestedBy:   j.RequestedBy,
		CompletedAt:   j.CompletedAt,
	}
	m.FromDomainAggregateRoot(j.BaseAggregateRoot)
	return m
}
