package printing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vikalp/backend/internal/domain/printing"
	"github.com/vikalp/backend/internal/domain/shared"
	"github.com/vikalp/backend/internal/infrastructure/collaborator"
	"github.com/vikalp/backend/internal/infrastructure/logger"
	infra "github.com/vikalp/backend/internal/infrastructure/printing"
	"github.com/vikalp/backend/internal/infrastructure/telemetry"
)

// Export stages, used as span, metric, and profiling labels
const (
	StageResolve    = "resolve"
	StageServer     = "server"
	StageRenderHTML = "render_html"
	StageRasterize  = "rasterize"
	StageAssemble   = "assemble"
	StageArchive    = "archive"
)

const idempotencyKeyPrefix = "export:"

// ServerPDFSource fetches a finished PDF from the document service
type ServerPDFSource interface {
	DownloadInvoicePDF(ctx context.Context, session shared.Session, invoiceID, layout string) ([]byte, error)
}

// ExportError is a terminal export failure. The client stage is never retried.
type ExportError struct {
	JobID uuid.UUID
	Stage string
	Err   error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export failed at %s: %v", e.Stage, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// ExportConfig tunes the export pipeline
type ExportConfig struct {
	// ServerEnabled tries the document service before client rendering
	ServerEnabled bool
	// Timeout bounds each of the server and rasterize stages
	Timeout time.Duration
	// Scale is the raster device pixel ratio, raised to printing.MinRasterScale
	Scale float64
	// IdempotencyTTL is how long a key blocks a repeated trigger
	IdempotencyTTL time.Duration
	Paper          printing.PaperSize
}

func (c *ExportConfig) applyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.Scale < printing.MinRasterScale {
		c.Scale = printing.MinRasterScale
	}
	if c.IdempotencyTTL <= 0 {
		c.IdempotencyTTL = 10 * time.Minute
	}
	if c.Paper == "" {
		c.Paper = printing.PaperSizeA4
	}
}

// ExportPipeline turns an invoice into exactly one PDF file. It asks the
// document service first and falls back to rasterizing the rendered page.
type ExportPipeline struct {
	resolver   DocumentResolver
	docs       *DocumentService
	server     ServerPDFSource
	rasterizer infra.Rasterizer
	assembler  infra.RasterAssembler
	jobs       printing.ExportJobRepository
	archive    infra.PDFArchive
	idem       shared.IdempotencyStore
	metrics    *telemetry.ExportMetrics
	cfg        ExportConfig
	logger     *zap.Logger
}

// ExportOption configures optional collaborators of the pipeline
type ExportOption func(*ExportPipeline)

// WithServerSource sets the document service used by the server stage
func WithServerSource(src ServerPDFSource) ExportOption {
	return func(p *ExportPipeline) {
		p.server = src
	}
}

// WithArchive archives every exported file
func WithArchive(archive infra.PDFArchive) ExportOption {
	return func(p *ExportPipeline) {
		p.archive = archive
	}
}

// WithIdempotencyStore enables duplicate trigger detection
func WithIdempotencyStore(store shared.IdempotencyStore) ExportOption {
	return func(p *ExportPipeline) {
		p.idem = store
	}
}

// WithMetrics records export instruments
func WithMetrics(m *telemetry.ExportMetrics) ExportOption {
	return func(p *ExportPipeline) {
		p.metrics = m
	}
}

// NewExportPipeline creates a new ExportPipeline
func NewExportPipeline(
	resolver DocumentResolver,
	docs *DocumentService,
	rasterizer infra.Rasterizer,
	assembler infra.RasterAssembler,
	jobs printing.ExportJobRepository,
	cfg ExportConfig,
	log *zap.Logger,
	opts ...ExportOption,
) *ExportPipeline {
	if log == nil {
		log = zap.NewNop()
	}
	cfg.applyDefaults()
	p := &ExportPipeline{
		resolver:   resolver,
		docs:       docs,
		rasterizer: rasterizer,
		assembler:  assembler,
		jobs:       jobs,
		cfg:        cfg,
		logger:     log,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Export runs the export for one invoice. The result comes from exactly one
// strategy; a client stage failure is terminal.
func (p *ExportPipeline) Export(ctx context.Context, session shared.Session, req ExportRequest) (*ExportResult, error) {
	return p.ExportFor(ctx, session, p.resolver, req)
}

// ExportFor runs Export with documents loaded by resolver, e.g. one limited
// to the invoices of a customer lookup
func (p *ExportPipeline) ExportFor(ctx context.Context, session shared.Session, resolver DocumentResolver, req ExportRequest) (*ExportResult, error) {
	if resolver == nil {
		return nil, errors.New("export pipeline: nil document resolver")
	}
	if strings.TrimSpace(req.InvoiceID) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invoice ID is required")
	}
	if !req.Layout.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown layout: "+req.Layout.String())
	}

	start := time.Now()
	ctx, log := logger.WithInvoiceID(ctx, logger.FromContextOr(ctx, p.logger), req.InvoiceID)
	log = log.With(zap.String("layout", req.Layout.String()))

	ctx, span := telemetry.StartServiceSpan(ctx, "ExportPipeline", "Export",
		telemetry.AttrInvoiceID.String(req.InvoiceID), telemetry.AttrLayout.String(req.Layout.String()))
	var err error
	defer func() { telemetry.EndSpan(span, err) }()

	release, err := p.claim(ctx, req.IdempotencyKey)
	if err != nil {
		p.metrics.RecordExport(ctx, req.Layout.String(), "", telemetry.OutcomeConflict, time.Since(start), 0)
		return nil, err
	}

	result, err := p.run(ctx, session, resolver, req, log)
	if err != nil {
		release()
		p.metrics.RecordExport(ctx, req.Layout.String(), strategyOf(err), telemetry.OutcomeFailure, time.Since(start), 0)
		return nil, err
	}

	span.SetAttributes(
		telemetry.AttrJobID.String(result.JobID.String()),
		telemetry.AttrStrategy.String(result.Strategy.String()),
		telemetry.AttrBytes.Int(len(result.Data)),
	)
	p.metrics.RecordExport(ctx, req.Layout.String(), result.Strategy.String(), telemetry.OutcomeSuccess, time.Since(start), len(result.Data))
	log.Info("Invoice exported",
		zap.String("job_id", result.JobID.String()),
		zap.String("strategy", result.Strategy.String()),
		zap.String("file_name", result.FileName),
		zap.Int("bytes", len(result.Data)),
		zap.Duration("duration", time.Since(start)))
	return result, nil
}

// claim marks the idempotency key. The returned func releases it so a
// failed export can be triggered again.
func (p *ExportPipeline) claim(ctx context.Context, key string) (func(), error) {
	noop := func() {}
	key = strings.TrimSpace(key)
	if key == "" || p.idem == nil {
		return noop, nil
	}

	claimed, err := p.idem.MarkProcessed(ctx, idempotencyKeyPrefix+key, p.cfg.IdempotencyTTL)
	if err != nil {
		return noop, fmt.Errorf("failed to check idempotency key: %w", err)
	}
	if !claimed {
		return noop, shared.NewDomainError("CONFLICT", "This export was already requested")
	}
	return func() {
		if err := p.idem.Release(context.WithoutCancel(ctx), idempotencyKeyPrefix+key); err != nil {
			p.logger.Warn("Failed to release idempotency key", zap.String("key", key), zap.Error(err))
		}
	}, nil
}

func (p *ExportPipeline) run(ctx context.Context, session shared.Session, resolver DocumentResolver, req ExportRequest, log *zap.Logger) (*ExportResult, error) {
	stage := telemetry.StartStage(ctx, StageResolve)
	doc, inv, err := resolver.ResolveDocument(stage.Context(), session, req.InvoiceID)
	p.metrics.RecordStage(ctx, StageResolve, stage.End(err), err)
	if err != nil {
		return nil, err
	}

	job, err := printing.NewExportJob(req.InvoiceID, inv.InvoiceNumber, req.Layout, session.UserID)
	if err != nil {
		return nil, err
	}
	log = log.With(zap.String("job_id", job.ID.String()))
	p.save(ctx, job, log)

	data, strategy := p.serverStage(ctx, session, req, job, log)
	if data == nil {
		data, err = p.clientStage(ctx, doc, req.Layout, job)
		if err != nil {
			if ferr := job.Fail(err.Error()); ferr != nil {
				log.Error("Export job rejected failure", zap.Error(ferr))
			}
			p.save(ctx, job, log)
			log.Error("Export failed",
				zap.String("server_error", job.ServerError),
				zap.Error(err))
			return nil, &ExportError{JobID: job.ID, Stage: stageOf(err), Err: err}
		}
		strategy = printing.StrategyClient
	}

	if err := job.Complete(strategy, int64(len(data))); err != nil {
		return nil, err
	}
	p.archiveFile(ctx, job, data, log)
	p.save(ctx, job, log)

	return &ExportResult{
		FileName:   job.FileName,
		Data:       data,
		Strategy:   strategy,
		JobID:      job.ID,
		ArchiveURL: job.ArchiveURL,
	}, nil
}

// serverStage returns the document service's PDF, or nil after moving the
// job to the client stage
func (p *ExportPipeline) serverStage(ctx context.Context, session shared.Session, req ExportRequest, job *printing.ExportJob, log *zap.Logger) ([]byte, printing.ExportStrategy) {
	if !p.cfg.ServerEnabled || p.server == nil {
		_ = job.FallbackToClient("server export disabled")
		return nil, ""
	}
	if err := job.StartServer(); err != nil {
		log.Error("Export job rejected server stage", zap.Error(err))
		return nil, ""
	}

	stageCtx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	stage := telemetry.StartStage(stageCtx, StageServer, telemetry.AttrStrategy.String(printing.StrategyServer.String()))
	var data []byte
	var err error
	telemetry.WithStageLabels(stage.Context(), StageServer, req.Layout.String(), "server", func(ctx context.Context) {
		data, err = p.server.DownloadInvoicePDF(ctx, session, req.InvoiceID, req.Layout.String())
	})
	p.metrics.RecordStage(ctx, StageServer, stage.End(err), err)
	if err == nil {
		return data, printing.StrategyServer
	}

	reason := fallbackReason(err)
	p.metrics.RecordFallback(ctx, req.Layout.String(), reason)
	log.Warn("Server export failed, falling back to client rendering",
		zap.String("reason", reason),
		zap.Error(err))
	_ = job.FallbackToClient(err.Error())
	return nil, ""
}

// clientStage renders, rasterizes once the page has settled, and assembles the PDF
func (p *ExportPipeline) clientStage(ctx context.Context, doc *printing.InvoiceDocument, layout printing.Layout, job *printing.ExportJob) ([]byte, error) {
	var pdf []byte
	var err error
	telemetry.WithStageLabels(ctx, "client", layout.String(), "client", func(ctx context.Context) {
		var html string
		stage := telemetry.StartStage(ctx, StageRenderHTML)
		html, err = p.docs.renderHTML(stage.Context(), doc, layout)
		p.metrics.RecordStage(ctx, StageRenderHTML, stage.End(err), err)
		if err != nil {
			err = &stageError{stage: StageRenderHTML, err: err}
			return
		}

		var raster *infra.RasterResult
		stage = telemetry.StartStage(ctx, StageRasterize)
		raster, err = p.rasterizer.Rasterize(stage.Context(), &infra.RasterRequest{
			HTML:      html,
			PaperSize: p.cfg.Paper,
			Scale:     p.cfg.Scale,
			Timeout:   p.cfg.Timeout,
		})
		p.metrics.RecordStage(ctx, StageRasterize, stage.End(err), err)
		if err != nil {
			err = &stageError{stage: StageRasterize, err: err}
			return
		}

		stage = telemetry.StartStage(ctx, StageAssemble)
		pdf, err = p.assembler.Assemble(stage.Context(), raster, p.cfg.Paper, "Invoice "+job.InvoiceNumber)
		p.metrics.RecordStage(ctx, StageAssemble, stage.End(err), err)
		if err != nil {
			err = &stageError{stage: StageAssemble, err: err}
		}
	})
	return pdf, err
}

func (p *ExportPipeline) archiveFile(ctx context.Context, job *printing.ExportJob, data []byte, log *zap.Logger) {
	if p.archive == nil {
		return
	}
	stage := telemetry.StartStage(ctx, StageArchive)
	res, err := p.archive.Store(stage.Context(), &infra.StoreRequest{
		JobID:    job.ID,
		FileName: job.FileName,
		PDFData:  data,
	})
	p.metrics.RecordStage(ctx, StageArchive, stage.End(err), err)
	if err != nil {
		log.Warn("Failed to archive exported PDF", zap.Error(err))
		return
	}
	job.SetArchiveURL(res.URL)
}

// save persists the job. The audit record never blocks the download.
func (p *ExportPipeline) save(ctx context.Context, job *printing.ExportJob, log *zap.Logger) {
	if p.jobs == nil {
		return
	}
	if err := p.jobs.Save(context.WithoutCancel(ctx), job); err != nil {
		log.Warn("Failed to save export job",
			zap.String("status", job.Status.String()),
			zap.Error(err))
	}
}

// GetJob returns an export job record
func (p *ExportPipeline) GetJob(ctx context.Context, id uuid.UUID) (*ExportJobResponse, error) {
	if p.jobs == nil {
		return nil, shared.ErrNotFound
	}
	job, err := p.jobs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToExportJobResponse(job)
	return &resp, nil
}

// stageError tags a client stage failure with the stage that produced it
type stageError struct {
	stage string
	err   error
}

func (e *stageError) Error() string { return e.stage + ": " + e.err.Error() }
func (e *stageError) Unwrap() error { return e.err }

func stageOf(err error) string {
	var se *stageError
	if errors.As(err, &se) {
		return se.stage
	}
	return "client"
}

func strategyOf(err error) string {
	var ee *ExportError
	if errors.As(err, &ee) {
		return printing.StrategyClient.String()
	}
	return ""
}

// fallbackReason buckets a server stage failure for metrics
func fallbackReason(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, collaborator.ErrMalformedResponse):
		return "malformed"
	case errors.Is(err, collaborator.ErrCollaboratorUnavailable):
		return "unavailable"
	case errors.Is(err, shared.ErrNotFound):
		return "not_found"
	case errors.Is(err, shared.ErrUnauthorized):
		return "unauthorized"
	}
	return "error"
}
