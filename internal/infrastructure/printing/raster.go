package printing

import (
	"bytes"
	"context"
	"image/png"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/vikalp/backend/internal/domain/printing"
)

const (
	// a4CSSPixelHeight is the first viewport height; the capture extends to the full page
	a4CSSPixelHeight = 1123
)

// ChromedpRasterizer captures a settled invoice page as a PNG bitmap
type ChromedpRasterizer struct {
	*chromeBrowser
}

// NewChromedpRasterizer creates a rasterizer with its own browser allocator
func NewChromedpRasterizer(config *ChromedpConfig) (*ChromedpRasterizer, error) {
	return &ChromedpRasterizer{chromeBrowser: newChromeBrowser(config)}, nil
}

// Rasterizer returns a rasterizer sharing this renderer's browser
func (r *ChromedpRenderer) Rasterizer() *ChromedpRasterizer {
	return &ChromedpRasterizer{chromeBrowser: r.chromeBrowser}
}

// Rasterize lays the page out at the paper width and captures the whole page.
// The capture only starts after the page has settled.
func (r *ChromedpRasterizer) Rasterize(ctx context.Context, req *RasterRequest) (*RasterResult, error) {
	if req == nil || strings.TrimSpace(req.HTML) == "" {
		return nil, NewRenderError(ErrCodeInvalidHTML, "HTML content is empty", nil)
	}
	paper := req.PaperSize
	if paper == "" {
		paper = printing.PaperSizeA4
	}
	if !paper.IsValid() {
		return nil, NewRenderError(ErrCodeInvalidPaperSize, "invalid paper size: "+string(paper), nil)
	}
	scale := max(req.Scale, printing.MinRasterScale)

	startTime := time.Now()

	timeout := req.Timeout
	if timeout == 0 {
		timeout = r.config.DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	tabCtx, tabCancel := r.newTab(ctx)
	defer tabCancel()

	viewport := chromedp.EmulateViewport(int64(paper.CSSPixelWidth()), a4CSSPixelHeight, chromedp.EmulateScale(scale))

	var shot []byte
	err := r.runSettled(tabCtx, buildCompleteHTML(req.HTML, ""), viewport)
	if err == nil {
		err = chromedp.Run(tabCtx, chromedp.FullScreenshot(&shot, 100))
	}
	if err != nil {
		return nil, r.classify(ctx, err, timeout, ErrCodeRasterFailed)
	}
	if len(shot) == 0 {
		return nil, NewRenderError(ErrCodeRasterFailed, "captured bitmap is empty", nil)
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(shot))
	if err != nil {
		return nil, NewRenderError(ErrCodeRasterFailed, "captured bitmap is not a PNG", err)
	}

	renderDuration := time.Since(startTime)
	r.logger.Info("page rasterized",
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Float64("scale", scale),
		zap.Duration("duration", renderDuration))

	return &RasterResult{
		PNG:            shot,
		Scale:          scale,
		Width:          cfg.Width,
		Height:         cfg.Height,
		RenderDuration: renderDuration,
	}, nil
}

var _ Rasterizer = (*ChromedpRasterizer)(nil)
