package printing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/vikalp/backend/internal/domain/printing"
)

const (
	defaultChromeTimeout = 30 * time.Second
	defaultSettleTimeout = 10 * time.Second
	defaultScale         = 1.0

	// ReadySelector is the element every invoice page appends once its layout is built
	ReadySelector = "#invoice-ready"
)

// ChromedpConfig contains configuration for the chromedp renderer and rasterizer
type ChromedpConfig struct {
	// DefaultTimeout for a whole render or capture
	DefaultTimeout time.Duration
	// SettleTimeout bounds the wait for the page to finish layout, fonts, and paint
	SettleTimeout time.Duration
	// RemoteURL is the URL of a remote Chrome/Chromium instance (optional)
	// If empty, chromedp will launch a new browser instance
	RemoteURL string
	// Headless mode (default: true)
	Headless bool
	// DisableGPU disables GPU hardware acceleration (default: true for server environments)
	DisableGPU bool
	// NoSandbox runs Chrome without sandbox (required for Docker/root)
	NoSandbox bool
	// Scale for PDF printing (default: 1.0)
	Scale float64
	// Logger for debug output
	Logger *zap.Logger
}

func (c *ChromedpConfig) applyDefaults() {
	if c.DefaultTimeout == 0 {
		c.DefaultTimeout = defaultChromeTimeout
	}
	if c.SettleTimeout == 0 {
		c.SettleTimeout = defaultSettleTimeout
	}
	if c.Scale == 0 {
		c.Scale = defaultScale
	}
	// Default to headless and disable GPU for server environments
	if !c.Headless {
		c.Headless = true
	}
	if !c.DisableGPU {
		c.DisableGPU = true
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
}

// chromeBrowser owns the Chrome allocator shared by the renderer and the rasterizer
type chromeBrowser struct {
	config      *ChromedpConfig
	logger      *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

func newChromeBrowser(config *ChromedpConfig) *chromeBrowser {
	if config == nil {
		config = &ChromedpConfig{}
	}
	config.applyDefaults()

	b := &chromeBrowser{config: config, logger: config.Logger}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", config.Headless),
		chromedp.Flag("disable-gpu", config.DisableGPU),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true), // Important for Docker
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if config.NoSandbox {
		opts = append(opts, chromedp.Flag("no-sandbox", true))
	}

	if config.RemoteURL != "" {
		b.allocCtx, b.allocCancel = chromedp.NewRemoteAllocator(context.Background(), config.RemoteURL)
	} else {
		b.allocCtx, b.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	}
	return b
}

// newTab opens a browser tab bound to ctx
func (b *chromeBrowser) newTab(ctx context.Context) (context.Context, context.CancelFunc) {
	tabCtx, tabCancel := chromedp.NewContext(b.allocCtx,
		chromedp.WithLogf(func(format string, args ...any) {
			b.logger.Debug(fmt.Sprintf(format, args...))
		}),
	)
	// Tie the tab lifetime to the caller's context
	stop := context.AfterFunc(ctx, tabCancel)
	return tabCtx, func() {
		stop()
		tabCancel()
	}
}

func (b *chromeBrowser) Close() error {
	if b.allocCancel != nil {
		b.allocCancel()
	}
	return nil
}

// loadHTML replaces the blank page content with html
func loadHTML(html string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		frameTree, err := page.GetFrameTree().Do(ctx)
		if err != nil {
			return err
		}
		return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
	})
}

const framesScript = `(() => {
	window.__invoiceFrames = 0;
	const tick = () => { window.__invoiceFrames++; if (window.__invoiceFrames < 2) requestAnimationFrame(tick); };
	requestAnimationFrame(tick);
	return true;
})()`

// settle waits until the page has built its layout, loaded its fonts,
// and painted two animation frames.
func settle(timeout time.Duration) chromedp.Tasks {
	var fontsReady, started, painted bool
	return chromedp.Tasks{
		chromedp.WaitReady(ReadySelector, chromedp.ByQuery),
		chromedp.Evaluate(`document.fonts.ready.then(() => true)`, &fontsReady,
			func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
				return p.WithAwaitPromise(true)
			}),
		chromedp.Evaluate(framesScript, &started),
		chromedp.Poll(`window.__invoiceFrames >= 2`, &painted,
			chromedp.WithPollingInterval(16*time.Millisecond),
			chromedp.WithPollingTimeout(timeout)),
	}
}

// runSettled loads html in a tab and waits for it to settle.
// A settle timeout is reported as RENDER_NOT_SETTLED.
func (b *chromeBrowser) runSettled(tabCtx context.Context, html string, pre ...chromedp.Action) error {
	actions := append(pre, chromedp.Navigate("about:blank"), loadHTML(html))
	if err := chromedp.Run(tabCtx, actions...); err != nil {
		return err
	}

	settleCtx, cancel := context.WithTimeout(tabCtx, b.config.SettleTimeout)
	defer cancel()
	if err := chromedp.Run(settleCtx, settle(b.config.SettleTimeout)); err != nil {
		if errors.Is(settleCtx.Err(), context.DeadlineExceeded) || errors.Is(err, chromedp.ErrPollingTimeout) {
			return NewRenderError(ErrCodeNotSettled,
				fmt.Sprintf("page did not settle within %v", b.config.SettleTimeout), err)
		}
		return err
	}
	return nil
}

// ChromedpRenderer renders HTML to PDF using Chrome DevTools Protocol
type ChromedpRenderer struct {
	*chromeBrowser
}

// NewChromedpRenderer creates a new chromedp-based PDF renderer
func NewChromedpRenderer(config *ChromedpConfig) (*ChromedpRenderer, error) {
	return &ChromedpRenderer{chromeBrowser: newChromeBrowser(config)}, nil
}

// Render converts HTML content to PDF
func (r *ChromedpRenderer) Render(ctx context.Context, req *RenderRequest) (*RenderResult, error) {
	if req == nil {
		return nil, NewRenderError(ErrCodeInvalidHTML, "render request is nil", nil)
	}
	if strings.TrimSpace(req.HTML) == "" {
		return nil, NewRenderError(ErrCodeInvalidHTML, "HTML content is empty", nil)
	}
	if !req.PaperSize.IsValid() {
		return nil, NewRenderError(ErrCodeInvalidPaperSize, "invalid paper size: "+string(req.PaperSize), nil)
	}

	startTime := time.Now()

	timeout := req.Timeout
	if timeout == 0 {
		timeout = r.config.DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	tabCtx, tabCancel := r.newTab(ctx)
	defer tabCancel()

	html := buildCompleteHTML(req.HTML, req.Title)
	params := r.buildPrintParams(req)

	var pdfData []byte
	err := r.runSettled(tabCtx, html)
	if err == nil {
		err = chromedp.Run(tabCtx, chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPrintBackground(params.printBackground).
				WithPaperWidth(params.paperWidth).
				WithPaperHeight(params.paperHeight).
				WithMarginTop(params.marginTop).
				WithMarginRight(params.marginRight).
				WithMarginBottom(params.marginBottom).
				WithMarginLeft(params.marginLeft).
				WithScale(params.scale).
				WithLandscape(params.landscape).
				WithPreferCSSPageSize(false).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfData = data
			return nil
		}))
	}
	if err != nil {
		return nil, r.classify(ctx, err, timeout, ErrCodeRenderFailed)
	}

	if len(pdfData) == 0 {
		return nil, NewRenderError(ErrCodeRenderFailed, "generated PDF is empty", nil)
	}

	pageCount := estimatePageCount(pdfData)
	renderDuration := time.Since(startTime)

	r.logger.Info("PDF rendered successfully",
		zap.Int("bytes", len(pdfData)),
		zap.Int("pages", pageCount),
		zap.Duration("duration", renderDuration))

	return &RenderResult{
		PDFData:        pdfData,
		PageCount:      pageCount,
		RenderDuration: renderDuration,
	}, nil
}

// classify maps a chromedp failure to a RenderError
func (b *chromeBrowser) classify(ctx context.Context, err error, timeout time.Duration, code string) error {
	var renderErr *RenderError
	if errors.As(err, &renderErr) {
		return renderErr
	}
	switch ctx.Err() {
	case context.DeadlineExceeded:
		return NewRenderError(ErrCodeRenderTimeout, fmt.Sprintf("rendering timed out after %v", timeout), err)
	case context.Canceled:
		return NewRenderError(ErrCodeRenderTimeout, "rendering was cancelled", err)
	}
	b.logger.Error("chromedp execution failed", zap.String("code", code), zap.Error(err))
	return NewRenderError(code, "chromedp execution failed", err)
}

// printParams holds the parameters for PDF printing
type printParams struct {
	paperWidth      float64
	paperHeight     float64
	marginTop       float64
	marginRight     float64
	marginBottom    float64
	marginLeft      float64
	scale           float64
	landscape       bool
	printBackground bool
}

// buildPrintParams constructs the print parameters from the render request
func (r *ChromedpRenderer) buildPrintParams(req *RenderRequest) *printParams {
	params := &printParams{
		scale:           r.config.Scale,
		printBackground: true,
	}

	// Chrome takes inches
	width, height := req.PaperSize.Dimensions()
	params.paperWidth = mmToInches(width)
	params.paperHeight = mmToInches(height)

	params.landscape = req.Orientation == printing.OrientationLandscape

	params.marginTop = mmToInches(float64(req.Margins.Top))
	params.marginRight = mmToInches(float64(req.Margins.Right))
	params.marginBottom = mmToInches(float64(req.Margins.Bottom))
	params.marginLeft = mmToInches(float64(req.Margins.Left))

	return params
}

// buildCompleteHTML wraps a fragment in a full document; complete pages pass through
func buildCompleteHTML(html, title string) string {
	lower := strings.ToLower(html)
	if strings.Contains(lower, "<!doctype") || strings.Contains(lower, "<html") {
		return html
	}

	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html><html><head>")
	buf.WriteString("<meta charset=\"UTF-8\">")
	if title != "" {
		buf.WriteString("<title>")
		buf.WriteString(title)
		buf.WriteString("</title>")
	}
	buf.WriteString("</head><body>")
	buf.WriteString(html)
	buf.WriteString("<div id=\"invoice-ready\"></div>")
	buf.WriteString("</body></html>")

	return buf.String()
}

// mmToInches converts millimeters to inches
func mmToInches(mm float64) float64 {
	return mm / 25.4
}

// estimatePageCount counts page objects in a PDF
func estimatePageCount(pdfData []byte) int {
	count := bytes.Count(pdfData, []byte("/Type /Page"))
	// "/Type /Page" also matches the parent "/Type /Pages" node
	count -= bytes.Count(pdfData, []byte("/Type /Pages"))
	return max(count, 1)
}

var _ PDFRenderer = (*ChromedpRenderer)(nil)
