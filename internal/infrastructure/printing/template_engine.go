package printing

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/vikalp/backend/internal/domain/invoicing"
	"github.com/vikalp/backend/internal/domain/printing"
)

//go:embed templates/*.html
var templateFS embed.FS

// layoutFiles maps every layout to its page template
var layoutFiles = map[printing.Layout]string{
	printing.LayoutStatutory: "templates/statutory.html",
	printing.LayoutCard:      "templates/card.html",
}

// TemplateEngine renders invoice documents into complete HTML pages.
// It uses Go's html/template package with formatting functions for rupee amounts.
type TemplateEngine struct {
	funcMap     template.FuncMap
	externalDir string
	templates   map[printing.Layout]*template.Template
}

// TemplateEngineOption configures the template engine
type TemplateEngineOption func(*TemplateEngine)

// WithExternalDir loads layout files from dir when present, falling back to the embedded ones
func WithExternalDir(dir string) TemplateEngineOption {
	return func(e *TemplateEngine) {
		e.externalDir = dir
	}
}

// WithFuncs adds or overrides template functions
func WithFuncs(funcs template.FuncMap) TemplateEngineOption {
	return func(e *TemplateEngine) {
		maps.Copy(e.funcMap, funcs)
	}
}

// NewTemplateEngine creates a template engine and parses every layout
func NewTemplateEngine(opts ...TemplateEngineOption) (*TemplateEngine, error) {
	e := &TemplateEngine{
		templates: make(map[printing.Layout]*template.Template, len(layoutFiles)),
	}

	e.funcMap = template.FuncMap{
		"inr":       formatINR,
		"rupee":     formatRupee,
		"words":     amountInWords,
		"pct":       formatPercent,
		"dash":      dash,
		"titleCase": titleCase,
		"upper":     strings.ToUpper,
	}

	for _, opt := range opts {
		opt(e)
	}

	for layout, path := range layoutFiles {
		content, err := e.loadTemplateContent(path)
		if err != nil {
			return nil, err
		}
		tmpl, err := template.New(string(layout)).Funcs(e.funcMap).Parse(content)
		if err != nil {
			return nil, NewRenderError(ErrCodeInvalidHTML, "failed to parse template "+path, err)
		}
		e.templates[layout] = tmpl
	}

	return e, nil
}

// loadTemplateContent loads template content from the external dir or the embedded files
func (e *TemplateEngine) loadTemplateContent(embeddedPath string) (string, error) {
	if e.externalDir != "" {
		externalPath := filepath.Join(e.externalDir, filepath.Base(embeddedPath))
		if content, err := os.ReadFile(externalPath); err == nil {
			return string(content), nil
		}
	}

	content, err := templateFS.ReadFile(embeddedPath)
	if err != nil {
		return "", fmt.Errorf("failed to read template file %s: %w", embeddedPath, err)
	}
	return string(content), nil
}

// RenderTemplateResult contains the rendered HTML page
type RenderTemplateResult struct {
	HTML           string
	Layout         printing.Layout
	RenderDuration time.Duration
}

// RenderDocument renders doc with the given layout into a complete HTML page
func (e *TemplateEngine) RenderDocument(ctx context.Context, doc *printing.InvoiceDocument, layout printing.Layout) (*RenderTemplateResult, error) {
	if doc == nil {
		return nil, NewRenderError(ErrCodeInvalidHTML, "document is nil", nil)
	}
	tmpl, ok := e.templates[layout]
	if !ok {
		return nil, NewRenderError(ErrCodeInvalidHTML, "unknown layout: "+string(layout), nil)
	}
	if err := ctx.Err(); err != nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "render cancelled", err)
	}

	startTime := time.Now()

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, doc); err != nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "failed to execute template", err)
	}

	return &RenderTemplateResult{
		HTML:           buf.String(),
		Layout:         layout,
		RenderDuration: time.Since(startTime),
	}, nil
}

// Layouts returns the layouts the engine can render
func (e *TemplateEngine) Layouts() []printing.Layout {
	layouts := make([]printing.Layout, 0, len(e.templates))
	for l := range e.templates {
		layouts = append(layouts, l)
	}
	return layouts
}

// =============================================================================
// Template Functions
// =============================================================================

// formatINR formats an amount with Indian digit grouping, e.g. 123456.5 -> "1,23,456.50"
func formatINR(v any) string {
	return invoicing.FormatINR(toDecimal(v))
}

// formatRupee formats an amount with the rupee symbol, e.g. "₹ 2,124.00"
func formatRupee(v any) string {
	return invoicing.FormatRupee(toDecimal(v))
}

func amountInWords(v any) string {
	return invoicing.AmountInWords(toDecimal(v))
}

func formatPercent(v any) string {
	return invoicing.FormatPercent(toDecimal(v))
}

// dash prints the placeholder for blank values
func dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return printing.Placeholder
	}
	return s
}

// titleCase converts string to title case using proper Unicode handling
func titleCase(s string) string {
	caser := cases.Title(language.English)
	return caser.String(s)
}

// toDecimal converts the numeric types templates see into a decimal
func toDecimal(v any) decimal.Decimal {
	switch val := v.(type) {
	case decimal.Decimal:
		return val
	case *decimal.Decimal:
		if val == nil {
			return decimal.Zero
		}
		return *val
	case invoicing.GSTRate:
		return val.Decimal()
	case int:
		return decimal.NewFromInt(int64(val))
	case int64:
		return decimal.NewFromInt(val)
	case float64:
		return decimal.NewFromFloat(val)
	case string:
		d, err := decimal.NewFromString(val)
		if err != nil {
			return decimal.Zero
		}
		return d
	}
	return decimal.Zero
}
