package printing

import (
	"bytes"
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vikalp/backend/internal/domain/printing"
)

func TestChromedpConfig_ApplyDefaults(t *testing.T) {
	config := &ChromedpConfig{}
	config.applyDefaults()

	assert.Equal(t, defaultChromeTimeout, config.DefaultTimeout)
	assert.Equal(t, defaultSettleTimeout, config.SettleTimeout)
	assert.Equal(t, 1.0, config.Scale)
	assert.True(t, config.Headless)
	assert.True(t, config.DisableGPU)
	assert.NotNil(t, config.Logger)
}

func TestBuildPrintParams_A4Portrait(t *testing.T) {
	r := &ChromedpRenderer{chromeBrowser: &chromeBrowser{config: &ChromedpConfig{Scale: 1.0}}}

	params := r.buildPrintParams(&RenderRequest{
		HTML:        "<html>test</html>",
		PaperSize:   printing.PaperSizeA4,
		Orientation: printing.OrientationPortrait,
		Margins:     printing.DefaultMargins(),
	})

	assert.InDelta(t, mmToInches(210), params.paperWidth, 0.01)
	assert.InDelta(t, mmToInches(297), params.paperHeight, 0.01)
	assert.InDelta(t, mmToInches(10), params.marginTop, 0.001)
	assert.False(t, params.landscape)
	assert.True(t, params.printBackground)
}

func TestBuildPrintParams_Landscape(t *testing.T) {
	r := &ChromedpRenderer{chromeBrowser: &chromeBrowser{config: &ChromedpConfig{Scale: 1.0}}}

	params := r.buildPrintParams(&RenderRequest{
		PaperSize:   printing.PaperSizeA5,
		Orientation: printing.OrientationLandscape,
	})

	assert.True(t, params.landscape)
	assert.InDelta(t, mmToInches(148), params.paperWidth, 0.01)
}

func TestBuildCompleteHTML(t *testing.T) {
	t.Run("complete page passes through", func(t *testing.T) {
		html := "<!DOCTYPE html><html><body>test</body></html>"
		assert.Equal(t, html, buildCompleteHTML(html, "x"))
	})

	t.Run("fragment is wrapped with the ready marker", func(t *testing.T) {
		result := buildCompleteHTML("<div>Hello</div>", "Invoice")
		assert.Contains(t, result, "<!DOCTYPE html>")
		assert.Contains(t, result, "<title>Invoice</title>")
		assert.Contains(t, result, "<div>Hello</div>")
		assert.Contains(t, result, `<div id="invoice-ready"></div>`)
	})
}

func TestMmToInches(t *testing.T) {
	assert.InDelta(t, 1.0, mmToInches(25.4), 0.001)
	assert.InDelta(t, 8.2677, mmToInches(210), 0.001)
}

func TestEstimatePageCount(t *testing.T) {
	pdf := []byte("<< /Type /Pages /Count 2 >> << /Type /Page >> << /Type /Page >>")
	assert.Equal(t, 2, estimatePageCount(pdf))
	assert.Equal(t, 1, estimatePageCount([]byte("%PDF-")))
}

func TestChromedpRenderer_Validation(t *testing.T) {
	r, err := NewChromedpRenderer(nil)
	require.NoError(t, err)
	defer r.Close()

	_, err = r.Render(context.Background(), nil)
	assert.Error(t, err)

	_, err = r.Render(context.Background(), &RenderRequest{HTML: "  ", PaperSize: printing.PaperSizeA4})
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeInvalidHTML, renderErr.Code)

	_, err = r.Rasterizer().Rasterize(context.Background(), &RasterRequest{HTML: ""})
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeInvalidHTML, renderErr.Code)
}

func requireChrome(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	for _, name := range []string{"headless-shell", "chromium", "chromium-browser", "google-chrome", "google-chrome-stable"} {
		if _, err := exec.LookPath(name); err == nil {
			return
		}
	}
	t.Skip("no Chrome binary available")
}

func TestChromedpRenderer_RenderIntegration(t *testing.T) {
	requireChrome(t)

	engine, err := NewTemplateEngine()
	require.NoError(t, err)
	page, err := engine.RenderDocument(context.Background(), testDocument(), printing.LayoutStatutory)
	require.NoError(t, err)

	r, err := NewChromedpRenderer(&ChromedpConfig{NoSandbox: true, DefaultTimeout: 60 * time.Second})
	require.NoError(t, err)
	defer r.Close()

	result, err := r.Render(context.Background(), &RenderRequest{
		HTML:      page.HTML,
		PaperSize: printing.PaperSizeA4,
		Margins:   printing.DefaultMargins(),
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(result.PDFData, []byte("%PDF-")))

	raster, err := r.Rasterizer().Rasterize(context.Background(), &RasterRequest{HTML: page.HTML, PaperSize: printing.PaperSizeA4})
	require.NoError(t, err)
	assert.Equal(t, 2*printing.PaperSizeA4.CSSPixelWidth(), raster.Width)

	data, err := NewGofpdfAssembler(nil).Assemble(context.Background(), raster, printing.PaperSizeA4, "Invoice")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestChromedpRasterizer_NotSettled(t *testing.T) {
	requireChrome(t)

	r, err := NewChromedpRasterizer(&ChromedpConfig{NoSandbox: true, SettleTimeout: 500 * time.Millisecond})
	require.NoError(t, err)
	defer r.Close()

	// A complete page without the ready marker never settles
	_, err = r.Rasterize(context.Background(), &RasterRequest{HTML: "<html><body>no marker</body></html>"})
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeNotSettled, renderErr.Code)
}
