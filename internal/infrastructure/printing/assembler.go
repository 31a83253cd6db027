package printing

import (
	"bytes"
	"context"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"

	"github.com/vikalp/backend/internal/domain/printing"
)

// minTilePixels drops rounding slivers at the bottom of the last page
const minTilePixels = 4

// GofpdfAssembler builds a PDF from a page bitmap. The bitmap is scaled to
// the paper width and cut into page-height tiles, one tile per page.
type GofpdfAssembler struct {
	logger *zap.Logger
}

// NewGofpdfAssembler creates an assembler
func NewGofpdfAssembler(logger *zap.Logger) *GofpdfAssembler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GofpdfAssembler{logger: logger}
}

// Assemble returns the PDF bytes for raster on paper
func (a *GofpdfAssembler) Assemble(ctx context.Context, raster *RasterResult, paper printing.PaperSize, title string) ([]byte, error) {
	if raster == nil || len(raster.PNG) == 0 {
		return nil, NewRenderError(ErrCodeAssemblyFailed, "bitmap is empty", nil)
	}
	if paper == "" {
		paper = printing.PaperSizeA4
	}

	img, err := imaging.Decode(bytes.NewReader(raster.PNG))
	if err != nil {
		return nil, NewRenderError(ErrCodeAssemblyFailed, "failed to decode bitmap", err)
	}
	bounds := img.Bounds()
	imgW, imgH := bounds.Dx(), bounds.Dy()
	if imgW == 0 || imgH == 0 {
		return nil, NewRenderError(ErrCodeAssemblyFailed, "bitmap has no area", nil)
	}

	pageW, pageH := paper.Dimensions()
	tiles := pageTiles(imgW, imgH, pageW, pageH)

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: pageW, Ht: pageH},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(title, true)
	pdf.SetCreator("invoice export", true)

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	for i, tile := range tiles {
		if err := ctx.Err(); err != nil {
			return nil, NewRenderError(ErrCodeAssemblyFailed, "assembly cancelled", err)
		}

		var buf bytes.Buffer
		cropped := imaging.Crop(img, image.Rect(bounds.Min.X, bounds.Min.Y+tile.top, bounds.Max.X, bounds.Min.Y+tile.bottom))
		if err := imaging.Encode(&buf, cropped, imaging.PNG); err != nil {
			return nil, NewRenderError(ErrCodeAssemblyFailed, "failed to encode page tile", err)
		}

		name := fmt.Sprintf("page-%d", i+1)
		pdf.AddPage()
		pdf.RegisterImageOptionsReader(name, opts, &buf)
		pdf.ImageOptions(name, 0, 0, pageW, tile.heightMM, false, opts, 0, "")
	}

	if err := pdf.Error(); err != nil {
		return nil, NewRenderError(ErrCodeAssemblyFailed, "failed to build PDF", err)
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, NewRenderError(ErrCodeAssemblyFailed, "failed to write PDF", err)
	}

	a.logger.Info("bitmap assembled into PDF",
		zap.Int("pages", len(tiles)),
		zap.Int("bytes", out.Len()))

	return out.Bytes(), nil
}

// tile is a horizontal band of the bitmap, in pixels, and its printed height in mm
type tile struct {
	top, bottom int
	heightMM    float64
}

// pageTiles cuts a bitmap scaled to pageW into bands of at most pageH.
// The printed height keeps the bitmap aspect ratio: h = imgH * pageW / imgW.
func pageTiles(imgW, imgH int, pageW, pageH float64) []tile {
	pxPerPage := max(int(float64(imgW)*pageH/pageW), 1)
	mmPerPx := pageW / float64(imgW)

	var tiles []tile
	for top := 0; top < imgH; top += pxPerPage {
		bottom := min(top+pxPerPage, imgH)
		if len(tiles) > 0 && bottom-top < minTilePixels {
			break
		}
		tiles = append(tiles, tile{top: top, bottom: bottom, heightMM: float64(bottom-top) * mmPerPx})
	}
	return tiles
}

var _ RasterAssembler = (*GofpdfAssembler)(nil)
