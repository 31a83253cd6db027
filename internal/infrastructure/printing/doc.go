// Package printing turns invoice documents into HTML pages and PDF files.
//
// The package contains:
//   - TemplateEngine, which renders an InvoiceDocument in one of the page layouts
//   - ChromedpRenderer, a vector HTML to PDF renderer on headless Chrome
//   - ChromedpRasterizer, which captures a settled page as a PNG bitmap
//   - GofpdfAssembler, which slices a bitmap into A4 pages of a PDF
//   - FileSystemArchive, a local store for exported files
//
// Example usage:
//
//	engine := NewTemplateEngine()
//	html, err := engine.RenderDocument(ctx, doc, printing.LayoutStatutory)
//	if err != nil {
//	    return err
//	}
//
//	renderer, err := NewChromedpRenderer(&ChromedpConfig{NoSandbox: true})
//	if err != nil {
//	    return err
//	}
//	defer renderer.Close()
//
//	result, err := renderer.Render(ctx, &RenderRequest{
//	    HTML:      html,
//	    PaperSize: printing.PaperSizeA4,
//	    Margins:   printing.DefaultMargins(),
//	})
package printing
