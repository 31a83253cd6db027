package printing

import "strings"

// Layout selects one of the invoice page designs.
// All layouts render the same InvoiceDocument.
type Layout string

const (
	LayoutStatutory Layout = "STATUTORY" // dense GST tax-invoice grid
	LayoutCard      Layout = "CARD"      // simplified card design
)

// IsValid checks if the Layout is a valid value
func (l Layout) IsValid() bool {
	switch l {
	case LayoutStatutory, LayoutCard:
		return true
	}
	return false
}

// String returns the string representation of Layout
func (l Layout) String() string {
	return string(l)
}

// ParseLayout parses a layout name case-insensitively. Empty means statutory.
func ParseLayout(s string) (Layout, bool) {
	if strings.TrimSpace(s) == "" {
		return LayoutStatutory, true
	}
	l := Layout(strings.ToUpper(strings.TrimSpace(s)))
	return l, l.IsValid()
}

// PaperSize represents the paper size for printing
type PaperSize string

const (
	PaperSizeA4 PaperSize = "A4" // 210mm x 297mm
	PaperSizeA5 PaperSize = "A5" // 148mm x 210mm
)

// IsValid checks if the PaperSize is a valid value
func (p PaperSize) IsValid() bool {
	return p == PaperSizeA4 || p == PaperSizeA5
}

// String returns the string representation of PaperSize
func (p PaperSize) String() string {
	return string(p)
}

// Dimensions returns the paper dimensions in millimeters (width, height)
func (p PaperSize) Dimensions() (width, height float64) {
	switch p {
	case PaperSizeA5:
		return 148, 210
	default:
		return 210, 297
	}
}

// CSSPixelWidth returns the page width in CSS pixels at 96 dpi
func (p PaperSize) CSSPixelWidth() int {
	w, _ := p.Dimensions()
	return int(w/25.4*96 + 0.5)
}

// Orientation represents the page orientation for printing
type Orientation string

const (
	OrientationPortrait  Orientation = "PORTRAIT"
	OrientationLandscape Orientation = "LANDSCAPE"
)

// IsValid checks if the Orientation is a valid value
func (o Orientation) IsValid() bool {
	return o == OrientationPortrait || o == OrientationLandscape
}

// ExportStrategy names the way a PDF was produced
type ExportStrategy string

const (
	// StrategyServer fetches a finished PDF from the document service
	StrategyServer ExportStrategy = "SERVER"
	// StrategyClient rasterizes the rendered document and wraps the bitmap in a PDF
	StrategyClient ExportStrategy = "CLIENT"
)

// String returns the string representation of ExportStrategy
func (s ExportStrategy) String() string {
	return string(s)
}

// ExportStatus is the state of a PDF export
type ExportStatus string

const (
	ExportPending      ExportStatus = "PENDING"
	ExportServerExport ExportStatus = "SERVER_EXPORT"
	ExportClientExport ExportStatus = "CLIENT_EXPORT"
	ExportCompleted    ExportStatus = "COMPLETED"
	ExportFailed       ExportStatus = "FAILED"
)

// IsValid checks if the ExportStatus is a valid value
func (s ExportStatus) IsValid() bool {
	switch s {
	case ExportPending, ExportServerExport, ExportClientExport, ExportCompleted, ExportFailed:
		return true
	}
	return false
}

// String returns the string representation of ExportStatus
func (s ExportStatus) String() string {
	return string(s)
}

// IsTerminal returns true if this is a terminal status (no further transitions)
func (s ExportStatus) IsTerminal() bool {
	return s == ExportCompleted || s == ExportFailed
}

// CanTransitionTo checks if the status can transition to the target status.
// The server stage may only fall forward to the client stage, and the
// client stage never goes back: its failure ends the export.
func (s ExportStatus) CanTransitionTo(target ExportStatus) bool {
	switch s {
	case ExportPending:
		return target == ExportServerExport || target == ExportClientExport || target == ExportFailed
	case ExportServerExport:
		return target == ExportCompleted || target == ExportClientExport
	case ExportClientExport:
		return target == ExportCompleted || target == ExportFailed
	}
	return false
}
