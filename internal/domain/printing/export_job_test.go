package printing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vikalp/backend/internal/domain/shared"
)

func newJob(t *testing.T) *ExportJob {
	t.Helper()
	job, err := NewExportJob("inv-1", "VE/2025-26/0007", LayoutStatutory, "admin")
	require.NoError(t, err)
	return job
}

func TestExportFileName(t *testing.T) {
	assert.Equal(t, "Invoice_VE-2025-26-0007.pdf", ExportFileName("VE/2025-26/0007"))
	assert.Equal(t, "Invoice_INV-12.pdf", ExportFileName(" INV-12 "))
}

func TestNewExportJob(t *testing.T) {
	job := newJob(t)
	assert.Equal(t, ExportPending, job.Status)
	assert.Equal(t, "Invoice_VE-2025-26-0007.pdf", job.FileName)
	assert.Empty(t, job.Strategy)
	assert.False(t, job.IsTerminal())

	_, err := NewExportJob("", "X", LayoutCard, "")
	assert.Error(t, err)
	_, err = NewExportJob("inv-1", "", LayoutCard, "")
	assert.Error(t, err)
	_, err = NewExportJob("inv-1", "X", Layout("POSTER"), "")
	assert.Error(t, err)
}

func TestExportJob_ServerPath(t *testing.T) {
	job := newJob(t)
	require.NoError(t, job.StartServer())
	require.NoError(t, job.Complete(StrategyServer, 2048))

	assert.Equal(t, ExportCompleted, job.Status)
	assert.Equal(t, StrategyServer, job.Strategy)
	assert.Equal(t, int64(2048), job.SizeBytes)
	assert.NotNil(t, job.CompletedAt)
	assert.False(t, job.UsedFallback())
	assert.Equal(t, 3, job.Version)
}

func TestExportJob_FallbackPath(t *testing.T) {
	job := newJob(t)
	require.NoError(t, job.StartServer())
	require.NoError(t, job.FallbackToClient("document service returned 503"))

	err := job.Complete(StrategyServer, 10)
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	require.NoError(t, job.Complete(StrategyClient, 4096))
	assert.Equal(t, StrategyClient, job.Strategy)
	assert.True(t, job.UsedFallback())
	assert.Equal(t, "document service returned 503", job.ServerError)
}

func TestExportJob_NoSecondFile(t *testing.T) {
	job := newJob(t)
	require.NoError(t, job.StartServer())
	require.NoError(t, job.Complete(StrategyServer, 100))

	assert.Error(t, job.FallbackToClient("late"))
	assert.Error(t, job.Complete(StrategyClient, 100))
	assert.Error(t, job.Fail("late"))
}

func TestExportJob_ClientFailureIsTerminal(t *testing.T) {
	job := newJob(t)
	require.NoError(t, job.FallbackToClient("server export disabled"))
	require.NoError(t, job.Fail("rasterize timed out"))

	assert.True(t, job.IsTerminal())
	assert.Equal(t, "rasterize timed out", job.ErrorMessage)
	assert.Error(t, job.StartServer())
}

func TestExportJob_EmptyFileRejected(t *testing.T) {
	job := newJob(t)
	require.NoError(t, job.StartServer())
	assert.Error(t, job.Complete(StrategyServer, 0))
	assert.Equal(t, ExportServerExport, job.Status)
}

func TestExportStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to ExportStatus
		want     bool
	}{
		{ExportPending, ExportServerExport, true},
		{ExportPending, ExportClientExport, true},
		{ExportPending, ExportCompleted, false},
		{ExportServerExport, ExportClientExport, true},
		{ExportServerExport, ExportFailed, false},
		{ExportClientExport, ExportServerExport, false},
		{ExportClientExport, ExportFailed, true},
		{ExportCompleted, ExportFailed, false},
		{ExportFailed, ExportPending, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestParseLayout(t *testing.T) {
	l, ok := ParseLayout("")
	assert.True(t, ok)
	assert.Equal(t, LayoutStatutory, l)

	l, ok = ParseLayout(" card ")
	assert.True(t, ok)
	assert.Equal(t, LayoutCard, l)

	_, ok = ParseLayout("poster")
	assert.False(t, ok)
}

func TestPaperSize(t *testing.T) {
	assert.Equal(t, 794, PaperSizeA4.CSSPixelWidth())
	w, h := PaperSizeA5.Dimensions()
	assert.Equal(t, 148.0, w)
	assert.Equal(t, 210.0, h)
}

func TestNewMargins(t *testing.T) {
	m, err := NewMargins(10, 10, 10, 10)
	require.NoError(t, err)
	assert.Equal(t, DefaultMargins(), m)

	_, err = NewMargins(-1, 0, 0, 0)
	assert.Error(t, err)
	_, err = NewMargins(51, 0, 0, 0)
	assert.Error(t, err)
}
