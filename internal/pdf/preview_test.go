package pdf

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeContentPDF generates a one-page letter-size PDF with the given
// content stream.
func writeContentPDF(t *testing.T, path, content string) {
	t.Helper()

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [5 0 R] /Count 1 >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents 4 0 R >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects)+1)
	for i, body := range objects {
		offsets[i+1] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}
	xrefOffset := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= len(objects); i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(objects)+1, xrefOffset)

	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestPageText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "text.pdf")
	writeTestPDF(t, path, letterMetrics, a4Metrics)

	p := NewPreview(testMaxFileSize)
	result, err := p.PageText(PDFPageTextRequest{Path: path, PageIndex: 0})
	require.NoError(t, err)

	assert.Equal(t, path, result.Path)
	assert.Equal(t, 0, result.PageIndex)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "Page 1", result.Rows[0].Text)
	assert.InDelta(t, 692.0, result.Rows[0].Y, 1.0)

	result, err = p.PageText(PDFPageTextRequest{Path: path, PageIndex: 1})
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "Page 2", result.Rows[0].Text)
}

func TestPageTextPositioningOperators(t *testing.T) {
	// One row placed with Td, one with Tm, one advanced with T*; every
	// baseline must come out in point space, top of the page first.
	content := "BT /F1 12 Tf 20 TL 72 700 Td (Name:) Tj " +
		"1 0 0 1 72 660 Tm (Address:) Tj T* (City:) Tj ET"
	path := filepath.Join(t.TempDir(), "labels.pdf")
	writeContentPDF(t, path, content)

	p := NewPreview(testMaxFileSize)
	result, err := p.PageText(PDFPageTextRequest{Path: path, PageIndex: 0})
	require.NoError(t, err)

	require.Len(t, result.Rows, 3)
	assert.Equal(t, "Name:", result.Rows[0].Text)
	assert.InDelta(t, 700.0, result.Rows[0].Y, 1.0)
	assert.Equal(t, "Address:", result.Rows[1].Text)
	assert.InDelta(t, 660.0, result.Rows[1].Y, 1.0)
	assert.Equal(t, "City:", result.Rows[2].Text)
	assert.InDelta(t, 640.0, result.Rows[2].Y, 1.0)
}

func TestPageTextErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "text.pdf")
	writeTestPDF(t, path, letterMetrics)

	p := NewPreview(testMaxFileSize)

	_, err := p.PageText(PDFPageTextRequest{Path: "", PageIndex: 0})
	assert.Error(t, err)

	_, err = p.PageText(PDFPageTextRequest{Path: filepath.Join(dir, "missing.pdf"), PageIndex: 0})
	assert.Error(t, err)

	_, err = p.PageText(PDFPageTextRequest{Path: path, PageIndex: -1})
	assert.Error(t, err)

	_, err = p.PageText(PDFPageTextRequest{Path: path, PageIndex: 1})
	assert.Error(t, err)
}

func TestPageTextRejectsOversizeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "text.pdf")
	writeTestPDF(t, path, letterMetrics)

	p := NewPreview(16)
	_, err := p.PageText(PDFPageTextRequest{Path: path, PageIndex: 0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too large")
}
