package pdf

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/acrolay/pdf-form-editor/internal/form"
)

// writeTestPDF generates a small but structurally valid PDF at path, one
// page per metrics entry, each with a single line of text.
func writeTestPDF(t *testing.T, path string, pages ...form.PageMetrics) {
	t.Helper()
	writeTestPDFWithAnnots(t, path, pages, nil)
}

// writeTestPDFWithAnnots additionally embeds raw annotation dictionaries
// into the page Annots arrays, keyed by zero-based page index.
func writeTestPDFWithAnnots(t *testing.T, path string, pages []form.PageMetrics, annots map[int][]string) {
	t.Helper()

	var objects []string
	addObj := func(body string) int {
		objects = append(objects, body)
		return len(objects)
	}

	catalogNum := addObj("") // backfilled below
	pagesNum := addObj("")
	fontNum := addObj("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")

	var kids []string
	for i, m := range pages {
		content := fmt.Sprintf("BT /F1 12 Tf 72 %d Td (Page %d) Tj ET", int(m.HeightPt)-100, i+1)
		contentNum := addObj(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))

		page := fmt.Sprintf(
			"<< /Type /Page /Parent %d 0 R /MediaBox [0 0 %g %g] /Resources << /Font << /F1 %d 0 R >> >> /Contents %d 0 R",
			pagesNum, m.WidthPt, m.HeightPt, fontNum, contentNum)
		if len(annots[i]) > 0 {
			page += fmt.Sprintf(" /Annots [%s]", strings.Join(annots[i], " "))
		}
		page += " >>"

		pageNum := addObj(page)
		kids = append(kids, fmt.Sprintf("%d 0 R", pageNum))
	}

	objects[catalogNum-1] = fmt.Sprintf("<< /Type /Catalog /Pages %d 0 R >>", pagesNum)
	objects[pagesNum-1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>",
		strings.Join(kids, " "), len(pages))

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
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root %d 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(objects)+1, catalogNum, xrefOffset)

	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

var (
	letterMetrics = form.PageMetrics{WidthPt: 612, HeightPt: 792}
	a4Metrics     = form.PageMetrics{WidthPt: 595, HeightPt: 842}
)
