package pdf

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Preview extracts positioned page text so callers can line field
// placements up with the labels printed on the page.
type Preview struct {
	maxFileSize int64
}

// NewPreview creates a new page text previewer with the specified
// constraints.
func NewPreview(maxFileSize int64) *Preview {
	return &Preview{
		maxFileSize: maxFileSize,
	}
}

// PageText returns the text of one page grouped into rows, top of the
// page first. Row positions are in points with a bottom-left origin, the
// same space field geometry lives in.
func (p *Preview) PageText(req PDFPageTextRequest) (*PDFPageTextResult, error) {
	if req.Path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}

	fileInfo, err := os.Stat(req.Path)
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}
	if fileInfo.Size() > p.maxFileSize {
		return nil, fmt.Errorf("file too large: %d bytes (max: %d bytes)",
			fileInfo.Size(), p.maxFileSize)
	}

	f, reader, err := pdf.Open(req.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	if req.PageIndex < 0 || req.PageIndex >= reader.NumPage() {
		return nil, fmt.Errorf("page index out of range: %d", req.PageIndex)
	}

	page := reader.Page(req.PageIndex + 1)
	if page.V.IsNull() {
		return nil, fmt.Errorf("page %d has no content", req.PageIndex+1)
	}

	content, err := pageContent(page)
	if err != nil {
		return nil, err
	}

	result := &PDFPageTextResult{
		Path:      req.Path,
		PageIndex: req.PageIndex,
	}

	for _, row := range groupIntoRows(content.Text) {
		// Stable: glyphs sharing an x position keep content-stream order.
		sort.SliceStable(row.texts, func(i, j int) bool { return row.texts[i].X < row.texts[j].X })

		var builder strings.Builder
		for _, t := range row.texts {
			// Content emits a synthetic newline glyph after each TJ array.
			if t.S == "\n" {
				continue
			}
			builder.WriteString(t.S)
		}
		text := strings.TrimSpace(builder.String())
		if text == "" {
			continue
		}

		result.Rows = append(result.Rows, TextRow{
			Y:    row.y,
			Text: text,
		})
	}

	// Top of the page first: larger y means higher up in point space.
	sort.Slice(result.Rows, func(i, j int) bool { return result.Rows[i].Y > result.Rows[j].Y })

	return result, nil
}

// pageContent extracts the page's positioned glyphs. Content interprets
// the full text-positioning state (Td, TD, Tm, T*), so baselines come out
// right for every positioning operator; it panics on malformed content
// streams, converted to an error here.
func pageContent(page pdf.Page) (content pdf.Content, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to extract page text: %v", r)
		}
	}()
	return page.Content(), nil
}

type textRowGroup struct {
	y     float64
	texts []pdf.Text
}

// groupIntoRows buckets glyphs by baseline, quantized to whole points so
// rounding noise does not split a line.
func groupIntoRows(texts []pdf.Text) []*textRowGroup {
	byBaseline := make(map[int64]*textRowGroup)
	var rows []*textRowGroup

	for _, t := range texts {
		key := int64(math.Round(t.Y))
		row, ok := byBaseline[key]
		if !ok {
			row = &textRowGroup{y: t.Y}
			byBaseline[key] = row
			rows = append(rows, row)
		}
		row.texts = append(row.texts, t)
	}
	return rows
}
