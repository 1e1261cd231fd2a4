package pdf

import (
	"fmt"
	"image"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/acrolay/pdf-form-editor/internal/form"
)

// Document is an open source PDF: its page count and per-page dimensions.
// The handle is exclusively owned by the editing session and must be
// closed before the backing file is rewritten, then reopened afterwards.
type Document struct {
	path   string
	ctx    *model.Context
	dims   []form.PageMetrics
	closed bool
}

// Open reads the document at path. Missing or unparsable files produce a
// LoadError.
func Open(path string) (*Document, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	ctx, err := readContext(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	pageDims, err := ctx.PageDims()
	if err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("failed to read page dimensions: %w", err)}
	}

	dims := make([]form.PageMetrics, len(pageDims))
	for i, d := range pageDims {
		dims[i] = form.PageMetrics{WidthPt: d.Width, HeightPt: d.Height}
	}

	return &Document{path: path, ctx: ctx, dims: dims}, nil
}

// Path returns the path the document was opened from.
func (d *Document) Path() string { return d.path }

// PageCount returns the number of pages.
func (d *Document) PageCount() int { return len(d.dims) }

// PageMetrics returns the dimensions of the given zero-based page.
func (d *Document) PageMetrics(pageIndex int) (form.PageMetrics, error) {
	if pageIndex < 0 || pageIndex >= len(d.dims) {
		return form.PageMetrics{}, fmt.Errorf("page index out of range: %d", pageIndex)
	}
	return d.dims[pageIndex], nil
}

// Close releases the handle. Closing an already closed document is a
// no-op.
func (d *Document) Close() error {
	d.ctx = nil
	d.closed = true
	return nil
}

// Closed reports whether the handle has been released.
func (d *Document) Closed() bool { return d.closed }

// Renderer rasterizes document pages for display. Rasterization is
// delegated to an external engine; the editor itself only derives pixel
// geometry from zoom and page dimensions. Implementations return a
// RenderError when a page cannot be rasterized.
type Renderer interface {
	RenderPage(pageIndex int, zoom float64) (image.Image, error)
}

// readContext reads a pdfcpu context from a file with relaxed validation,
// the whole document parsed into memory.
func readContext(path string) (*model.Context, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(f, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF context: %w", err)
	}

	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("failed to ensure page count: %w", err)
	}

	return ctx, nil
}
