package pdf

import "fmt"

// LoadError reports a source document that is missing or unparsable.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load PDF %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// ImportError reports a failed scan for existing form widgets. Callers
// treat it as non-fatal: editing continues with zero imported fields.
type ImportError struct {
	Path string
	Err  error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("failed to import form fields from %s: %v", e.Path, e.Err)
}

func (e *ImportError) Unwrap() error { return e.Err }

// RenderError reports a page that could not be rasterized.
type RenderError struct {
	Path string
	Page int
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("failed to render page %d of %s: %v", e.Page+1, e.Path, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// WriteError reports a failed export. The output file must not be
// considered produced when one is returned.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write output PDF %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
