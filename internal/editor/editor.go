// Package editor owns the editing session for one open document: the
// scratch working copy, the in-memory field state, and the canvas
// controller, glued together behind a single mutation surface the shell
// drives.
package editor

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	"github.com/acrolay/pdf-form-editor/internal/canvas"
	"github.com/acrolay/pdf-form-editor/internal/form"
	"github.com/acrolay/pdf-form-editor/internal/pdf"
)

// Options configures a new editor.
type Options struct {
	// Zoom is the rendering zoom factor pixel geometry derives from.
	Zoom float64
	// ScratchDirectory receives the scratch working copies. Empty means
	// the system temp directory.
	ScratchDirectory string
	// MaxFileSize bounds the size of documents the editor opens.
	MaxFileSize int64
}

// Editor is the single-document editing session. Exactly one document is
// open at a time; opening another tears the previous session down. All
// exported methods are safe for serialized shell dispatch.
type Editor struct {
	mu sync.Mutex

	zoom        float64
	scratchDir  string
	maxFileSize int64
	validator   *pdf.Validator

	sourcePath    string
	scratchPath   string
	doc           *pdf.Document
	session       *form.Session
	names         *form.NameAllocator
	controller    *canvas.Controller
	currentPage   int
	importWarning string
}

// New creates an editor with no document open.
func New(opts Options) *Editor {
	zoom := opts.Zoom
	if zoom <= 0 {
		zoom = 1.25
	}
	e := &Editor{
		zoom:        zoom,
		scratchDir:  opts.ScratchDirectory,
		maxFileSize: opts.MaxFileSize,
		validator:   pdf.NewValidator(opts.MaxFileSize),
	}
	e.controller = canvas.NewController(e)
	return e
}

// FieldInfo is a read-only snapshot of a placed field.
type FieldInfo struct {
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	Page         int     `json:"page"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	Required     bool    `json:"required"`
	DefaultValue string  `json:"default_value,omitempty"`
	Checked      bool    `json:"checked,omitempty"`
}

// PageInfo describes one page of the open document.
type PageInfo struct {
	Index      int     `json:"index"`
	WidthPt    float64 `json:"width_pt"`
	HeightPt   float64 `json:"height_pt"`
	FieldCount int     `json:"field_count"`
}

// DocumentInfo describes the open document and session state.
type DocumentInfo struct {
	Path          string     `json:"path"`
	PageCount     int        `json:"page_count"`
	CurrentPage   int        `json:"current_page"`
	Zoom          float64    `json:"zoom"`
	TotalFields   int        `json:"total_fields"`
	Pages         []PageInfo `json:"pages"`
	ImportWarning string     `json:"import_warning,omitempty"`
}

// OpenResult reports the outcome of opening a document.
type OpenResult struct {
	Path           string `json:"path"`
	PageCount      int    `json:"page_count"`
	ImportedFields int    `json:"imported_fields"`
	ImportWarning  string `json:"import_warning,omitempty"`
}

// Open loads the document at path into a fresh session. The source is
// copied to a scratch working file first; all edits and rewrites happen
// against the copy. A failed widget scan is downgraded to a warning and
// editing starts with zero imported fields.
func (e *Editor) Open(path string) (*OpenResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.closeLocked()

	if err := e.validateSource(path); err != nil {
		return nil, &pdf.LoadError{Path: path, Err: err}
	}

	scratch, err := e.copyToScratch(path)
	if err != nil {
		return nil, &pdf.LoadError{Path: path, Err: err}
	}

	doc, err := pdf.Open(scratch)
	if err != nil {
		os.Remove(scratch)
		return nil, err
	}

	imported, err := pdf.ImportFields(scratch)
	if err != nil {
		// Non-fatal: the document stays editable with no imported fields.
		log.Printf("warning: %v", err)
		e.importWarning = err.Error()
		imported = nil
	} else {
		e.importWarning = ""
	}

	e.sourcePath = path
	e.scratchPath = scratch
	e.doc = doc
	e.session = form.NewSessionWithFields(imported)
	e.names = form.NewNameAllocator()
	e.names.Seed(imported)
	e.assignNamesLocked()

	if err := e.selectPageLocked(0); err != nil {
		e.closeLocked()
		return nil, &pdf.LoadError{Path: path, Err: err}
	}

	return &OpenResult{
		Path:           path,
		PageCount:      doc.PageCount(),
		ImportedFields: len(imported),
		ImportWarning:  e.importWarning,
	}, nil
}

// Close tears the session down: the document handle is released and the
// scratch copy removed. Scratch removal is best-effort; a failure is
// logged, not surfaced.
func (e *Editor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closeLocked()
}

// IsOpen reports whether a document is open.
func (e *Editor) IsOpen() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc != nil
}

// Info returns a snapshot of the open document and its per-page field
// counts.
func (e *Editor) Info() (*DocumentInfo, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.doc == nil {
		return nil, fmt.Errorf("no document open")
	}

	info := &DocumentInfo{
		Path:          e.sourcePath,
		PageCount:     e.doc.PageCount(),
		CurrentPage:   e.currentPage,
		Zoom:          e.zoom,
		TotalFields:   e.session.TotalFieldCount(),
		ImportWarning: e.importWarning,
	}
	for i := 0; i < e.doc.PageCount(); i++ {
		metrics, err := e.doc.PageMetrics(i)
		if err != nil {
			return nil, err
		}
		info.Pages = append(info.Pages, PageInfo{
			Index:      i,
			WidthPt:    metrics.WidthPt,
			HeightPt:   metrics.HeightPt,
			FieldCount: e.session.PageFieldCount(i),
		})
	}
	return info, nil
}

// SelectPage switches the canvas to the given zero-based page.
func (e *Editor) SelectPage(pageIndex int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.doc == nil {
		return fmt.Errorf("no document open")
	}
	return e.selectPageLocked(pageIndex)
}

// ListFields returns snapshots of every field in the session, pages in
// ascending order.
func (e *Editor) ListFields() ([]FieldInfo, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.doc == nil {
		return nil, fmt.Errorf("no document open")
	}

	fields := e.session.AllFields()
	infos := make([]FieldInfo, 0, len(fields))
	for _, f := range fields {
		infos = append(infos, snapshotField(f))
	}
	return infos, nil
}

// PlaceField creates a field of the given type at a pixel position on the
// current page, replaying the placement gesture through the canvas state
// machine. The new field gets a fresh default name.
func (e *Editor) PlaceField(fieldType form.FieldType, xPx, yPx float64) (*FieldInfo, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.doc == nil {
		return nil, fmt.Errorf("no document open")
	}
	if !fieldType.Valid() {
		return nil, fmt.Errorf("unknown field type: %s", fieldType)
	}

	e.controller.BeginPlacement(fieldType)
	e.controller.PointerDown(canvas.Point{X: xPx, Y: yPx})
	e.controller.PointerUp()

	placed := e.controller.SelectedField()
	if placed == nil {
		return nil, fmt.Errorf("field placement failed")
	}
	info := snapshotField(placed)
	return &info, nil
}

// MoveField moves the named field so its lower-left corner sits at the
// given point-space position, clamped in-page.
func (e *Editor) MoveField(name string, xPt, yPt float64) (*FieldInfo, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.selectFieldLocked(name); err != nil {
		return nil, err
	}
	if !e.controller.MoveSelected(xPt, yPt) {
		return nil, fmt.Errorf("failed to move field: %s", name)
	}
	info := snapshotField(e.controller.SelectedField())
	return &info, nil
}

// ResizeField resizes the named field from its fixed origin to the given
// point-space dimensions, subject to the canvas minimum-size and page
// bounds. Checkboxes stay square.
func (e *Editor) ResizeField(name string, widthPt, heightPt float64) (*FieldInfo, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.selectFieldLocked(name); err != nil {
		return nil, err
	}
	if !e.controller.ResizeSelected(widthPt, heightPt) {
		return nil, fmt.Errorf("failed to resize field: %s", name)
	}
	info := snapshotField(e.controller.SelectedField())
	return &info, nil
}

// DeleteField removes the named field.
func (e *Editor) DeleteField(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.selectFieldLocked(name); err != nil {
		return err
	}
	if !e.controller.DeleteSelected() {
		return fmt.Errorf("failed to delete field: %s", name)
	}
	return nil
}

// DuplicateField deep-copies the named field, offset diagonally and
// clamped in-page, under a fresh default name.
func (e *Editor) DuplicateField(name string) (*FieldInfo, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.selectFieldLocked(name); err != nil {
		return nil, err
	}
	if !e.controller.DuplicateSelected() {
		return nil, fmt.Errorf("failed to duplicate field: %s", name)
	}
	info := snapshotField(e.controller.SelectedField())
	return &info, nil
}

// Export writes the session's fields onto the document at outputPath. The
// document handle is released for the duration of the merge and reopened
// afterwards regardless of the outcome, so a failed export never leaves
// the session unusable.
func (e *Editor) Export(outputPath string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.doc == nil {
		return fmt.Errorf("no document open")
	}
	if outputPath == "" {
		return fmt.Errorf("output path cannot be empty")
	}

	e.assignNamesLocked()
	fields := e.session.AllFields()

	e.doc.Close()
	writeErr := pdf.WriteWithFields(e.scratchPath, outputPath, fields)

	doc, reopenErr := pdf.Open(e.scratchPath)
	if reopenErr != nil {
		log.Printf("warning: failed to reopen working copy %s: %v", e.scratchPath, reopenErr)
	} else {
		e.doc = doc
	}

	return writeErr
}

// SelectionChanged implements canvas.Listener.
func (e *Editor) SelectionChanged(f *form.Field) {}

// FieldsChanged implements canvas.Listener. Every successful mutation
// lands here; fields still unnamed after the mutation get their default
// name assigned.
func (e *Editor) FieldsChanged() {
	e.assignNamesLocked()
}

// FieldCreated implements canvas.Listener. Placement auto-reverts to
// pointer mode inside the controller; nothing to mirror in a headless
// shell.
func (e *Editor) FieldCreated() {}

func (e *Editor) validateSource(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	return e.validator.ValidateFileInfo(path, info)
}

// copyToScratch copies the source into a scratch file the session edits
// and rewrites, leaving the original untouched.
func (e *Editor) copyToScratch(path string) (string, error) {
	src, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open source: %w", err)
	}
	defer src.Close()

	dir := e.scratchDir
	if dir == "" {
		dir = os.TempDir()
	}
	tmp, err := os.CreateTemp(dir, "formedit-*.pdf")
	if err != nil {
		return "", fmt.Errorf("failed to create scratch copy: %w", err)
	}

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to copy to scratch: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to close scratch copy: %w", err)
	}
	return tmp.Name(), nil
}

func (e *Editor) selectPageLocked(pageIndex int) error {
	metrics, err := e.doc.PageMetrics(pageIndex)
	if err != nil {
		return err
	}
	e.currentPage = pageIndex
	e.controller.SetPage(
		e.session.Page(pageIndex),
		canvas.NewMapperForZoom(metrics, e.zoom),
	)
	return nil
}

// selectFieldLocked locates a field by name, switching the canvas to its
// page when needed, and selects it.
func (e *Editor) selectFieldLocked(name string) error {
	if e.doc == nil {
		return fmt.Errorf("no document open")
	}
	page, index, ok := e.session.FindField(name)
	if !ok {
		return fmt.Errorf("no such field: %s", name)
	}
	if page != e.currentPage {
		if err := e.selectPageLocked(page); err != nil {
			return err
		}
	}
	if !e.controller.Select(index) {
		return fmt.Errorf("failed to select field: %s", name)
	}
	return nil
}

// assignNamesLocked gives a default name to every field that still lacks
// one. Runs after every mutation, so no field reaches export unnamed.
func (e *Editor) assignNamesLocked() {
	if e.session == nil {
		return
	}
	for _, f := range e.session.AllFields() {
		if f.Name == "" {
			f.Name = e.names.Next(f.Type)
		}
	}
}

func (e *Editor) closeLocked() {
	if e.doc != nil {
		e.doc.Close()
		e.doc = nil
	}
	if e.scratchPath != "" {
		if err := os.Remove(e.scratchPath); err != nil && !os.IsNotExist(err) {
			log.Printf("warning: failed to remove scratch copy %s: %v", e.scratchPath, err)
		}
		e.scratchPath = ""
	}
	e.sourcePath = ""
	e.session = nil
	e.names = nil
	e.currentPage = 0
	e.importWarning = ""
	e.controller.ClearPage()
}

func snapshotField(f *form.Field) FieldInfo {
	info := FieldInfo{
		Name:         f.Name,
		Type:         string(f.Type),
		X:            f.X,
		Y:            f.Y,
		Width:        f.Width,
		Height:       f.Height,
		Required:     f.Required,
		DefaultValue: f.DefaultValue,
		Checked:      f.Checked,
	}
	if f.Page.Assigned() {
		info.Page = f.Page.Index()
	}
	return info
}
