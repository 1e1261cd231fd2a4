package mcp

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acrolay/pdf-form-editor/internal/config"
	"github.com/acrolay/pdf-form-editor/internal/editor"
)

// writeTestPDF generates a valid one-page letter-size PDF with a single
// line of text.
func writeTestPDF(t *testing.T, path string) {
	t.Helper()

	content := "BT /F1 12 Tf 72 692 Td (Name:) Tj ET"
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

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()

	dir := t.TempDir()
	cfg := &config.Config{
		Mode:              config.ModeStdio,
		DocumentDirectory: dir,
		Zoom:              1.25,
		Version:           "test",
		ServerName:        "pdf-form-editor-test",
		LogLevel:          "info",
		MaxFileSize:       10 * 1024 * 1024,
	}

	ed := editor.New(editor.Options{Zoom: cfg.Zoom, MaxFileSize: cfg.MaxFileSize})
	t.Cleanup(ed.Close)

	s, err := NewServer(cfg, ed)
	require.NoError(t, err)
	return s, dir
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

// extractTextFromResult extracts text content from an MCP tool result.
func extractTextFromResult(result *mcp.CallToolResult) string {
	if result == nil {
		return ""
	}
	var text string
	for _, content := range result.Content {
		if textContent, ok := content.(mcp.TextContent); ok {
			text += textContent.Text
		} else if textPtr, ok := content.(*mcp.TextContent); ok {
			text += textPtr.Text
		}
	}
	return text
}

func openTestDocument(t *testing.T, s *Server, dir string) string {
	t.Helper()

	path := filepath.Join(dir, "doc.pdf")
	writeTestPDF(t, path)

	result, err := s.handleOpenDocument(context.Background(), callRequest(map[string]interface{}{
		"path": "doc.pdf",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError, extractTextFromResult(result))
	return path
}

func TestNewServer(t *testing.T) {
	s, _ := newTestServer(t)
	assert.NotNil(t, s.mcpServer)
	assert.NotNil(t, s.search)
	assert.NotNil(t, s.validator)
	assert.NotNil(t, s.preview)
	assert.NotNil(t, s.paths)
}

func TestNewServerNilEditor(t *testing.T) {
	cfg := &config.Config{DocumentDirectory: t.TempDir()}
	_, err := NewServer(cfg, nil)
	assert.Error(t, err)
}

func TestNewServerEmptyDocumentDirectory(t *testing.T) {
	ed := editor.New(editor.Options{})
	defer ed.Close()

	_, err := NewServer(&config.Config{}, ed)
	assert.Error(t, err)
}

func TestHandleOpenDocument(t *testing.T) {
	s, dir := newTestServer(t)

	path := openTestDocument(t, s, dir)
	require.True(t, s.editor.IsOpen())

	// Bare filenames resolve against the document directory.
	info, err := s.editor.Info()
	require.NoError(t, err)
	assert.Equal(t, path, info.Path)
}

func TestHandleOpenDocumentErrors(t *testing.T) {
	s, _ := newTestServer(t)

	result, err := s.handleOpenDocument(context.Background(), callRequest(map[string]interface{}{}))
	require.NoError(t, err)
	assert.True(t, result.IsError)

	result, err = s.handleOpenDocument(context.Background(), callRequest(map[string]interface{}{
		"path": "missing.pdf",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)

	// Paths outside the document directory are rejected.
	result, err = s.handleOpenDocument(context.Background(), callRequest(map[string]interface{}{
		"path": "/etc/passwd",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, extractTextFromResult(result), "outside")
}

func TestHandleCloseDocument(t *testing.T) {
	s, dir := newTestServer(t)

	result, err := s.handleCloseDocument(context.Background(), callRequest(nil))
	require.NoError(t, err)
	assert.Contains(t, extractTextFromResult(result), "No document open")

	openTestDocument(t, s, dir)
	result, err = s.handleCloseDocument(context.Background(), callRequest(nil))
	require.NoError(t, err)
	assert.Contains(t, extractTextFromResult(result), "closed")
	assert.False(t, s.editor.IsOpen())
}

func TestHandleDocumentInfo(t *testing.T) {
	s, dir := newTestServer(t)

	result, err := s.handleDocumentInfo(context.Background(), callRequest(nil))
	require.NoError(t, err)
	assert.True(t, result.IsError)

	openTestDocument(t, s, dir)
	result, err = s.handleDocumentInfo(context.Background(), callRequest(nil))
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := extractTextFromResult(result)
	assert.Contains(t, text, "Pages: 1")
	assert.Contains(t, text, "612.0 x 792.0 pt")
}

func TestHandlePlaceAndListFields(t *testing.T) {
	s, dir := newTestServer(t)
	openTestDocument(t, s, dir)

	result, err := s.handleListFields(context.Background(), callRequest(nil))
	require.NoError(t, err)
	assert.Contains(t, extractTextFromResult(result), "No fields placed")

	result, err = s.handlePlaceField(context.Background(), callRequest(map[string]interface{}{
		"type": "text",
		"x":    100.0,
		"y":    100.0,
	}))
	require.NoError(t, err)
	require.False(t, result.IsError, extractTextFromResult(result))

	text := extractTextFromResult(result)
	assert.Contains(t, text, "text_1 (text)")
	assert.Contains(t, text, "Position: (80.0, 688.0) pt")
	assert.Contains(t, text, "Size: 140.0 x 24.0 pt")

	result, err = s.handleListFields(context.Background(), callRequest(nil))
	require.NoError(t, err)
	assert.Contains(t, extractTextFromResult(result), "1 field(s)")
}

func TestHandlePlaceFieldErrors(t *testing.T) {
	s, dir := newTestServer(t)
	openTestDocument(t, s, dir)

	result, err := s.handlePlaceField(context.Background(), callRequest(map[string]interface{}{
		"type": "text",
		"x":    "not a number",
		"y":    100.0,
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)

	result, err = s.handlePlaceField(context.Background(), callRequest(map[string]interface{}{
		"type": "radio",
		"x":    100.0,
		"y":    100.0,
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleMoveResizeDuplicateDelete(t *testing.T) {
	s, dir := newTestServer(t)
	openTestDocument(t, s, dir)

	_, err := s.handlePlaceField(context.Background(), callRequest(map[string]interface{}{
		"type": "text", "x": 100.0, "y": 100.0,
	}))
	require.NoError(t, err)

	result, err := s.handleMoveField(context.Background(), callRequest(map[string]interface{}{
		"name": "text_1", "x": 50.0, "y": 60.0,
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Contains(t, extractTextFromResult(result), "Position: (50.0, 60.0) pt")

	result, err = s.handleResizeField(context.Background(), callRequest(map[string]interface{}{
		"name": "text_1", "width": 200.0, "height": 48.0,
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Contains(t, extractTextFromResult(result), "Size: 200.0 x 48.0 pt")

	result, err = s.handleDuplicateField(context.Background(), callRequest(map[string]interface{}{
		"name": "text_1",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Contains(t, extractTextFromResult(result), "text_2")

	result, err = s.handleDeleteField(context.Background(), callRequest(map[string]interface{}{
		"name": "text_2",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Contains(t, extractTextFromResult(result), "Deleted field: text_2")

	result, err = s.handleMoveField(context.Background(), callRequest(map[string]interface{}{
		"name": "missing", "x": 0.0, "y": 0.0,
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleSelectPage(t *testing.T) {
	s, dir := newTestServer(t)
	openTestDocument(t, s, dir)

	result, err := s.handleSelectPage(context.Background(), callRequest(map[string]interface{}{
		"page": 0.0,
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	result, err = s.handleSelectPage(context.Background(), callRequest(map[string]interface{}{
		"page": 5.0,
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)

	result, err = s.handleSelectPage(context.Background(), callRequest(map[string]interface{}{
		"page": "zero",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleExport(t *testing.T) {
	s, dir := newTestServer(t)
	openTestDocument(t, s, dir)

	_, err := s.handlePlaceField(context.Background(), callRequest(map[string]interface{}{
		"type": "text", "x": 100.0, "y": 100.0,
	}))
	require.NoError(t, err)

	result, err := s.handleExport(context.Background(), callRequest(map[string]interface{}{
		"output_path": "out.pdf",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError, extractTextFromResult(result))

	exported := filepath.Join(dir, "out.pdf")
	assert.Contains(t, extractTextFromResult(result), exported)
	_, statErr := os.Stat(exported)
	assert.NoError(t, statErr)

	// Export targets outside the document directory are rejected.
	result, err = s.handleExport(context.Background(), callRequest(map[string]interface{}{
		"output_path": "/tmp/escape.pdf",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandlePageText(t *testing.T) {
	s, dir := newTestServer(t)
	path := filepath.Join(dir, "doc.pdf")
	writeTestPDF(t, path)

	result, err := s.handlePageText(context.Background(), callRequest(map[string]interface{}{
		"path":       "doc.pdf",
		"page_index": 0.0,
	}))
	require.NoError(t, err)
	require.False(t, result.IsError, extractTextFromResult(result))

	text := extractTextFromResult(result)
	assert.Contains(t, text, "Name:")
	assert.Contains(t, text, "y=692.0")

	result, err = s.handlePageText(context.Background(), callRequest(map[string]interface{}{
		"path":       "doc.pdf",
		"page_index": 9.0,
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleSearchDirectory(t *testing.T) {
	s, dir := newTestServer(t)
	writeTestPDF(t, filepath.Join(dir, "invoice.pdf"))
	writeTestPDF(t, filepath.Join(dir, "report.pdf"))

	// Empty directory argument falls back to the configured default.
	result, err := s.handleSearchDirectory(context.Background(), callRequest(map[string]interface{}{}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := extractTextFromResult(result)
	assert.Contains(t, text, "Found 2 PDF file(s)")
	assert.Contains(t, text, "invoice.pdf")

	result, err = s.handleSearchDirectory(context.Background(), callRequest(map[string]interface{}{
		"query": "invoice",
	}))
	require.NoError(t, err)
	text = extractTextFromResult(result)
	assert.Contains(t, text, "Found 1 PDF file(s)")

	result, err = s.handleSearchDirectory(context.Background(), callRequest(map[string]interface{}{
		"query": "nothing-matches",
	}))
	require.NoError(t, err)
	assert.Contains(t, extractTextFromResult(result), "No PDF files found")

	result, err = s.handleSearchDirectory(context.Background(), callRequest(map[string]interface{}{
		"directory": "/etc",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleValidateFile(t *testing.T) {
	s, dir := newTestServer(t)
	writeTestPDF(t, filepath.Join(dir, "valid.pdf"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fake.pdf"), []byte("nope"), 0o644))

	result, err := s.handleValidateFile(context.Background(), callRequest(map[string]interface{}{
		"path": "valid.pdf",
	}))
	require.NoError(t, err)
	assert.Contains(t, extractTextFromResult(result), "is valid and readable")

	result, err = s.handleValidateFile(context.Background(), callRequest(map[string]interface{}{
		"path": "fake.pdf",
	}))
	require.NoError(t, err)
	assert.Contains(t, extractTextFromResult(result), "validation failed")
}

func TestFormatFieldOptionalLines(t *testing.T) {
	s, _ := newTestServer(t)

	text := s.formatField(editor.FieldInfo{
		Name: "checkbox_1", Type: "checkbox", Page: 1,
		X: 10, Y: 20, Width: 18, Height: 18,
		Required: true, Checked: true,
	})
	assert.Contains(t, text, "Required: true")
	assert.Contains(t, text, "Checked: true")
	assert.False(t, strings.Contains(text, "Default value"))
}
