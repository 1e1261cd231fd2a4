package pdf

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acrolay/pdf-form-editor/internal/form"
)

func TestImportFieldsNoForm(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.pdf")
	writeTestPDF(t, path, letterMetrics)

	fields, err := ImportFields(path)
	require.NoError(t, err)
	assert.Empty(t, fields)
}

func TestImportFieldsMissingFile(t *testing.T) {
	_, err := ImportFields(filepath.Join(t.TempDir(), "missing.pdf"))
	require.Error(t, err)

	var importErr *ImportError
	require.ErrorAs(t, err, &importErr)
}

func TestImportFieldsTextWidget(t *testing.T) {
	path := filepath.Join(t.TempDir(), "text.pdf")
	writeTestPDFWithAnnots(t, path, []form.PageMetrics{letterMetrics}, map[int][]string{
		0: {"<< /Type /Annot /Subtype /Widget /FT /Tx /T (name_1) /Rect [72 700 212 724] /Ff 2 /V (Ada) >>"},
	})

	fields, err := ImportFields(path)
	require.NoError(t, err)
	require.Len(t, fields, 1)

	f := fields[0]
	assert.Equal(t, form.FieldTypeText, f.Type)
	assert.Equal(t, "name_1", f.Name)
	assert.Equal(t, "Ada", f.DefaultValue)
	assert.True(t, f.Required)
	require.True(t, f.Page.Assigned())
	assert.Equal(t, 0, f.Page.Index())
	assert.InDelta(t, 72.0, f.X, 1e-9)
	assert.InDelta(t, 700.0, f.Y, 1e-9)
	assert.InDelta(t, 140.0, f.Width, 1e-9)
	assert.InDelta(t, 24.0, f.Height, 1e-9)
}

func TestImportFieldsCheckboxStates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boxes.pdf")
	writeTestPDFWithAnnots(t, path, []form.PageMetrics{letterMetrics}, map[int][]string{
		0: {
			"<< /Subtype /Widget /FT /Btn /T (agree) /Rect [72 600 90 618] /V /Yes /AS /Yes >>",
			"<< /Subtype /Widget /FT /Btn /T (subscribe) /Rect [72 560 90 578] /V /Off /AS /Off >>",
			"<< /Subtype /Widget /FT /Btn /T (bare) /Rect [72 520 90 538] >>",
		},
	})

	fields, err := ImportFields(path)
	require.NoError(t, err)
	require.Len(t, fields, 3)

	byName := map[string]*form.Field{}
	for _, f := range fields {
		require.Equal(t, form.FieldTypeCheckbox, f.Type)
		byName[f.Name] = f
	}

	assert.True(t, byName["agree"].Checked)
	assert.False(t, byName["subscribe"].Checked)
	assert.False(t, byName["bare"].Checked)
}

func TestImportFieldsSkipsUnsupportedAnnotations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mixed.pdf")
	writeTestPDFWithAnnots(t, path, []form.PageMetrics{letterMetrics}, map[int][]string{
		0: {
			"<< /Subtype /Link /Rect [72 700 212 724] >>",
			"<< /Subtype /Widget /FT /Ch /T (dropdown) /Rect [72 650 212 674] >>",
			"<< /Subtype /Widget /FT /Tx /T (no_rect) >>",
			"<< /Subtype /Widget /FT /Tx /T (keep_1) /Rect [72 600 212 624] >>",
		},
	})

	fields, err := ImportFields(path)
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, "keep_1", fields[0].Name)
}

func TestImportFieldsParentInheritance(t *testing.T) {
	// The widget kid carries only geometry; type, name, flags and value
	// live on the parent field dictionary.
	path := filepath.Join(t.TempDir(), "parent.pdf")
	writeTestPDFWithAnnots(t, path, []form.PageMetrics{letterMetrics}, map[int][]string{
		0: {"<< /Subtype /Widget /Rect [72 500 212 524] /Parent << /FT /Tx /T (inherited_1) /Ff 2 /V (from parent) >> >>"},
	})

	fields, err := ImportFields(path)
	require.NoError(t, err)
	require.Len(t, fields, 1)

	f := fields[0]
	assert.Equal(t, form.FieldTypeText, f.Type)
	assert.Equal(t, "inherited_1", f.Name)
	assert.Equal(t, "from parent", f.DefaultValue)
	assert.True(t, f.Required)
}

func TestImportFieldsMultiplePages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pages.pdf")
	writeTestPDFWithAnnots(t, path, []form.PageMetrics{letterMetrics, a4Metrics}, map[int][]string{
		0: {"<< /Subtype /Widget /FT /Tx /T (first) /Rect [72 700 212 724] >>"},
		1: {"<< /Subtype /Widget /FT /Tx /T (second) /Rect [50 400 190 424] >>"},
	})

	fields, err := ImportFields(path)
	require.NoError(t, err)
	require.Len(t, fields, 2)

	assert.Equal(t, 0, fields[0].Page.Index())
	assert.Equal(t, "first", fields[0].Name)
	assert.Equal(t, 1, fields[1].Page.Index())
	assert.Equal(t, "second", fields[1].Name)
}
