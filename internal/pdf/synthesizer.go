package pdf

import (
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/acrolay/pdf-form-editor/internal/form"
)

// Widget annotation defaults. Appearance generation is left to the
// viewer via the AcroForm NeedAppearances flag, so widgets carry no
// appearance streams, fill color or border styling.
const (
	// Default appearance string for text widgets: auto-sized Helvetica,
	// black text.
	textDefaultAppearance = "/Helv 0 Tf 0 g"

	// ZapfDingbats glyph "4", the check-style indicator for checkbox
	// widgets.
	checkboxCheckStyle = "4"

	// Annotation flag bit 3: print the widget along with the page.
	annotFlagPrint = 4
)

// SynthesizeWidgets converts the session's fields into widget annotation
// dictionaries grouped by zero-based page index. Field geometry is already
// in point space, the space annotation rectangles use, so it passes
// through unchanged.
func SynthesizeWidgets(fields []*form.Field) map[int][]types.Dict {
	widgets := make(map[int][]types.Dict)
	for _, f := range fields {
		if !f.Page.Assigned() {
			continue
		}
		page := f.Page.Index()
		widgets[page] = append(widgets[page], widgetForField(f))
	}
	return widgets
}

func widgetForField(f *form.Field) types.Dict {
	llx, lly, urx, ury := f.Rect()

	widget := types.Dict{
		"Type":    types.Name("Annot"),
		"Subtype": types.Name("Widget"),
		"T":       escapedStringLiteral(f.Name),
		"Rect":    types.NewNumberArray(llx, lly, urx, ury),
		"F":       types.Integer(annotFlagPrint),
		"Border":  types.NewNumberArray(0, 0, 0),
	}

	switch f.Type {
	case form.FieldTypeCheckbox:
		state := "Off"
		if f.Checked {
			state = "Yes"
		}
		widget["FT"] = types.Name("Btn")
		widget["V"] = types.Name(state)
		widget["AS"] = types.Name(state)
		widget["MK"] = types.Dict{
			"CA": types.StringLiteral(checkboxCheckStyle),
		}
	default:
		widget["FT"] = types.Name("Tx")
		widget["DA"] = types.StringLiteral(textDefaultAppearance)
		if f.DefaultValue != "" {
			widget["V"] = escapedStringLiteral(f.DefaultValue)
			widget["DV"] = escapedStringLiteral(f.DefaultValue)
		}
	}

	return widget
}

// escapedStringLiteral applies PDF string escaping so names and values
// carrying parentheses or backslashes survive the write/read round trip.
func escapedStringLiteral(s string) types.StringLiteral {
	escaped, err := types.Escape(s)
	if err != nil || escaped == nil {
		return types.StringLiteral(s)
	}
	return types.StringLiteral(*escaped)
}

// helveticaFont is the font resource referenced by the text widget default
// appearance string.
func helveticaFont() types.Dict {
	return types.Dict{
		"Type":     types.Name("Font"),
		"Subtype":  types.Name("Type1"),
		"BaseFont": types.Name("Helvetica"),
		"Encoding": types.Name("WinAnsiEncoding"),
	}
}

// zapfDingbatsFont is the symbol font checkbox check marks draw from.
func zapfDingbatsFont() types.Dict {
	return types.Dict{
		"Type":     types.Name("Font"),
		"Subtype":  types.Name("Type1"),
		"BaseFont": types.Name("ZapfDingbats"),
	}
}
