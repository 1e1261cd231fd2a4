package pdf

import (
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/acrolay/pdf-form-editor/internal/form"
)

// Field flag bit 2: the field is required (PDF 32000-1, table 221).
const fieldFlagRequired = 2

// ImportFields reads an existing document's AcroForm widgets back into
// field models so an already-built form round-trips through the editor.
// Widgets missing a field type or rectangle are skipped, not errors; a
// document that cannot be scanned at all produces an ImportError.
func ImportFields(path string) ([]*form.Field, error) {
	ctx, err := readContext(path)
	if err != nil {
		return nil, &ImportError{Path: path, Err: err}
	}

	var imported []*form.Field

	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		pageDict, _, _, err := ctx.PageDict(pageNr, false)
		if err != nil {
			return nil, &ImportError{Path: path, Err: err}
		}
		if pageDict == nil {
			continue
		}

		annotsObj, found := pageDict.Find("Annots")
		if !found {
			continue
		}
		annots, err := ctx.DereferenceArray(annotsObj)
		if err != nil {
			return nil, &ImportError{Path: path, Err: err}
		}

		for _, annotRef := range annots {
			field := importWidget(ctx, annotRef, pageNr-1)
			if field != nil {
				imported = append(imported, field)
			}
		}
	}

	return imported, nil
}

// importWidget converts one widget annotation into a field model, or
// returns nil when the annotation is not an importable widget. Entries
// inheritable through /Parent (field type, name, flags, value) are
// resolved against the parent field dictionary.
func importWidget(ctx *model.Context, annotRef types.Object, pageIndex int) *form.Field {
	annot, err := ctx.DereferenceDict(annotRef)
	if err != nil || annot == nil {
		return nil
	}
	if name, err := dereferenceName(ctx, annot, "Subtype"); err != nil || name != "Widget" {
		return nil
	}

	var parent types.Dict
	if parentObj, found := annot.Find("Parent"); found {
		parent, _ = ctx.DereferenceDict(parentObj)
	}

	fieldType, err := inheritedName(ctx, annot, parent, "FT")
	if err != nil {
		return nil
	}

	llx, lly, urx, ury, ok := widgetRect(ctx, annot)
	if !ok {
		return nil
	}

	name, _ := inheritedString(ctx, annot, parent, "T")
	required := inheritedFlags(ctx, annot, parent)&fieldFlagRequired != 0

	base := &form.Field{
		Page:     form.PageAt(pageIndex),
		Name:     name,
		X:        llx,
		Y:        lly,
		Width:    max(0, urx-llx),
		Height:   max(0, ury-lly),
		Required: required,
	}

	switch fieldType {
	case "Tx":
		base.Type = form.FieldTypeText
		base.DefaultValue, _ = inheritedString(ctx, annot, parent, "V")
		return base
	case "Btn":
		base.Type = form.FieldTypeCheckbox
		value, _ := inheritedName(ctx, annot, parent, "V")
		state, _ := dereferenceName(ctx, annot, "AS")
		base.Checked = isCheckedState(value) || isCheckedState(state)
		return base
	default:
		// Choice and signature fields have no editor representation.
		return nil
	}
}

// widgetRect reads the annotation's /Rect as four numbers.
func widgetRect(ctx *model.Context, annot types.Dict) (llx, lly, urx, ury float64, ok bool) {
	rectObj, found := annot.Find("Rect")
	if !found {
		return 0, 0, 0, 0, false
	}
	rect, err := ctx.DereferenceArray(rectObj)
	if err != nil || len(rect) != 4 {
		return 0, 0, 0, 0, false
	}

	coords := make([]float64, 4)
	for i, obj := range rect {
		f, err := ctx.DereferenceNumber(obj)
		if err != nil {
			return 0, 0, 0, 0, false
		}
		coords[i] = f
	}

	return coords[0], coords[1], coords[2], coords[3], true
}

// isCheckedState reports whether a checkbox value or appearance-state name
// means "on". Anything other than empty or Off counts as checked.
func isCheckedState(name string) bool {
	return name != "" && name != "Off"
}

func dereferenceName(ctx *model.Context, dict types.Dict, key string) (string, error) {
	obj, found := dict.Find(key)
	if !found {
		return "", nil
	}
	name, err := ctx.DereferenceName(obj, model.V10, nil)
	if err != nil {
		return "", err
	}
	return string(name), nil
}

func inheritedName(ctx *model.Context, annot, parent types.Dict, key string) (string, error) {
	if name, err := dereferenceName(ctx, annot, key); err == nil && name != "" {
		return name, nil
	}
	if parent == nil {
		return "", nil
	}
	return dereferenceName(ctx, parent, key)
}

func inheritedString(ctx *model.Context, annot, parent types.Dict, key string) (string, error) {
	if obj, found := annot.Find(key); found {
		return ctx.DereferenceStringOrHexLiteral(obj, model.V10, nil)
	}
	if parent != nil {
		if obj, found := parent.Find(key); found {
			return ctx.DereferenceStringOrHexLiteral(obj, model.V10, nil)
		}
	}
	return "", nil
}

func inheritedFlags(ctx *model.Context, annot, parent types.Dict) int {
	for _, dict := range []types.Dict{annot, parent} {
		if dict == nil {
			continue
		}
		if obj, found := dict.Find("Ff"); found {
			if flags, err := ctx.DereferenceInteger(obj); err == nil && flags != nil {
				return int(*flags)
			}
		}
	}
	return 0
}
