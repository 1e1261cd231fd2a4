package pdf

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/acrolay/pdf-form-editor/internal/form"
)

// WriteWithFields exports the source document to outputPath with the
// given field set embedded as an AcroForm. The merge runs in-memory
// against a fresh read of the source:
//
//  1. every source page is carried over verbatim,
//  2. all pre-existing widget annotations and any document AcroForm are
//     stripped - the editor is the sole source of truth for form fields,
//  3. synthesized widgets are grafted onto their pages as new indirect
//     objects,
//  4. the AcroForm dictionary is rebuilt around exactly those widgets
//     with NeedAppearances set, leaving appearance generation to the
//     viewer.
//
// The output file appears atomically: the context is written to a
// temporary file beside outputPath and renamed on success. Any failure
// aborts the whole export with a WriteError and no output file.
func WriteWithFields(sourcePath, outputPath string, fields []*form.Field) error {
	ctx, err := readContext(sourcePath)
	if err != nil {
		return &WriteError{Path: outputPath, Err: err}
	}

	if err := stripFormWidgets(ctx); err != nil {
		return &WriteError{Path: outputPath, Err: err}
	}

	if len(fields) > 0 {
		if err := graftWidgets(ctx, fields); err != nil {
			return &WriteError{Path: outputPath, Err: err}
		}
	}

	if err := writeContextAtomic(ctx, outputPath); err != nil {
		return &WriteError{Path: outputPath, Err: err}
	}

	return nil
}

// stripFormWidgets removes every widget-subtype annotation from every
// page and drops the catalog's AcroForm entry. Non-widget annotations are
// kept in order.
func stripFormWidgets(ctx *model.Context) error {
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		pageDict, _, _, err := ctx.PageDict(pageNr, false)
		if err != nil {
			return fmt.Errorf("failed to resolve page %d: %w", pageNr, err)
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
			return fmt.Errorf("failed to resolve annotations of page %d: %w", pageNr, err)
		}

		kept := types.Array{}
		for _, annotRef := range annots {
			annot, err := ctx.DereferenceDict(annotRef)
			if err != nil {
				return fmt.Errorf("failed to resolve annotation on page %d: %w", pageNr, err)
			}
			if annot != nil {
				if name, err := dereferenceName(ctx, annot, "Subtype"); err == nil && name == "Widget" {
					continue
				}
			}
			kept = append(kept, annotRef)
		}

		if len(kept) > 0 {
			pageDict["Annots"] = kept
		} else {
			delete(pageDict, "Annots")
		}
	}

	rootDict, err := ctx.Catalog()
	if err != nil {
		return fmt.Errorf("failed to resolve catalog: %w", err)
	}
	delete(rootDict, "AcroForm")

	return nil
}

// graftWidgets inserts synthesized widget annotations into the context's
// object graph, attaches them to their pages, and rebuilds the AcroForm
// dictionary around the collected references.
func graftWidgets(ctx *model.Context, fields []*form.Field) error {
	widgetsByPage := SynthesizeWidgets(fields)

	fieldRefs := types.Array{}

	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		widgets := widgetsByPage[pageNr-1]
		if len(widgets) == 0 {
			continue
		}

		pageDict, pageRef, _, err := ctx.PageDict(pageNr, false)
		if err != nil {
			return fmt.Errorf("failed to resolve page %d: %w", pageNr, err)
		}
		if pageDict == nil {
			return fmt.Errorf("page %d not found", pageNr)
		}

		pageAnnots := types.Array{}
		if annotsObj, found := pageDict.Find("Annots"); found {
			existing, err := ctx.DereferenceArray(annotsObj)
			if err != nil {
				return fmt.Errorf("failed to resolve annotations of page %d: %w", pageNr, err)
			}
			pageAnnots = append(pageAnnots, existing...)
		}

		for _, widget := range widgets {
			if pageRef != nil {
				widget["P"] = *pageRef
			}
			clearWidgetBackground(widget)

			ref, err := ctx.IndRefForNewObject(widget)
			if err != nil {
				return fmt.Errorf("failed to register widget on page %d: %w", pageNr, err)
			}
			pageAnnots = append(pageAnnots, *ref)
			fieldRefs = append(fieldRefs, *ref)
		}

		pageDict["Annots"] = pageAnnots
	}

	return rebuildAcroForm(ctx, fieldRefs)
}

// rebuildAcroForm installs a fresh AcroForm dictionary referencing exactly
// the grafted widgets. NeedAppearances instructs viewers to regenerate
// widget appearances on open, since this system writes none.
func rebuildAcroForm(ctx *model.Context, fieldRefs types.Array) error {
	acroForm := types.Dict{
		"Fields":          fieldRefs,
		"NeedAppearances": types.Boolean(true),
		"DA":              types.StringLiteral(textDefaultAppearance),
		"DR": types.Dict{
			"Font": types.Dict{
				"Helv": helveticaFont(),
				"ZaDb": zapfDingbatsFont(),
			},
		},
	}

	acroFormRef, err := ctx.IndRefForNewObject(acroForm)
	if err != nil {
		return fmt.Errorf("failed to register AcroForm: %w", err)
	}

	rootDict, err := ctx.Catalog()
	if err != nil {
		return fmt.Errorf("failed to resolve catalog: %w", err)
	}
	rootDict["AcroForm"] = *acroFormRef

	return nil
}

// clearWidgetBackground drops any background color from the widget's
// appearance characteristics so it renders with the host viewer's default
// chrome.
func clearWidgetBackground(widget types.Dict) {
	mkObj, found := widget.Find("MK")
	if !found {
		return
	}
	if mk, ok := mkObj.(types.Dict); ok {
		delete(mk, "BG")
	}
}

// writeContextAtomic writes the context to a temporary file in the output
// directory and renames it into place, so a failed write never leaves a
// partial output file behind.
func writeContextAtomic(ctx *model.Context, outputPath string) error {
	dir := filepath.Dir(outputPath)
	tmp, err := os.CreateTemp(dir, ".formexport-*.pdf")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := api.WriteContextFile(ctx, tmpPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write PDF context: %w", err)
	}

	if err := os.Rename(tmpPath, outputPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to move output into place: %w", err)
	}

	return nil
}
