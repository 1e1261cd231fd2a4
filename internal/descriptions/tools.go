package descriptions

// Comprehensive tool descriptions with practical examples and use cases

const (
	// Session Tools
	FormOpenDocumentDescription = `Open a PDF document for form field editing.

**When to use:** Starting a form editing session on a PDF document.

**Why it's useful:** Copies the document to a scratch working file so the original is never touched, scans any existing form widgets into editable fields, and makes the first page the active canvas.

**Examples:**
• Start a session: "Open /documents/application.pdf to add form fields"
• Rework an existing form: "Open tax-form.pdf and adjust its fields"

**Common workflows:**
1. New Form: Open document → Place fields → Export
2. Form Rework: Open document → Review imported fields → Move/resize/delete → Export

**Best practices:** Only one document is open at a time; opening another closes the current session. A failed widget scan is reported as a warning and editing starts with zero fields.`

	FormCloseDocumentDescription = `Close the current editing session and discard unsaved changes.

**When to use:** Done with a document, or abandoning in-progress edits.

**Why it's useful:** Releases the document handle and removes the scratch working copy. Fields not exported are discarded.

**Best practices:** Export first if the placed fields should be kept.`

	FormDocumentInfoDescription = `Get the open document's pages, dimensions, and field counts.

**When to use:** Need page sizes for placement planning, or an overview of the session state.

**Why it's useful:** Reports each page's dimensions in points together with its field count, plus the active page and zoom factor, so placements can be computed without guessing.

**Examples:**
• Placement planning: "Check page dimensions before placing a signature field near the bottom"
• Session overview: "See how many fields are on each page"

**Best practices:** Page dimensions are in PDF points (1/72 inch) with a bottom-left origin.`

	FormListFieldsDescription = `List every form field in the session with its geometry and properties.

**When to use:** Reviewing placed fields, finding a field's name for a follow-up operation, or verifying layout before export.

**Why it's useful:** Shows each field's name, type, page, position, and size in points, in a stable page-then-insertion order.

**Common workflows:**
1. Review: List fields → Spot misplacements → Move/resize by name
2. Export Check: List fields → Verify names and positions → Export

**Best practices:** Field names are the handles for move, resize, delete, and duplicate operations.`

	FormSelectPageDescription = `Switch the active canvas page.

**When to use:** Before placing fields on a page other than the current one.

**Why it's useful:** Placement happens on the active page; selecting a page binds the canvas to that page's field list and dimensions.

**Best practices:** Page indexes are zero-based. Operations addressed by field name switch pages automatically.`

	FormPlaceFieldDescription = `Place a new text field or checkbox at a pixel position on the active page.

**When to use:** Adding a form field where a label or blank line sits on the page.

**Why it's useful:** Creates the field at a default size (text 140x24pt, checkbox 18x18pt square), clamped inside the page, and assigns it a fresh default name like text_1 or checkbox_2.

**Examples:**
• Name line: "Place a text field at pixel (120, 300) on page 0"
• Consent box: "Place a checkbox next to the terms paragraph"

**Common workflows:**
1. Guided Placement: form_page_text to find labels → convert positions → place fields
2. Layout Pass: Place all fields → List → Fine-tune with move/resize

**Best practices:** Coordinates are device pixels with a top-left origin at the session zoom factor; use form_document_info for page pixel geometry.`

	FormMoveFieldDescription = `Move a field to a new position in page points.

**When to use:** Adjusting a field's placement after review.

**Why it's useful:** Positions the field's lower-left corner exactly, clamped so the whole rectangle stays inside the page.

**Best practices:** Coordinates are points with a bottom-left origin, matching form_list_fields output.`

	FormResizeFieldDescription = `Resize a field to new dimensions in points.

**When to use:** A field is too small for its content or overlaps neighbors.

**Why it's useful:** Resizes from the field's fixed lower-left origin, enforcing the minimum usable size and the page bounds. Checkboxes stay square.

**Best practices:** Requested dimensions are clamped, so the resulting size may differ; check the returned geometry.`

	FormDeleteFieldDescription = `Delete a field from the session.

**When to use:** Removing a misplaced or unwanted field.

**Why it's useful:** Removes the field immediately; the change reaches the document on the next export.

**Best practices:** Deletion is permanent within the session. The field's name is not reused.`

	FormDuplicateFieldDescription = `Duplicate a field with a small diagonal offset.

**When to use:** Creating rows of similar fields, like aligned checkboxes or a column of text inputs.

**Why it's useful:** Copies the field's size and properties, offsets the copy 12 points up and right (clamped in-page), and assigns it a fresh name.

**Common workflows:**
1. Field Rows: Place one field → Duplicate → Move each copy into position

**Best practices:** Follow up with form_move_field to put the copy where it belongs.`

	FormExportDescription = `Write the session's fields into a new PDF file.

**When to use:** Finalizing the form after placing and arranging fields.

**Why it's useful:** Produces a fillable PDF: existing form widgets are stripped, the session's fields become real AcroForm text fields and checkboxes, and viewers regenerate their appearance. The source document is never modified.

**Examples:**
• Finish a form: "Export the session to /documents/application-fillable.pdf"

**Best practices:** Exporting with zero fields produces a clean document with no form. The output is written atomically; a failed export leaves no partial file.`

	FormPageTextDescription = `Get a page's text grouped into rows with vertical positions.

**When to use:** Finding where labels like "Name:" or "Date:" sit on the page to line field placements up with them.

**Why it's useful:** Row positions are in points with a bottom-left origin, the same space field geometry lives in, so a label's position translates directly into a field position.

**Common workflows:**
1. Guided Placement: Read page text → Locate label rows → Place fields beside them

**Best practices:** Rows are ordered top of the page first. Works on any readable PDF, not just the open document.`

	// Search and Discovery Tools
	FormSearchDirectoryDescription = `Discover PDF documents in a directory with optional fuzzy search.

**When to use:** Finding candidate documents to open, or exploring an unknown directory.

**Why it's useful:** Quickly locates relevant documents without manual browsing, supports fuzzy matching for partial names.

**Examples:**
• Find forms: "Search /documents/ for files containing 'application'"
• Inventory: "List all PDFs in /forms/ to pick one to edit"

**Best practices:** Use fuzzy search for partial matches; results include path, size, and modification time.`

	FormValidateFileDescription = `Verify a file is a readable PDF before opening it.

**When to use:** Before opening a document of unknown provenance, or when diagnosing an open failure.

**Why it's useful:** Identifies corrupted, oversized, or non-PDF files early with a specific failure message.

**Best practices:** Run first in automated workflows; form_open_document performs the same checks but validation gives a cleaner diagnostic.`
)

// ToolDescriptions maps tool names to their comprehensive descriptions
var ToolDescriptions = map[string]string{
	"form_open_document":    FormOpenDocumentDescription,
	"form_close_document":   FormCloseDocumentDescription,
	"form_document_info":    FormDocumentInfoDescription,
	"form_list_fields":      FormListFieldsDescription,
	"form_select_page":      FormSelectPageDescription,
	"form_place_field":      FormPlaceFieldDescription,
	"form_move_field":       FormMoveFieldDescription,
	"form_resize_field":     FormResizeFieldDescription,
	"form_delete_field":     FormDeleteFieldDescription,
	"form_duplicate_field":  FormDuplicateFieldDescription,
	"form_export":           FormExportDescription,
	"form_page_text":        FormPageTextDescription,
	"form_search_directory": FormSearchDirectoryDescription,
	"form_validate_file":    FormValidateFileDescription,
}

// GetToolDescription returns the comprehensive description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns a list of all available tool names
func GetAllToolNames() []string {
	var names []string
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	return names
}
