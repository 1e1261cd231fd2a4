package form

// FieldType identifies the kind of interactive form field a placed widget
// represents. The type is fixed at creation time.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeCheckbox FieldType = "checkbox"
)

// Default placement sizes in points.
const (
	DefaultTextWidth    = 140.0
	DefaultTextHeight   = 24.0
	DefaultCheckboxSide = 18.0
)

// NamePrefix returns the prefix used when deriving default field names,
// e.g. "text" for text fields producing names like "text_3".
func (t FieldType) NamePrefix() string {
	return string(t)
}

// Valid reports whether t is a known field type.
func (t FieldType) Valid() bool {
	return t == FieldTypeText || t == FieldTypeCheckbox
}

// PageRef identifies the page a field belongs to. The zero value means
// "unassigned": a field freshly created on the canvas that has not been
// committed to a page yet. The session resolves the assignment on append,
// before any other component reads the field back.
type PageRef struct {
	index    int
	assigned bool
}

// PageAt returns a reference to the page with the given zero-based index.
func PageAt(index int) PageRef {
	return PageRef{index: index, assigned: true}
}

// Assigned reports whether the field has been committed to a page.
func (p PageRef) Assigned() bool {
	return p.assigned
}

// Index returns the zero-based page index. It is only meaningful when
// Assigned reports true.
func (p PageRef) Index() int {
	return p.index
}

// Field is a placed form field. Geometry is in PDF point space: x,y is the
// rectangle's lower-left corner relative to the page, width/height extend
// up and to the right. The interaction layer keeps the whole rectangle
// inside the page at all times.
type Field struct {
	Page         PageRef
	Name         string
	Type         FieldType
	X            float64
	Y            float64
	Width        float64
	Height       float64
	Required     bool
	DefaultValue string // text fields only
	Checked      bool   // checkboxes only
}

// Rect returns the field rectangle as lower-left and upper-right corners,
// the form PDF annotations use.
func (f *Field) Rect() (llx, lly, urx, ury float64) {
	return f.X, f.Y, f.X + f.Width, f.Y + f.Height
}

// Clone returns a deep copy of the field.
func (f *Field) Clone() *Field {
	c := *f
	return &c
}

// PageMetrics holds a page's dimensions in points. Values come from the
// source document and never change for the lifetime of a session.
type PageMetrics struct {
	WidthPt  float64
	HeightPt float64
}

// Valid reports whether the metrics describe a usable page.
func (m PageMetrics) Valid() bool {
	return m.WidthPt > 0 && m.HeightPt > 0
}
