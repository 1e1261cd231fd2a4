package canvas

import "github.com/acrolay/pdf-form-editor/internal/form"

// State describes what the controller is currently doing.
type State string

const (
	StateIdle     State = "idle"
	StatePlacing  State = "placing"
	StateSelected State = "selected"
	StateDragging State = "dragging"
	StateResizing State = "resizing"
)

const (
	// Side length in pixels of the resize handle anchored on a selected
	// field's bottom-right corner.
	handleSizePx = 10.0

	// Minimum field side length in device pixels. Converted to points at
	// the current scale before it is applied.
	minSidePx = 7.0

	// Diagonal offset in points applied to a duplicated field.
	duplicateOffsetPt = 12.0
)

type gesture int

const (
	gestureNone gesture = iota
	gestureMove
	gestureResize
)

// FieldList is the mutation handle the controller works against. The
// session implements it; the controller never touches raw slices, so page
// assignment and ownership stay enforced in one place.
type FieldList interface {
	Len() int
	At(i int) *form.Field
	Append(f *form.Field) int
	RemoveAt(i int)
}

// Listener receives canvas notifications. The editor layer uses them to
// refresh field counts and assign default names to new fields.
type Listener interface {
	// SelectionChanged fires with the newly selected field, or nil when
	// the selection is cleared.
	SelectionChanged(f *form.Field)
	// FieldsChanged fires after every successful create, move, resize,
	// delete or duplicate.
	FieldsChanged()
	// FieldCreated fires after a field is placed, signalling the shell to
	// drop back to pointer mode.
	FieldCreated()
}

// Controller is the canvas interaction state machine. It turns pointer
// events into field mutations, keeping every field rectangle inside the
// page. All methods are meant for a single event-dispatch goroutine.
type Controller struct {
	fields   FieldList
	mapper   Mapper
	listener Listener

	placing     form.FieldType
	inPlacement bool
	selected    int

	gesture         gesture
	dragOffset      Point
	resizeStart     Point
	resizeStartSize [2]float64
}

// NewController creates a controller with no page loaded. The listener may
// be nil.
func NewController(listener Listener) *Controller {
	return &Controller{
		listener: listener,
		selected: -1,
	}
}

// SetPage binds the controller to a page: its field list and the mapper
// for its rendered size. Selection and any in-flight gesture are reset.
func (c *Controller) SetPage(fields FieldList, mapper Mapper) {
	c.fields = fields
	c.mapper = mapper
	c.selected = -1
	c.resetGesture()
	c.emitSelectionChanged(nil)
}

// ClearPage detaches the controller from any page.
func (c *Controller) ClearPage() {
	c.fields = nil
	c.mapper = Mapper{}
	c.selected = -1
	c.inPlacement = false
	c.resetGesture()
}

// BeginPlacement switches the canvas into placement mode for the given
// field type. The next pointer-down creates a field and reverts to
// pointer mode automatically.
func (c *Controller) BeginPlacement(t form.FieldType) {
	c.placing = t
	c.inPlacement = true
}

// CancelPlacement leaves placement mode without creating a field.
func (c *Controller) CancelPlacement() {
	c.inPlacement = false
}

// State returns the controller's current state.
func (c *Controller) State() State {
	switch {
	case c.gesture == gestureMove:
		return StateDragging
	case c.gesture == gestureResize:
		return StateResizing
	case c.inPlacement:
		return StatePlacing
	case c.selected >= 0:
		return StateSelected
	default:
		return StateIdle
	}
}

// SelectedField returns the selected field, or nil.
func (c *Controller) SelectedField() *form.Field {
	if c.fields == nil || c.selected < 0 || c.selected >= c.fields.Len() {
		return nil
	}
	return c.fields.At(c.selected)
}

// SelectedIndex returns the selected field's position and whether a
// selection exists.
func (c *Controller) SelectedIndex() (int, bool) {
	if c.selected < 0 {
		return 0, false
	}
	return c.selected, true
}

// PointerDown dispatches a pointer press at a pixel position. In placement
// mode it creates a field; otherwise it hit-tests, selects, and arms a
// drag or resize gesture when a field is hit.
func (c *Controller) PointerDown(p Point) {
	if c.fields == nil || !c.mapper.HasPage() {
		return
	}

	if c.inPlacement {
		c.placeFieldAt(p)
		return
	}

	hit := c.fieldIndexAt(p)
	c.selected = hit
	c.emitSelectionChanged(c.SelectedField())

	if hit < 0 {
		return
	}

	rect := c.mapper.FieldRect(c.fields.At(hit))
	if resizeHandleRect(rect).Contains(p) {
		field := c.fields.At(hit)
		c.gesture = gestureResize
		c.resizeStart = p
		c.resizeStartSize = [2]float64{field.Width, field.Height}
	} else {
		c.gesture = gestureMove
		c.dragOffset = Point{X: p.X - rect.X, Y: p.Y - rect.Y}
	}
}

// PointerMove dispatches pointer motion, advancing an armed drag or
// resize gesture.
func (c *Controller) PointerMove(p Point) {
	if c.selected < 0 || !c.mapper.HasPage() {
		return
	}

	switch c.gesture {
	case gestureMove:
		c.dragTo(p)
	case gestureResize:
		c.resizeTo(p)
	}
}

// PointerUp ends any in-flight gesture. Selection persists.
func (c *Controller) PointerUp() {
	c.resetGesture()
}

// Select sets the selection by position. A negative index clears it.
// Returns false when the index is out of range.
func (c *Controller) Select(i int) bool {
	if i < 0 {
		c.selected = -1
		c.resetGesture()
		c.emitSelectionChanged(nil)
		return true
	}
	if c.fields == nil || i >= c.fields.Len() {
		return false
	}
	c.selected = i
	c.resetGesture()
	c.emitSelectionChanged(c.fields.At(i))
	return true
}

// MoveSelected moves the selected field so its lower-left corner sits at
// the given point-space position, clamped so the rectangle stays in-page.
// Returns false when nothing is selected.
func (c *Controller) MoveSelected(xPt, yPt float64) bool {
	field := c.SelectedField()
	if field == nil || !c.mapper.HasPage() {
		return false
	}
	metrics := c.mapper.Metrics()
	field.X = clamp(xPt, 0, max0(metrics.WidthPt-field.Width))
	field.Y = clamp(yPt, 0, max0(metrics.HeightPt-field.Height))
	c.emitFieldsChanged()
	return true
}

// ResizeSelected resizes the selected field from its fixed origin to the
// given point-space dimensions, applying the minimum-size and page bounds,
// and the square constraint for checkboxes. Returns false when nothing is
// selected.
func (c *Controller) ResizeSelected(widthPt, heightPt float64) bool {
	field := c.SelectedField()
	if field == nil || !c.mapper.HasPage() {
		return false
	}
	c.applyResize(field, widthPt, heightPt)
	c.emitFieldsChanged()
	return true
}

// DeleteSelected removes the selected field. Returns false when nothing is
// selected.
func (c *Controller) DeleteSelected() bool {
	if c.fields == nil || c.selected < 0 {
		return false
	}
	c.fields.RemoveAt(c.selected)
	c.selected = -1
	c.resetGesture()
	c.emitSelectionChanged(nil)
	c.emitFieldsChanged()
	return true
}

// DuplicateSelected deep-copies the selected field, clears its name so the
// editor assigns a fresh one, offsets it diagonally clamped in-page, and
// selects the copy. Returns false when nothing is selected.
func (c *Controller) DuplicateSelected() bool {
	source := c.SelectedField()
	if source == nil || !c.mapper.HasPage() {
		return false
	}

	dup := source.Clone()
	dup.Name = ""
	dup.Page = form.PageRef{}

	metrics := c.mapper.Metrics()
	dup.X = min(source.X+duplicateOffsetPt, max0(metrics.WidthPt-dup.Width))
	dup.Y = min(source.Y+duplicateOffsetPt, max0(metrics.HeightPt-dup.Height))

	c.selected = c.fields.Append(dup)
	c.emitSelectionChanged(dup)
	c.emitFieldsChanged()
	return true
}

func (c *Controller) placeFieldAt(p Point) {
	defaultW, defaultH := form.DefaultTextWidth, form.DefaultTextHeight
	if c.placing == form.FieldTypeCheckbox {
		defaultW, defaultH = form.DefaultCheckboxSide, form.DefaultCheckboxSide
	}

	metrics := c.mapper.Metrics()
	xPt, yTopPt := c.mapper.PixelToPoint(p)
	yPt := yTopPt - defaultH

	xPt = clamp(xPt, 0, max0(metrics.WidthPt-defaultW))
	yPt = clamp(yPt, 0, max0(metrics.HeightPt-defaultH))

	field := &form.Field{
		Type:   c.placing,
		X:      xPt,
		Y:      yPt,
		Width:  defaultW,
		Height: defaultH,
	}

	c.selected = c.fields.Append(field)
	c.inPlacement = false

	c.emitSelectionChanged(field)
	c.emitFieldsChanged()
	c.emitFieldCreated()
}

func (c *Controller) dragTo(p Point) {
	field := c.fields.At(c.selected)
	metrics := c.mapper.Metrics()
	sx, sy := c.mapper.Scale()
	pageW, pageH := c.mapper.PixelSize()

	// Drag tracks the rectangle's pixel top-left; point-space y is
	// bottom-anchored, so re-derive it from the height.
	xPx := clamp(p.X-c.dragOffset.X, 0, pageW)
	yPx := clamp(p.Y-c.dragOffset.Y, 0, pageH)

	field.X = xPx / sx
	field.Y = metrics.HeightPt - yPx/sy - field.Height

	field.X = clamp(field.X, 0, max0(metrics.WidthPt-field.Width))
	field.Y = clamp(field.Y, 0, max0(metrics.HeightPt-field.Height))

	c.emitFieldsChanged()
}

func (c *Controller) resizeTo(p Point) {
	field := c.fields.At(c.selected)
	sx, sy := c.mapper.Scale()

	dxPt := (p.X - c.resizeStart.X) / sx
	dyPt := (p.Y - c.resizeStart.Y) / sy

	c.applyResize(field, c.resizeStartSize[0]+dxPt, c.resizeStartSize[1]+dyPt)
	c.emitFieldsChanged()
}

// applyResize grows or shrinks a field from its fixed origin, enforcing
// the minimum side, the page bounds, and squareness for checkboxes.
func (c *Controller) applyResize(field *form.Field, widthPt, heightPt float64) {
	metrics := c.mapper.Metrics()
	sx, sy := c.mapper.Scale()

	minWPt := minSidePx / nonZero(sx)
	minHPt := minSidePx / nonZero(sy)

	if field.Type == form.FieldTypeCheckbox {
		minSidePt := max(minWPt, minHPt)
		side := max(max(widthPt, heightPt), minSidePt)
		maxSide := min(metrics.WidthPt-field.X, metrics.HeightPt-field.Y)
		side = max(minSidePt, min(side, maxSide))
		field.Width = side
		field.Height = side
		return
	}

	field.Width = min(max(minWPt, widthPt), metrics.WidthPt-field.X)
	field.Height = min(max(minHPt, heightPt), metrics.HeightPt-field.Y)
}

// fieldIndexAt hit-tests in reverse insertion order so the most recently
// added field wins on overlap.
func (c *Controller) fieldIndexAt(p Point) int {
	for i := c.fields.Len() - 1; i >= 0; i-- {
		if c.mapper.FieldRect(c.fields.At(i)).Contains(p) {
			return i
		}
	}
	return -1
}

func (c *Controller) resetGesture() {
	c.gesture = gestureNone
	c.dragOffset = Point{}
	c.resizeStart = Point{}
	c.resizeStartSize = [2]float64{}
}

func (c *Controller) emitSelectionChanged(f *form.Field) {
	if c.listener != nil {
		c.listener.SelectionChanged(f)
	}
}

func (c *Controller) emitFieldsChanged() {
	if c.listener != nil {
		c.listener.FieldsChanged()
	}
}

func (c *Controller) emitFieldCreated() {
	if c.listener != nil {
		c.listener.FieldCreated()
	}
}

// resizeHandleRect returns the handle square centered on the rectangle's
// bottom-right corner.
func resizeHandleRect(r Rect) Rect {
	return Rect{
		X:      r.Right() - handleSizePx/2,
		Y:      r.Bottom() - handleSizePx/2,
		Width:  handleSizePx,
		Height: handleSizePx,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func max0(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func nonZero(v float64) float64 {
	if v < 1e-9 {
		return 1e-9
	}
	return v
}
