package form

import "sort"

// Session is the authoritative in-memory form state for one open document:
// an insertion-ordered list of fields per page. The session owns every
// Field instance; the canvas layer works against a PageFields handle and
// never splices slices directly.
type Session struct {
	fieldsByPage map[int][]*Field
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{
		fieldsByPage: make(map[int][]*Field),
	}
}

// NewSessionWithFields creates a session pre-populated with imported
// fields. Fields without a page assignment are dropped; imported fields
// always carry one.
func NewSessionWithFields(fields []*Field) *Session {
	s := NewSession()
	for _, f := range fields {
		if !f.Page.Assigned() {
			continue
		}
		page := f.Page.Index()
		s.fieldsByPage[page] = append(s.fieldsByPage[page], f)
	}
	return s
}

// Page returns the mutation handle for the given page's field list,
// creating the list on first use.
func (s *Session) Page(index int) *PageFields {
	return &PageFields{session: s, page: index}
}

// PageFieldCount returns the number of fields on the given page.
func (s *Session) PageFieldCount(index int) int {
	return len(s.fieldsByPage[index])
}

// TotalFieldCount returns the number of fields across all pages.
func (s *Session) TotalFieldCount() int {
	n := 0
	for _, fields := range s.fieldsByPage {
		n += len(fields)
	}
	return n
}

// AllFields returns every field in the session, pages in ascending order,
// fields in insertion order within a page.
func (s *Session) AllFields() []*Field {
	pages := make([]int, 0, len(s.fieldsByPage))
	for page := range s.fieldsByPage {
		pages = append(pages, page)
	}
	sort.Ints(pages)

	var merged []*Field
	for _, page := range pages {
		merged = append(merged, s.fieldsByPage[page]...)
	}
	return merged
}

// FindField locates a field by name. It returns the page index, the
// position within the page list, and whether the field was found.
func (s *Session) FindField(name string) (page, index int, ok bool) {
	if name == "" {
		return 0, 0, false
	}
	pages := make([]int, 0, len(s.fieldsByPage))
	for p := range s.fieldsByPage {
		pages = append(pages, p)
	}
	sort.Ints(pages)
	for _, p := range pages {
		for i, f := range s.fieldsByPage[p] {
			if f.Name == name {
				return p, i, true
			}
		}
	}
	return 0, 0, false
}

// PageFields is a session-owned handle over one page's field list. Appends
// resolve the field's page assignment, so no field is ever readable in the
// unassigned state once it is part of a session.
type PageFields struct {
	session *Session
	page    int
}

// PageIndex returns the page this handle belongs to.
func (p *PageFields) PageIndex() int {
	return p.page
}

// Len returns the number of fields on the page.
func (p *PageFields) Len() int {
	return len(p.session.fieldsByPage[p.page])
}

// At returns the field at position i in insertion order.
func (p *PageFields) At(i int) *Field {
	return p.session.fieldsByPage[p.page][i]
}

// Append adds a field to the page, committing its page assignment, and
// returns its position.
func (p *PageFields) Append(f *Field) int {
	f.Page = PageAt(p.page)
	p.session.fieldsByPage[p.page] = append(p.session.fieldsByPage[p.page], f)
	return len(p.session.fieldsByPage[p.page]) - 1
}

// RemoveAt removes the field at position i, preserving insertion order of
// the remainder.
func (p *PageFields) RemoveAt(i int) {
	fields := p.session.fieldsByPage[p.page]
	p.session.fieldsByPage[p.page] = append(fields[:i], fields[i+1:]...)
}
