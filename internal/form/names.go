package form

import (
	"fmt"
	"strconv"
	"strings"
)

// NameAllocator hands out default field names of the form "{prefix}_{N}".
// N is monotonic per prefix for the lifetime of a session. Seeding scans
// existing names for the highest numeric suffix per prefix and continues
// upward from there, so a document imported with "text_1" and "text_3"
// yields "text_4" next, not "text_3".
type NameAllocator struct {
	highest map[string]int
}

// NewNameAllocator creates an allocator with no seeded names.
func NewNameAllocator() *NameAllocator {
	return &NameAllocator{
		highest: make(map[string]int),
	}
}

// Seed records existing field names so future allocations do not collide.
// Names that do not match any known "{prefix}_{N}" pattern are ignored.
func (a *NameAllocator) Seed(fields []*Field) {
	for _, f := range fields {
		a.Observe(f.Name)
	}
}

// Observe records a single name.
func (a *NameAllocator) Observe(name string) {
	for _, t := range []FieldType{FieldTypeText, FieldTypeCheckbox} {
		prefix := t.NamePrefix()
		rest, ok := strings.CutPrefix(name, prefix+"_")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(rest)
		if err != nil || n <= 0 {
			continue
		}
		if n > a.highest[prefix] {
			a.highest[prefix] = n
		}
	}
}

// Next returns the next unique name for the given field type.
func (a *NameAllocator) Next(t FieldType) string {
	prefix := t.NamePrefix()
	a.highest[prefix]++
	return fmt.Sprintf("%s_%d", prefix, a.highest[prefix])
}
