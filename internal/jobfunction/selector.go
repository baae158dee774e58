package jobfunction

import "strings"

// Separator joins selected tags into the field value
const Separator = ", "

// Selector keeps the tags chosen in the picker, in selection order
type Selector struct {
	tags []string
}

// NewSelector starts with tags already selected, skipping duplicates
func NewSelector(tags ...string) *Selector {
	s := &Selector{}
	for _, t := range tags {
		s.Select(t)
	}
	return s
}

// ParseValue rebuilds a selector from a joined field value
func ParseValue(value string) *Selector {
	s := &Selector{}
	for _, t := range strings.Split(value, ",") {
		if t = strings.TrimSpace(t); t != "" {
			s.Select(t)
		}
	}
	return s
}

// Select appends tag unless it is already selected and returns the joined value
func (s *Selector) Select(tag string) string {
	if !s.Has(tag) {
		s.tags = append(s.tags, tag)
	}
	return s.Value()
}

// Remove drops tag and returns the joined value
func (s *Selector) Remove(tag string) string {
	kept := s.tags[:0]
	for _, t := range s.tags {
		if t != tag {
			kept = append(kept, t)
		}
	}
	s.tags = kept
	return s.Value()
}

// Has reports whether tag is selected
func (s *Selector) Has(tag string) bool {
	for _, t := range s.tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Tags returns the selected tags
func (s *Selector) Tags() []string {
	return append([]string{}, s.tags...)
}

// Value is the comma-joined field value
func (s *Selector) Value() string {
	return strings.Join(s.tags, Separator)
}
