package skills

// Selection is the set of skill names chosen for emphasis. Names keep their
// insertion order so the generation request is stable.
type Selection struct {
	order []string
	index map[string]int
}

// NewSelection creates a selection pre-populated with names
func NewSelection(names ...string) *Selection {
	s := &Selection{index: make(map[string]int)}
	for _, n := range names {
		s.Add(n)
	}
	return s
}

// Add inserts name if it is not already selected
func (s *Selection) Add(name string) {
	if _, ok := s.index[name]; ok {
		return
	}
	s.index[name] = len(s.order)
	s.order = append(s.order, name)
}

// Remove deletes name from the selection
func (s *Selection) Remove(name string) {
	idx, ok := s.index[name]
	if !ok {
		return
	}
	s.order = append(s.order[:idx], s.order[idx+1:]...)
	delete(s.index, name)
	for i := idx; i < len(s.order); i++ {
		s.index[s.order[i]] = i
	}
}

// Toggle flips membership of name and reports whether it is now selected
func (s *Selection) Toggle(name string) bool {
	if s.Has(name) {
		s.Remove(name)
		return false
	}
	s.Add(name)
	return true
}

// Has reports whether name is selected
func (s *Selection) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Len returns the number of selected skills
func (s *Selection) Len() int {
	return len(s.order)
}

// Names returns a copy of the selected names in insertion order
func (s *Selection) Names() []string {
	return append([]string{}, s.order...)
}
