package model

import "slices"

// IDSet is a mutable set of stage and component identifiers.
type IDSet map[string]struct{}

// NewIDSet builds a set from ids.
func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

func (s IDSet) Add(id string)    { s[id] = struct{}{} }
func (s IDSet) Remove(id string) { delete(s, id) }

// Toggle flips membership of id.
func (s IDSet) Toggle(id string) {
	if s.Has(id) {
		delete(s, id)
	} else {
		s[id] = struct{}{}
	}
}

// Clone returns an independent copy.
func (s IDSet) Clone() IDSet {
	c := make(IDSet, len(s))
	for id := range s {
		c[id] = struct{}{}
	}
	return c
}

// Sorted returns the members in lexical order.
func (s IDSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
