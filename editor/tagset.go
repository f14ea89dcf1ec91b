package editor

import (
	"slices"

	"github.com/ViniZap4/lumi-notes/domain"
)

// TagSet is the note's selected tag ids in selection order. It is the only
// record of the selection; the tags shown to the user are derived from it.
type TagSet struct {
	ids []int64
}

func NewTagSet(ids ...int64) TagSet {
	var s TagSet
	for _, id := range ids {
		s.add(id)
	}
	return s
}

func (s TagSet) Has(id int64) bool {
	return slices.Contains(s.ids, id)
}

func (s TagSet) Len() int {
	return len(s.ids)
}

// IDs returns a copy that is never nil, so an empty selection clears a
// note's tags on submit.
func (s TagSet) IDs() []int64 {
	return append(make([]int64, 0, len(s.ids)), s.ids...)
}

func (s *TagSet) add(id int64) {
	if !s.Has(id) {
		s.ids = append(s.ids, id)
	}
}

func (s *TagSet) remove(id int64) {
	s.ids = slices.DeleteFunc(slices.Clone(s.ids), func(v int64) bool { return v == id })
}

// Toggle removes id when selected, and otherwise adds it only if catalog
// has a tag with that id. It reports whether the set changed.
func (s *TagSet) Toggle(id int64, catalog []domain.Tag) bool {
	if s.Has(id) {
		s.remove(id)
		return true
	}
	if !slices.ContainsFunc(catalog, func(t domain.Tag) bool { return t.ID == id }) {
		return false
	}
	s.add(id)
	return true
}

// Project returns the catalog tags that are selected, in catalog order.
// Selected ids missing from the catalog are skipped.
func (s TagSet) Project(catalog []domain.Tag) []domain.Tag {
	out := []domain.Tag{}
	for _, t := range catalog {
		if s.Has(t.ID) {
			out = append(out, t)
		}
	}
	return out
}
