package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ViniZap4/lumi-notes/domain"
)

func TestLikePattern(t *testing.T) {
	tests := map[string]string{
		"Milk":    "%milk%",
		"100%":    `%100\%%`,
		"a_b":     `%a\_b%`,
		`back\sl`: `%back\\sl%`,
	}
	for in, want := range tests {
		assert.Equal(t, want, LikePattern(in), in)
	}
}

func TestUniqueIDs(t *testing.T) {
	assert.Equal(t, []int64{7, 3}, UniqueIDs([]int64{7, 3, 7, 3}))
	assert.NotNil(t, UniqueIDs(nil))
}

func TestAttachTagsSortsAndFillsEmpty(t *testing.T) {
	notes := []domain.Note{{ID: 1}, {ID: 2}}
	AttachTags(notes, map[int64][]domain.Tag{
		1: {{ID: 9, Name: "zeta"}, {ID: 4, Name: "alpha"}},
	})
	assert.Equal(t, []int64{4, 9}, notes[0].TagIDs)
	assert.Equal(t, "alpha", notes[0].Tags[0].Name)
	assert.NotNil(t, notes[1].Tags)
	assert.Empty(t, notes[1].TagIDs)
}

func TestApplyPatch(t *testing.T) {
	name := "New"
	fav := true
	f := ApplyPatch(domain.Folder{Name: "Old", Description: "d"}, domain.FolderPatch{Name: &name, IsFavorite: &fav})
	assert.Equal(t, "New", f.Name)
	assert.Equal(t, "d", f.Description)
	assert.True(t, f.IsFavorite)
}
