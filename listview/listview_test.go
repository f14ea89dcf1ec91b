package listview

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/ViniZap4/lumi-notes/client"
	"github.com/ViniZap4/lumi-notes/domain"
)

// fakeNotes is an in-memory Source with switchable failures.
type fakeNotes struct {
	notes     []domain.Note
	fail      error
	deleted   []int64
	favorites map[int64]bool
}

func (f *fakeNotes) List(ctx context.Context) ([]domain.Note, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	return f.notes, nil
}

func (f *fakeNotes) Delete(ctx context.Context, id int64) error {
	if f.fail != nil {
		return f.fail
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeNotes) SetFavorite(ctx context.Context, n domain.Note, fav bool) error {
	if f.fail != nil {
		return f.fail
	}
	if f.favorites == nil {
		f.favorites = map[int64]bool{}
	}
	f.favorites[n.ID] = fav
	return nil
}

func notesWithIDs(ids ...int64) []domain.Note {
	out := make([]domain.Note, len(ids))
	for i, id := range ids {
		out[i] = domain.Note{ID: id, Title: "note"}
	}
	return out
}

func keys[T Entity](items []T) []int64 {
	out := make([]int64, 0, len(items))
	for _, it := range items {
		out = append(out, it.Key())
	}
	return out
}

func TestLoadKeepsServerOrder(t *testing.T) {
	src := &fakeNotes{notes: notesWithIDs(9, 2, 5)}
	c := New[domain.Note](src)
	require.NoError(t, c.Load(context.Background()))
	assert.Equal(t, []int64{9, 2, 5}, keys(c.Items()))

	src.fail = errors.New("offline")
	assert.Error(t, c.Load(context.Background()))
	assert.Equal(t, []int64{9, 2, 5}, keys(c.Items()), "failed reload keeps previous state")
}

func TestRemoveExactlyOne(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ids := rapid.SliceOfNDistinct(rapid.Int64Range(1, 500), 1, 30, func(v int64) int64 { return v }).Draw(t, "ids")
		target := rapid.SampledFrom(ids).Draw(t, "target")

		c := New[domain.Note](&fakeNotes{notes: notesWithIDs(ids...)})
		if err := c.Load(context.Background()); err != nil {
			t.Fatal(err)
		}
		if !c.Remove(target) {
			t.Fatalf("remove %d reported missing", target)
		}

		var want []int64
		for _, id := range ids {
			if id != target {
				want = append(want, id)
			}
		}
		got := keys(c.Items())
		if len(got) != len(want) {
			t.Fatalf("got %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("got %v, want %v", got, want)
			}
		}
	})
}

func TestDeleteIsTwoPhase(t *testing.T) {
	ctx := context.Background()
	src := &fakeNotes{notes: notesWithIDs(1, 2, 3)}
	c := New[domain.Note](src)
	require.NoError(t, c.Load(ctx))

	src.fail = errors.New("server down")
	assert.Error(t, c.Delete(ctx, 2))
	assert.Equal(t, []int64{1, 2, 3}, keys(c.Items()))

	src.fail = nil
	require.NoError(t, c.Delete(ctx, 2))
	assert.Equal(t, []int64{1, 3}, keys(c.Items()))
	assert.Equal(t, []int64{2}, src.deleted)
}

func TestToggleFavoriteAfterServer(t *testing.T) {
	ctx := context.Background()
	src := &fakeNotes{notes: []domain.Note{{ID: 5, Title: "five"}}}
	c := New[domain.Note](src)
	require.NoError(t, c.Load(ctx))

	src.fail = &client.APIError{Status: 500}
	assert.Error(t, c.ToggleFavorite(ctx, 5))
	n, _ := c.Get(5)
	assert.False(t, n.IsFavorite)

	src.fail = nil
	require.NoError(t, c.ToggleFavorite(ctx, 5))
	n, _ = c.Get(5)
	assert.True(t, n.IsFavorite)
	assert.True(t, src.favorites[5])

	assert.ErrorIs(t, c.ToggleFavorite(ctx, 404), ErrNotInList)
}

type fakeTags struct{ tags []domain.Tag }

func (f *fakeTags) List(ctx context.Context) ([]domain.Tag, error) { return f.tags, nil }
func (f *fakeTags) Delete(ctx context.Context, id int64) error      { return nil }

func TestTagsHaveNoFavorite(t *testing.T) {
	c := New[domain.Tag](&fakeTags{tags: []domain.Tag{{ID: 1, Name: "x"}}})
	require.NoError(t, c.Load(context.Background()))
	assert.ErrorIs(t, c.ToggleFavorite(context.Background(), 1), ErrUnsupported)
	assert.ErrorIs(t, c.Rename(context.Background(), 1, "y"), ErrUnsupported)
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	notes := New[domain.Note](&fakeNotes{notes: []domain.Note{
		{ID: 1, Title: "Groceries", Content: "Milk and EGGS"},
		{ID: 2, Title: "Work", Content: "quarterly report"},
	}})
	require.NoError(t, notes.Load(ctx))

	assert.Equal(t, []int64{1}, keys(notes.Search("eggs")))
	assert.Equal(t, []int64{2}, keys(notes.Search("WORK")))
	assert.Equal(t, []int64{1, 2}, keys(notes.Search("  ")))
	assert.Empty(t, notes.Search("nothing"))

	folders := New[domain.Folder](Folders{API: nil})
	folders.Add(domain.Folder{ID: 7, Name: "Trips", Description: "Summer in Lisbon"})
	assert.Equal(t, []int64{7}, keys(folders.Search("lisbon")))

	tags := New[domain.Tag](&fakeTags{})
	tags.Add(domain.Tag{ID: 3, Name: "Urgent"})
	assert.Equal(t, []int64{3}, keys(tags.Search("urg")))
}

func TestAddReplaceFilter(t *testing.T) {
	c := New[domain.Note](&fakeNotes{})
	c.Add(domain.Note{ID: 1, Title: "a"})
	c.Add(domain.Note{ID: 2, Title: "b", IsFavorite: true})

	assert.True(t, c.Replace(domain.Note{ID: 1, Title: "A"}))
	assert.False(t, c.Replace(domain.Note{ID: 9}))
	got, _ := c.Get(1)
	assert.Equal(t, "A", got.Title)

	favs := c.Filter(func(n domain.Note) bool { return n.IsFavorite })
	assert.Equal(t, []int64{2}, keys(favs))
}
