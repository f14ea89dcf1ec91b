package editor

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/ViniZap4/lumi-notes/client"
	"github.com/ViniZap4/lumi-notes/domain"
)

func catalogGen() *rapid.Generator[[]domain.Tag] {
	return rapid.Custom(func(t *rapid.T) []domain.Tag {
		ids := rapid.SliceOfNDistinct(rapid.Int64Range(1, 100), 0, 12, func(v int64) int64 { return v }).Draw(t, "catalog")
		tags := make([]domain.Tag, len(ids))
		for i, id := range ids {
			tags[i] = domain.Tag{ID: id, Name: "tag"}
		}
		return tags
	})
}

func TestToggleTwiceIsIdentity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		catalog := catalogGen().Draw(t, "catalog")
		var initial []int64
		for _, tag := range catalog {
			if rapid.Bool().Draw(t, "selected") {
				initial = append(initial, tag.ID)
			}
		}
		s := NewTagSet(initial...)
		id := rapid.Int64Range(1, 120).Draw(t, "id")

		s.Toggle(id, catalog)
		s.Toggle(id, catalog)

		got, want := s.IDs(), NewTagSet(initial...).IDs()
		slices.Sort(got)
		slices.Sort(want)
		if !slices.Equal(got, want) {
			t.Fatalf("toggle %d twice: got %v, want %v", id, got, want)
		}
	})
}

func TestToggleUnknownIsNoop(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		catalog := catalogGen().Draw(t, "catalog")
		s := NewTagSet()
		for _, tag := range catalog {
			if rapid.Bool().Draw(t, "selected") {
				s.Toggle(tag.ID, catalog)
			}
		}
		before, beforeProj := s.IDs(), s.Project(catalog)

		unknown := rapid.Int64Range(101, 200).Draw(t, "unknown")
		if s.Toggle(unknown, catalog) {
			t.Fatalf("toggle of unknown %d reported a change", unknown)
		}
		if !slices.Equal(before, s.IDs()) {
			t.Fatalf("ids changed: %v -> %v", before, s.IDs())
		}
		if len(beforeProj) != len(s.Project(catalog)) {
			t.Fatalf("projection changed")
		}
	})
}

func TestProjectSkipsStaleIDs(t *testing.T) {
	catalog := []domain.Tag{{ID: 7, Name: "g"}, {ID: 3, Name: "c"}}
	s := NewTagSet(3, 99, 7)
	assert.Equal(t, []domain.Tag{{ID: 7, Name: "g"}, {ID: 3, Name: "c"}}, s.Project(catalog))
	assert.Equal(t, []int64{3, 99, 7}, s.IDs())
	assert.NotNil(t, NewTagSet().IDs())
}

type fakeAPI struct {
	mu      sync.Mutex
	note    domain.Note
	noteErr error
	folders []domain.Folder
	tags    []domain.Tag
	saveErr error
	created []domain.NoteInput
	updated map[int64]domain.NoteInput
}

func (f *fakeAPI) GetNote(ctx context.Context, id int64) (domain.Note, error) {
	if f.noteErr != nil {
		return domain.Note{}, f.noteErr
	}
	return f.note, nil
}

func (f *fakeAPI) ListFolders(ctx context.Context) ([]domain.Folder, error) { return f.folders, nil }
func (f *fakeAPI) ListTags(ctx context.Context) ([]domain.Tag, error)       { return f.tags, nil }

func (f *fakeAPI) CreateNote(ctx context.Context, in domain.NoteInput) (domain.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return domain.Note{}, f.saveErr
	}
	f.created = append(f.created, in)
	return domain.Note{ID: 42, Title: in.Title, Content: in.Content, TagIDs: in.TagIDs}, nil
}

func (f *fakeAPI) UpdateNote(ctx context.Context, id int64, in domain.NoteInput) (domain.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return domain.Note{}, f.saveErr
	}
	if f.updated == nil {
		f.updated = map[int64]domain.NoteInput{}
	}
	f.updated[id] = in
	return domain.Note{ID: id, Title: in.Title}, nil
}

func catalogAPI() *fakeAPI {
	return &fakeAPI{
		folders: []domain.Folder{{ID: 1, Name: "Home"}},
		tags:    []domain.Tag{{ID: 3, Name: "c"}, {ID: 7, Name: "g"}, {ID: 9, Name: "i"}},
	}
}

func TestLoadExistingNote(t *testing.T) {
	api := catalogAPI()
	folder := int64(1)
	api.note = domain.Note{ID: 5, Title: "Shopping", Content: "milk", FolderID: &folder,
		Tags: []domain.Tag{{ID: 3, Name: "c"}, {ID: 7, Name: "g"}}}

	e := New(api)
	require.NoError(t, e.Load(context.Background(), 5))
	f := e.Form()
	assert.Equal(t, "Shopping", f.Title)
	assert.Equal(t, &folder, f.FolderID)
	assert.Equal(t, []int64{3, 7}, f.Tags.IDs())
	assert.Len(t, e.SelectedTags(), 2)
	assert.Len(t, e.Folders(), 1)
	assert.Equal(t, int64(5), e.NoteID())
}

func TestLoadMissingNote(t *testing.T) {
	api := catalogAPI()
	api.noteErr = &client.APIError{Status: 404, Message: "note not found"}
	e := New(api)
	err := e.Load(context.Background(), 5)
	assert.ErrorIs(t, err, client.ErrNotFound)
	assert.Empty(t, e.Tags(), "failed load leaves the editor empty")
}

func TestToggleAndSelectFolder(t *testing.T) {
	e := New(catalogAPI())
	require.NoError(t, e.Load(context.Background(), 0))

	assert.True(t, e.ToggleTag(7))
	assert.False(t, e.ToggleTag(404))
	assert.Equal(t, []domain.Tag{{ID: 7, Name: "g"}}, e.SelectedTags())
	assert.True(t, e.ToggleTag(7))
	assert.Empty(t, e.SelectedTags())

	require.NoError(t, e.SelectFolder("1"))
	assert.Equal(t, int64(1), *e.Form().FolderID)
	require.NoError(t, e.SelectFolder(""))
	assert.Nil(t, e.Form().FolderID)

	var verr *ValidationError
	assert.ErrorAs(t, e.SelectFolder("8"), &verr)
	assert.ErrorAs(t, e.SelectFolder("abc"), &verr)
}

func TestSubmitValidates(t *testing.T) {
	api := catalogAPI()
	e := New(api)
	require.NoError(t, e.Load(context.Background(), 0))

	_, err := e.Submit(context.Background())
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "title", verr.Field)
	assert.Equal(t, "title is required", client.Message(err))

	e.SetTitle("Shopping")
	e.SetContent("   ")
	_, err = e.Submit(context.Background())
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "content", verr.Field)
	assert.Empty(t, api.created, "nothing is sent for an invalid form")
}

func TestSubmitCreatesThenUpdates(t *testing.T) {
	api := catalogAPI()
	e := New(api)
	require.NoError(t, e.Load(context.Background(), 0))
	e.SetTitle("Shopping")
	e.SetContent("milk, eggs")
	e.ToggleTag(3)
	e.ToggleTag(7)

	note, err := e.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), note.ID)
	require.Len(t, api.created, 1)
	assert.Equal(t, []int64{3, 7}, api.created[0].TagIDs)
	assert.Nil(t, api.created[0].FolderID)

	e.ToggleTag(3)
	e.ToggleTag(7)
	_, err = e.Submit(context.Background())
	require.NoError(t, err)
	require.Contains(t, api.updated, int64(42))
	assert.NotNil(t, api.updated[42].TagIDs)
	assert.Empty(t, api.updated[42].TagIDs)
}

func TestSubmitFailureKeepsForm(t *testing.T) {
	api := catalogAPI()
	api.saveErr = &client.APIError{Status: 400, Message: "unknown folder or tag"}
	e := New(api)
	require.NoError(t, e.Load(context.Background(), 0))
	e.SetTitle("Draft")
	e.SetContent("text")
	e.ToggleTag(9)

	_, err := e.Submit(context.Background())
	assert.Equal(t, "unknown folder or tag", client.Message(err))
	assert.Equal(t, "Draft", e.Form().Title)
	assert.Equal(t, []int64{9}, e.Form().Tags.IDs())
	assert.Zero(t, e.NoteID())

	api.saveErr = errors.New("connection reset")
	_, err = e.Submit(context.Background())
	assert.Equal(t, client.Fallback, client.Message(err))
}
