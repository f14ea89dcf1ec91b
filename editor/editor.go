// Package editor holds the state of the note form: the note being edited,
// the folder and tag catalogs it picks from, and the selected tag ids.
package editor

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ViniZap4/lumi-notes/domain"
)

type API interface {
	GetNote(ctx context.Context, id int64) (domain.Note, error)
	ListFolders(ctx context.Context) ([]domain.Folder, error)
	ListTags(ctx context.Context) ([]domain.Tag, error)
	CreateNote(ctx context.Context, in domain.NoteInput) (domain.Note, error)
	UpdateNote(ctx context.Context, id int64, in domain.NoteInput) (domain.Note, error)
}

type Form struct {
	Title      string
	Content    string
	FolderID   *int64
	IsFavorite bool
	Tags       TagSet
}

// ValidationError is a form problem caught before any request is sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string       { return e.Field + ": " + e.Message }
func (e *ValidationError) UserMessage() string { return e.Message }

type Editor struct {
	api API

	mu      sync.Mutex
	noteID  int64
	form    Form
	folders []domain.Folder
	tags    []domain.Tag
}

func New(api API) *Editor {
	return &Editor{api: api}
}

// Load fetches the note (unless id is 0, which starts a blank form) and
// both catalogs concurrently. Nothing changes unless all three succeed; a
// missing note surfaces as client.ErrNotFound.
func (e *Editor) Load(ctx context.Context, id int64) error {
	var (
		note    domain.Note
		folders []domain.Folder
		tags    []domain.Tag
	)
	g, gctx := errgroup.WithContext(ctx)
	if id != 0 {
		g.Go(func() error {
			var err error
			note, err = e.api.GetNote(gctx, id)
			return err
		})
	}
	g.Go(func() error {
		var err error
		folders, err = e.api.ListFolders(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		tags, err = e.api.ListTags(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	form := Form{}
	if id != 0 {
		form = Form{
			Title:      note.Title,
			Content:    note.Content,
			FolderID:   note.FolderID,
			IsFavorite: note.IsFavorite,
			Tags:       NewTagSet(note.Input().TagIDs...),
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.noteID = id
	e.form = form
	e.folders = folders
	e.tags = tags
	return nil
}

// NoteID is 0 while creating a new note.
func (e *Editor) NoteID() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.noteID
}

func (e *Editor) Form() Form {
	e.mu.Lock()
	defer e.mu.Unlock()
	f := e.form
	f.Tags = NewTagSet(e.form.Tags.ids...)
	return f
}

func (e *Editor) Folders() []domain.Folder {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.folders)
}

func (e *Editor) Tags() []domain.Tag {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.tags)
}

func (e *Editor) SetTitle(s string) {
	e.mu.Lock()
	e.form.Title = s
	e.mu.Unlock()
}

func (e *Editor) SetContent(s string) {
	e.mu.Lock()
	e.form.Content = s
	e.mu.Unlock()
}

func (e *Editor) SetFavorite(v bool) {
	e.mu.Lock()
	e.form.IsFavorite = v
	e.mu.Unlock()
}

// SelectFolder takes the value of a folder picker: "" means no folder,
// anything else must be the id of a catalog folder.
func (e *Editor) SelectFolder(value string) error {
	value = strings.TrimSpace(value)
	e.mu.Lock()
	defer e.mu.Unlock()
	if value == "" {
		e.form.FolderID = nil
		return nil
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return &ValidationError{Field: "folder", Message: fmt.Sprintf("%q is not a folder id", value)}
	}
	if !slices.ContainsFunc(e.folders, func(f domain.Folder) bool { return f.ID == id }) {
		return &ValidationError{Field: "folder", Message: fmt.Sprintf("folder %d does not exist", id)}
	}
	e.form.FolderID = &id
	return nil
}

// ToggleTag selects or deselects a tag; see TagSet.Toggle.
func (e *Editor) ToggleTag(id int64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.form.Tags.Toggle(id, e.tags)
}

// SelectedTags is the tag chips to show, derived from the selected ids.
func (e *Editor) SelectedTags() []domain.Tag {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.form.Tags.Project(e.tags)
}

func (f Form) validate() error {
	if strings.TrimSpace(f.Title) == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	if strings.TrimSpace(f.Content) == "" {
		return &ValidationError{Field: "content", Message: "content is required"}
	}
	return nil
}

// Submit creates or updates the note. On failure the form is left as is.
func (e *Editor) Submit(ctx context.Context) (domain.Note, error) {
	e.mu.Lock()
	id, form := e.noteID, e.form
	e.mu.Unlock()

	if err := form.validate(); err != nil {
		return domain.Note{}, err
	}
	in := domain.NoteInput{
		Title:      strings.TrimSpace(form.Title),
		Content:    form.Content,
		FolderID:   form.FolderID,
		IsFavorite: form.IsFavorite,
		TagIDs:     form.Tags.IDs(),
	}

	var (
		note domain.Note
		err  error
	)
	if id == 0 {
		note, err = e.api.CreateNote(ctx, in)
	} else {
		note, err = e.api.UpdateNote(ctx, id, in)
	}
	if err != nil {
		return domain.Note{}, err
	}

	e.mu.Lock()
	e.noteID = note.ID
	e.mu.Unlock()
	return note, nil
}
