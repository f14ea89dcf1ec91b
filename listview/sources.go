package listview

import (
	"context"

	"github.com/ViniZap4/lumi-notes/client"
	"github.com/ViniZap4/lumi-notes/domain"
)

// API is the slice of *client.Client the list sources use.
type API interface {
	ListNotes(ctx context.Context, f client.NoteFilter) ([]domain.Note, error)
	UpdateNote(ctx context.Context, id int64, in domain.NoteInput) (domain.Note, error)
	DeleteNote(ctx context.Context, id int64) error

	ListFolders(ctx context.Context) ([]domain.Folder, error)
	PatchFolder(ctx context.Context, id int64, patch domain.FolderPatch) (domain.Folder, error)
	DeleteFolder(ctx context.Context, id int64) error

	ListTags(ctx context.Context) ([]domain.Tag, error)
	UpdateTag(ctx context.Context, id int64, name string) (domain.Tag, error)
	DeleteTag(ctx context.Context, id int64) error
}

// Notes lists notes matching Filter.
type Notes struct {
	API    API
	Filter client.NoteFilter
}

func (s Notes) List(ctx context.Context) ([]domain.Note, error) {
	return s.API.ListNotes(ctx, s.Filter)
}

func (s Notes) Delete(ctx context.Context, id int64) error {
	return s.API.DeleteNote(ctx, id)
}

// SetFavorite resends the whole note, tag ids included, so nothing else changes.
func (s Notes) SetFavorite(ctx context.Context, n domain.Note, favorite bool) error {
	in := n.Input()
	in.IsFavorite = favorite
	_, err := s.API.UpdateNote(ctx, n.ID, in)
	return err
}

func (s Notes) Rename(ctx context.Context, n domain.Note, title string) (domain.Note, error) {
	in := n.Input()
	in.Title = title
	return s.API.UpdateNote(ctx, n.ID, in)
}

type Folders struct {
	API API
}

func (s Folders) List(ctx context.Context) ([]domain.Folder, error) {
	return s.API.ListFolders(ctx)
}

func (s Folders) Delete(ctx context.Context, id int64) error {
	return s.API.DeleteFolder(ctx, id)
}

func (s Folders) SetFavorite(ctx context.Context, f domain.Folder, favorite bool) error {
	_, err := s.API.PatchFolder(ctx, f.ID, domain.FolderPatch{IsFavorite: &favorite})
	return err
}

func (s Folders) Rename(ctx context.Context, f domain.Folder, name string) (domain.Folder, error) {
	return s.API.PatchFolder(ctx, f.ID, domain.FolderPatch{Name: &name})
}

type Tags struct {
	API API
}

func (s Tags) List(ctx context.Context) ([]domain.Tag, error) {
	return s.API.ListTags(ctx)
}

func (s Tags) Delete(ctx context.Context, id int64) error {
	return s.API.DeleteTag(ctx, id)
}

func (s Tags) Rename(ctx context.Context, t domain.Tag, name string) (domain.Tag, error) {
	return s.API.UpdateTag(ctx, t.ID, name)
}

func NewNotes(api API, f client.NoteFilter) *Controller[domain.Note] {
	return New[domain.Note](Notes{API: api, Filter: f})
}

func NewFolders(api API) *Controller[domain.Folder] {
	return New[domain.Folder](Folders{API: api})
}

func NewTags(api API) *Controller[domain.Tag] {
	return New[domain.Tag](Tags{API: api})
}
