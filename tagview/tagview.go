// Package tagview browses the notes that carry one tag.
package tagview

import (
	"context"
	"fmt"
	"sync"

	"github.com/ViniZap4/lumi-notes/domain"
	"github.com/ViniZap4/lumi-notes/listview"
)

type API interface {
	GetTag(ctx context.Context, id int64) (domain.Tag, error)
	TagNotes(ctx context.Context, id int64) ([]domain.Note, error)
	GetNote(ctx context.Context, id int64) (domain.Note, error)
	UpdateNote(ctx context.Context, id int64, in domain.NoteInput) (domain.Note, error)
	RemoveTag(ctx context.Context, noteID, tagID int64) error
	DeleteNote(ctx context.Context, id int64) error
}

// Browser is a note list scoped to a tag.
type Browser struct {
	*listview.Controller[domain.Note]
	api   API
	tagID int64

	mu  sync.Mutex
	tag domain.Tag
}

func New(api API, tagID int64) *Browser {
	return &Browser{
		Controller: listview.New[domain.Note](source{api: api, tagID: tagID}),
		api:        api,
		tagID:      tagID,
	}
}

// Load fetches the tag and its notes. A missing tag surfaces as
// client.ErrNotFound.
func (b *Browser) Load(ctx context.Context) error {
	tag, err := b.api.GetTag(ctx, b.tagID)
	if err != nil {
		return err
	}
	if err := b.Controller.Load(ctx); err != nil {
		return err
	}
	b.mu.Lock()
	b.tag = tag
	b.mu.Unlock()
	return nil
}

func (b *Browser) Tag() domain.Tag {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tag
}

// DeleteNote removes every tag assignment of the note, then the note, then
// the local copy. The first failing call stops the sequence and the list is
// left untouched; assignments already removed stay removed.
func (b *Browser) DeleteNote(ctx context.Context, id int64) error {
	note, err := b.api.GetNote(ctx, id)
	if err != nil {
		return err
	}
	for _, tagID := range note.Input().TagIDs {
		if err := b.api.RemoveTag(ctx, id, tagID); err != nil {
			return fmt.Errorf("remove tag %d from note %d: %w", tagID, id, err)
		}
	}
	if err := b.api.DeleteNote(ctx, id); err != nil {
		return err
	}
	b.Remove(id)
	return nil
}

type source struct {
	api   API
	tagID int64
}

func (s source) List(ctx context.Context) ([]domain.Note, error) {
	return s.api.TagNotes(ctx, s.tagID)
}

func (s source) Delete(ctx context.Context, id int64) error {
	return s.api.DeleteNote(ctx, id)
}

func (s source) SetFavorite(ctx context.Context, n domain.Note, favorite bool) error {
	in := n.Input()
	in.IsFavorite = favorite
	_, err := s.api.UpdateNote(ctx, n.ID, in)
	return err
}
