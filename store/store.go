// Package store defines the persistence contract of the notes API and the
// pieces shared by its Postgres and SQLite implementations.
package store

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/ViniZap4/lumi-notes/domain"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrConflict reports a uniqueness violation (email, tag name, assignment).
	ErrConflict = errors.New("conflict")
	// ErrInvalidReference reports a folder or tag id the user does not own.
	ErrInvalidReference = errors.New("invalid reference")
)

// NoteQuery narrows ListNotes. Zero values mean "no filter".
type NoteQuery struct {
	FolderID     *int64
	TagID        *int64
	FavoriteOnly bool
	Search       string
}

// Store is scoped per call by userID; rows owned by other users behave as
// missing.
type Store interface {
	CreateUser(ctx context.Context, req domain.RegisterRequest, passwordHash string) (domain.User, error)
	UserByEmail(ctx context.Context, email string) (domain.User, string, error)
	UserByID(ctx context.Context, id int64) (domain.User, error)

	ListNotes(ctx context.Context, userID int64, q NoteQuery) ([]domain.Note, error)
	GetNote(ctx context.Context, userID, id int64) (domain.Note, error)
	CreateNote(ctx context.Context, userID int64, in domain.NoteInput) (domain.Note, error)
	UpdateNote(ctx context.Context, userID, id int64, in domain.NoteInput) (domain.Note, error)
	DeleteNote(ctx context.Context, userID, id int64) error

	ListFolders(ctx context.Context, userID int64) ([]domain.Folder, error)
	GetFolder(ctx context.Context, userID, id int64) (domain.Folder, error)
	CreateFolder(ctx context.Context, userID int64, name, description string) (domain.Folder, error)
	UpdateFolder(ctx context.Context, userID, id int64, patch domain.FolderPatch) (domain.Folder, error)
	DeleteFolder(ctx context.Context, userID, id int64) error

	ListTags(ctx context.Context, userID int64) ([]domain.Tag, error)
	GetTag(ctx context.Context, userID, id int64) (domain.Tag, error)
	CreateTag(ctx context.Context, userID int64, name string) (domain.Tag, error)
	RenameTag(ctx context.Context, userID, id int64, name string) (domain.Tag, error)
	DeleteTag(ctx context.Context, userID, id int64) error

	AssignTag(ctx context.Context, userID, noteID, tagID int64) (domain.TagAssignment, error)
	RemoveTag(ctx context.Context, userID, noteID, tagID int64) error

	Close() error
}

// UniqueIDs drops duplicates from ids, keeping first occurrence order.
func UniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// AttachTags fills Tags and TagIDs of every note from byNote. Tags are sorted
// by name so both implementations answer identically.
func AttachTags(notes []domain.Note, byNote map[int64][]domain.Tag) {
	for i := range notes {
		tags := byNote[notes[i].ID]
		sort.SliceStable(tags, func(a, b int) bool { return tags[a].Name < tags[b].Name })
		notes[i].Tags = make([]domain.Tag, 0, len(tags))
		notes[i].TagIDs = make([]int64, 0, len(tags))
		for _, t := range tags {
			notes[i].Tags = append(notes[i].Tags, t)
			notes[i].TagIDs = append(notes[i].TagIDs, t.ID)
		}
	}
}

// ApplyPatch merges p into f.
func ApplyPatch(f domain.Folder, p domain.FolderPatch) domain.Folder {
	if p.Name != nil {
		f.Name = *p.Name
	}
	if p.Description != nil {
		f.Description = *p.Description
	}
	if p.IsFavorite != nil {
		f.IsFavorite = *p.IsFavorite
	}
	return f
}

// LikePattern turns a user search term into a case-folded LIKE pattern that
// matches it as a literal substring. Use with ESCAPE '\'.
func LikePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(term)) + "%"
}
