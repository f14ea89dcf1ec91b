// Package dashboard gathers the overview shown after login.
package dashboard

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/ViniZap4/lumi-notes/client"
	"github.com/ViniZap4/lumi-notes/domain"
)

// RecentLimit is how many of the newest notes the overview lists.
const RecentLimit = 5

type API interface {
	ListNotes(ctx context.Context, f client.NoteFilter) ([]domain.Note, error)
	ListFolders(ctx context.Context) ([]domain.Folder, error)
	ListTags(ctx context.Context) ([]domain.Tag, error)
}

type Stats struct {
	TotalNotes      int
	TotalFolders    int
	TotalTags       int
	FavoriteNotes   int
	FavoriteFolders int
	Recent          []domain.Note
}

// Load fetches notes, folders and tags concurrently. The first failure
// cancels the other requests and is returned.
func Load(ctx context.Context, api API) (Stats, error) {
	var (
		notes   []domain.Note
		folders []domain.Folder
		tags    []domain.Tag
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		notes, err = api.ListNotes(gctx, client.NoteFilter{})
		return err
	})
	g.Go(func() (err error) {
		folders, err = api.ListFolders(gctx)
		return err
	})
	g.Go(func() (err error) {
		tags, err = api.ListTags(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}

	s := Stats{
		TotalNotes:   len(notes),
		TotalFolders: len(folders),
		TotalTags:    len(tags),
	}
	for _, n := range notes {
		if n.IsFavorite {
			s.FavoriteNotes++
		}
	}
	for _, f := range folders {
		if f.IsFavorite {
			s.FavoriteFolders++
		}
	}
	// the API lists notes newest first
	s.Recent = append([]domain.Note{}, notes[:min(RecentLimit, len(notes))]...)
	return s, nil
}
