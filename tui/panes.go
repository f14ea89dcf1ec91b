package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/ViniZap4/lumi-notes/client"
	"github.com/ViniZap4/lumi-notes/domain"
	"github.com/ViniZap4/lumi-notes/listview"
	"github.com/ViniZap4/lumi-notes/tagview"
)

type kind int

const (
	kindNotes kind = iota
	kindFolders
	kindTags
)

type row struct {
	id       int64
	name     string
	meta     string
	favorite bool
}

type pane interface {
	Title() string
	Kind() kind
	Load(ctx context.Context) error
	Rows(search string) []row
	ToggleFavorite(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	Rename(ctx context.Context, id int64, name string) error
}

type listPane[T listview.Entity] struct {
	title func() string
	kind  kind
	ctrl  *listview.Controller[T]
	load  func(context.Context) error
	del   func(context.Context, int64) error
	row   func(T) row
}

func (p *listPane[T]) Title() string { return p.title() }
func (p *listPane[T]) Kind() kind     { return p.kind }

func (p *listPane[T]) Load(ctx context.Context) error {
	if p.load != nil {
		return p.load(ctx)
	}
	return p.ctrl.Load(ctx)
}

func (p *listPane[T]) Rows(search string) []row {
	items := p.ctrl.Search(search)
	rows := make([]row, 0, len(items))
	for _, it := range items {
		rows = append(rows, p.row(it))
	}
	return rows
}

func (p *listPane[T]) ToggleFavorite(ctx context.Context, id int64) error {
	return p.ctrl.ToggleFavorite(ctx, id)
}

func (p *listPane[T]) Delete(ctx context.Context, id int64) error {
	if p.del != nil {
		return p.del(ctx, id)
	}
	return p.ctrl.Delete(ctx, id)
}

func (p *listPane[T]) Rename(ctx context.Context, id int64, name string) error {
	return p.ctrl.Rename(ctx, id, name)
}

func fixed(s string) func() string { return func() string { return s } }

func noteRow(n domain.Note) row {
	var meta []string
	if n.FolderName != "" {
		meta = append(meta, "["+n.FolderName+"]")
	}
	for _, t := range n.Tags {
		meta = append(meta, "#"+t.Name)
	}
	return row{id: n.ID, name: n.Title, meta: strings.Join(meta, " "), favorite: n.IsFavorite}
}

func folderRow(f domain.Folder) row {
	return row{id: f.ID, name: f.Name, meta: plural(f.NoteCount, "note"), favorite: f.IsFavorite}
}

func tagRow(t domain.Tag) row {
	return row{id: t.ID, name: "#" + t.Name, meta: plural(t.NoteCount, "note")}
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func notesPane(api API, title string, f client.NoteFilter) pane {
	return &listPane[domain.Note]{
		title: fixed(title),
		kind:  kindNotes,
		ctrl:  listview.NewNotes(api, f),
		row:   noteRow,
	}
}

func foldersPane(api API) pane {
	return &listPane[domain.Folder]{
		title: fixed("Folders"),
		kind:  kindFolders,
		ctrl:  listview.NewFolders(api),
		row:   folderRow,
	}
}

func tagsPane(api API) pane {
	return &listPane[domain.Tag]{
		title: fixed("Tags"),
		kind:  kindTags,
		ctrl:  listview.NewTags(api),
		row:   tagRow,
	}
}

// tagNotesPane lists the notes of one tag. Deleting a note there removes its
// tag assignments before the note itself.
func tagNotesPane(api API, tagID int64) pane {
	b := tagview.New(api, tagID)
	return &listPane[domain.Note]{
		title: func() string {
			if name := b.Tag().Name; name != "" {
				return "#" + name
			}
			return "Tag"
		},
		kind: kindNotes,
		ctrl: b.Controller,
		load: b.Load,
		del:  b.DeleteNote,
		row:  noteRow,
	}
}
