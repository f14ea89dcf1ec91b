package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ViniZap4/lumi-notes/dashboard"
	"github.com/ViniZap4/lumi-notes/listview"
)

type loadedMsg struct {
	err error
}

type statsMsg struct {
	stats dashboard.Stats
	err   error
}

type doneMsg struct {
	status string
	err    error
}

type previewMsg struct {
	text string
	err  error
}

func load(ctx context.Context, p pane) tea.Cmd {
	return func() tea.Msg {
		return loadedMsg{err: p.Load(ctx)}
	}
}

func loadStats(ctx context.Context, api API) tea.Cmd {
	return func() tea.Msg {
		s, err := dashboard.Load(ctx, api)
		return statsMsg{stats: s, err: err}
	}
}

func toggleFavorite(ctx context.Context, p pane, r row) tea.Cmd {
	return func() tea.Msg {
		err := p.ToggleFavorite(ctx, r.id)
		switch {
		case errors.Is(err, listview.ErrUnsupported):
			return doneMsg{status: "tags cannot be favorited"}
		case err != nil:
			return doneMsg{err: err}
		case r.favorite:
			return doneMsg{status: fmt.Sprintf("%s removed from favorites", r.name)}
		}
		return doneMsg{status: fmt.Sprintf("%s added to favorites", r.name)}
	}
}

func deleteItem(ctx context.Context, p pane, r row) tea.Cmd {
	return func() tea.Msg {
		if err := p.Delete(ctx, r.id); err != nil {
			return doneMsg{err: err}
		}
		return doneMsg{status: fmt.Sprintf("%s deleted", r.name)}
	}
}

func rename(ctx context.Context, p pane, r row, name string) tea.Cmd {
	return func() tea.Msg {
		if err := p.Rename(ctx, r.id, name); err != nil {
			return doneMsg{err: err}
		}
		return doneMsg{status: fmt.Sprintf("renamed to %s", name)}
	}
}

func showNote(ctx context.Context, api API, id int64, render func(string, int) (string, error), width int) tea.Cmd {
	return func() tea.Msg {
		n, err := api.GetNote(ctx, id)
		if err != nil {
			return previewMsg{err: err}
		}
		md := "# " + n.Title + "\n\n" + n.Content
		text, err := render(md, width)
		if err != nil {
			return previewMsg{err: err}
		}
		return previewMsg{text: text}
	}
}
