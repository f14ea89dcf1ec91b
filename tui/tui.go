// Package tui is the interactive terminal browser over notes, folders and
// tags.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ViniZap4/lumi-notes/client"
	"github.com/ViniZap4/lumi-notes/dashboard"
	"github.com/ViniZap4/lumi-notes/listview"
	"github.com/ViniZap4/lumi-notes/tagview"
)

type API interface {
	listview.API
	tagview.API
}

type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modeRename
	modeConfirmDelete
	modePreview
)

type Model struct {
	ctx    context.Context
	api    API
	render func(md string, width int) (string, error)

	tabs  []pane
	tab   int
	stack []pane

	cursor int
	search string
	mode   mode
	input  textinput.Model
	// row picked when a rename or delete prompt opened
	target row

	stats   *dashboard.Stats
	preview string
	status  string
	err     error
	expired bool

	width  int
	height int
}

// New builds the browser. render formats note content for the preview; nil
// uses RenderMarkdown.
func New(ctx context.Context, api API, render func(string, int) (string, error)) Model {
	if render == nil {
		render = RenderMarkdown
	}
	in := textinput.New()
	in.CharLimit = 256
	in.Cursor.SetMode(cursor.CursorStatic)

	return Model{
		ctx:    ctx,
		api:    api,
		render: render,
		tabs: []pane{
			notesPane(api, "Notes", client.NoteFilter{}),
			foldersPane(api),
			tagsPane(api),
		},
		input: in,
	}
}

// Expired reports whether the server rejected the session while browsing.
func (m Model) Expired() bool { return m.expired }

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{loadStats(m.ctx, m.api)}
	for _, p := range m.tabs {
		cmds = append(cmds, load(m.ctx, p))
	}
	return tea.Batch(cmds...)
}

func (m Model) active() pane {
	if n := len(m.stack); n > 0 {
		return m.stack[n-1]
	}
	return m.tabs[m.tab]
}

func (m Model) rows() []row {
	return m.active().Rows(m.search)
}

func (m Model) selected() (row, bool) {
	rows := m.rows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return row{}, false
	}
	return rows[m.cursor], true
}

func (m *Model) clamp() {
	n := len(m.rows())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) fail(err error) tea.Cmd {
	m.err = err
	if errors.Is(err, client.ErrUnauthorized) {
		m.expired = true
		return tea.Quit
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case statsMsg:
		if msg.err != nil {
			return m, m.fail(msg.err)
		}
		m.stats = &msg.stats
		return m, nil

	case loadedMsg:
		if msg.err != nil {
			return m, m.fail(msg.err)
		}
		m.clamp()
		return m, nil

	case doneMsg:
		if msg.err != nil {
			return m, m.fail(msg.err)
		}
		m.err = nil
		m.status = msg.status
		m.clamp()
		// counts shown in other tabs may have changed
		cmds := []tea.Cmd{loadStats(m.ctx, m.api)}
		for _, p := range m.tabs {
			if p != m.active() {
				cmds = append(cmds, load(m.ctx, p))
			}
		}
		return m, tea.Batch(cmds...)

	case previewMsg:
		if msg.err != nil {
			return m, m.fail(msg.err)
		}
		m.preview = msg.text
		m.mode = modePreview
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.mode {
	case modeSearch, modeRename:
		return m.handleInput(msg)

	case modeConfirmDelete:
		m.mode = modeBrowse
		if msg.String() != "y" {
			m.status = "delete cancelled"
			return m, nil
		}
		return m, deleteItem(m.ctx, m.active(), m.target)

	case modePreview:
		switch msg.String() {
		case "esc", "q", "enter":
			m.mode = modeBrowse
			m.preview = ""
		}
		return m, nil
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.rows())-1 {
			m.cursor++
		}
	case "tab":
		m.stack = nil
		m.tab = (m.tab + 1) % len(m.tabs)
		m.cursor, m.search, m.status = 0, "", ""
	case "shift+tab":
		m.stack = nil
		m.tab = (m.tab + len(m.tabs) - 1) % len(m.tabs)
		m.cursor, m.search, m.status = 0, "", ""
	case "esc":
		if m.search != "" {
			m.search = ""
		} else if len(m.stack) > 0 {
			m.stack = m.stack[:len(m.stack)-1]
		}
		m.cursor = 0
	case "/":
		m.mode = modeSearch
		m.input.Placeholder = "search"
		m.input.SetValue(m.search)
		m.input.Focus()
	case "r":
		r, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.mode = modeRename
		m.target = r
		m.input.Placeholder = "new name"
		m.input.SetValue(strings.TrimPrefix(r.name, "#"))
		m.input.CursorEnd()
		m.input.Focus()
	case "d":
		if r, ok := m.selected(); ok {
			m.mode = modeConfirmDelete
			m.target = r
		}
	case "f":
		if r, ok := m.selected(); ok {
			return m, toggleFavorite(m.ctx, m.active(), r)
		}
	case "R":
		return m, tea.Batch(load(m.ctx, m.active()), loadStats(m.ctx, m.api))
	case "enter":
		return m.open()
	}
	return m, nil
}

func (m Model) handleInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeBrowse
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		value := strings.TrimSpace(m.input.Value())
		current := m.mode
		m.mode = modeBrowse
		m.input.Blur()
		if current == modeSearch {
			m.search = value
			m.cursor = 0
			return m, nil
		}
		if value == "" {
			return m, nil
		}
		return m, rename(m.ctx, m.active(), m.target, value)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) open() (tea.Model, tea.Cmd) {
	r, ok := m.selected()
	if !ok {
		return m, nil
	}
	var next pane
	switch m.active().Kind() {
	case kindNotes:
		return m, showNote(m.ctx, m.api, r.id, m.render, m.width)
	case kindFolders:
		id := r.id
		next = notesPane(m.api, r.name, client.NoteFilter{FolderID: &id})
	case kindTags:
		next = tagNotesPane(m.api, r.id)
	}
	m.stack = append(m.stack, next)
	m.cursor, m.search, m.status = 0, "", ""
	return m, load(m.ctx, next)
}

func (m Model) View() string {
	var b strings.Builder

	var tabs []string
	for i, p := range m.tabs {
		if i == m.tab {
			tabs = append(tabs, titleStyle.Render(p.Title()))
		} else {
			tabs = append(tabs, tabStyle.Render(p.Title()))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n")

	if s := m.stats; s != nil {
		b.WriteString(statsStyle.Render(fmt.Sprintf("%s · %s · %s · %d favorite",
			plural(s.TotalNotes, "note"), plural(s.TotalFolders, "folder"), plural(s.TotalTags, "tag"), s.FavoriteNotes)))
		b.WriteString("\n")
	}

	if len(m.stack) > 0 {
		crumbs := make([]string, 0, len(m.stack)+1)
		crumbs = append(crumbs, m.tabs[m.tab].Title())
		for _, p := range m.stack {
			crumbs = append(crumbs, p.Title())
		}
		b.WriteString(crumbStyle.Render(strings.Join(crumbs, " / ")))
		b.WriteString("\n")
	}

	if m.mode == modePreview {
		b.WriteString(m.preview)
		b.WriteString(footerStyle.Render("\nesc back"))
		return b.String()
	}

	if m.search != "" {
		b.WriteString(metaStyle.Render("search: " + m.search))
		b.WriteString("\n")
	}

	rows := m.rows()
	if len(rows) == 0 {
		b.WriteString(metaStyle.Render("  nothing here"))
		b.WriteString("\n")
	}
	for i, r := range rows {
		line := pointer(i == m.cursor) + star(r.favorite) + r.name
		if i == m.cursor {
			line = selectedStyle.Render(line)
		} else {
			line = textStyle.Render(line)
		}
		if r.meta != "" {
			line += "  " + metaStyle.Render(r.meta)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	switch m.mode {
	case modeSearch, modeRename:
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	case modeConfirmDelete:
		b.WriteString("\n")
		b.WriteString(dangerStyle.Render(fmt.Sprintf("delete %q? (y/N)", m.target.name)))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(dangerStyle.Render(client.Message(m.err)))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString("\n")
		b.WriteString(metaStyle.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(footerStyle.Render("tab switch · enter open · / search · f favorite · r rename · d delete · esc back · q quit"))
	return b.String()
}

// Run starts the browser and blocks until the user quits. It returns
// client.ErrUnauthorized when the session was rejected mid-way.
func Run(ctx context.Context, api API) error {
	p := tea.NewProgram(New(ctx, api, nil), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(Model); ok && fm.Expired() {
		return client.ErrUnauthorized
	}
	return nil
}
