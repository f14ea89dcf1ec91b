package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ViniZap4/lumi-notes/domain"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func printTable(w io.Writer, headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...)
	fmt.Fprintln(w, t.Render())
}

func id(v int64) string { return strconv.FormatInt(v, 10) }

func yes(v bool) string {
	if v {
		return "★"
	}
	return ""
}

func tagNames(tags []domain.Tag) string {
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}
	return strings.Join(names, ", ")
}

func printNotes(w io.Writer, notes []domain.Note) {
	if len(notes) == 0 {
		fmt.Fprintln(w, "no notes")
		return
	}
	rows := make([][]string, 0, len(notes))
	for _, n := range notes {
		rows = append(rows, []string{id(n.ID), yes(n.IsFavorite), n.Title, n.FolderName, tagNames(n.Tags), n.UpdatedAt.Local().Format("2006-01-02 15:04")})
	}
	printTable(w, []string{"ID", "★", "TITLE", "FOLDER", "TAGS", "UPDATED"}, rows)
}

func printFolders(w io.Writer, folders []domain.Folder) {
	if len(folders) == 0 {
		fmt.Fprintln(w, "no folders")
		return
	}
	rows := make([][]string, 0, len(folders))
	for _, f := range folders {
		rows = append(rows, []string{id(f.ID), yes(f.IsFavorite), f.Name, strconv.Itoa(f.NoteCount), f.Description})
	}
	printTable(w, []string{"ID", "★", "NAME", "NOTES", "DESCRIPTION"}, rows)
}

func printTags(w io.Writer, tags []domain.Tag) {
	if len(tags) == 0 {
		fmt.Fprintln(w, "no tags")
		return
	}
	rows := make([][]string, 0, len(tags))
	for _, t := range tags {
		rows = append(rows, []string{id(t.ID), t.Name, strconv.Itoa(t.NoteCount)})
	}
	printTable(w, []string{"ID", "NAME", "NOTES"}, rows)
}
