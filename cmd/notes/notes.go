package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ViniZap4/lumi-notes/client"
	"github.com/ViniZap4/lumi-notes/domain"
	"github.com/ViniZap4/lumi-notes/editor"
	"github.com/ViniZap4/lumi-notes/listview"
	"github.com/ViniZap4/lumi-notes/tagview"
	"github.com/ViniZap4/lumi-notes/tui"
)

func notesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notes",
		Aliases: []string{"note"},
		Short:   "List, show, create, edit and delete notes",
	}
	cmd.AddCommand(
		listNotesCmd(a),
		showNoteCmd(a),
		newNoteCmd(a),
		editNoteCmd(a),
		deleteNoteCmd(a),
		favoriteNoteCmd(a),
	)
	return cmd
}

func listNotesCmd(a *app) *cobra.Command {
	var (
		folder, tag string
		favorite    bool
		search      string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notes, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.authed(cmd.Context()); err != nil {
				return err
			}
			f := client.NoteFilter{FavoriteOnly: favorite, Search: search}
			if folder != "" {
				fid, err := parseID(folder)
				if err != nil {
					return err
				}
				f.FolderID = &fid
			}
			if tag != "" {
				tid, err := parseID(tag)
				if err != nil {
					return err
				}
				f.TagID = &tid
			}
			notes := listview.NewNotes(a.client, f)
			if err := notes.Load(cmd.Context()); err != nil {
				return err
			}
			printNotes(cmd.OutOrStdout(), notes.Items())
			return nil
		},
	}
	cmd.Flags().StringVar(&folder, "folder", "", "only notes in this folder id")
	cmd.Flags().StringVar(&tag, "tag", "", "only notes with this tag id")
	cmd.Flags().BoolVar(&favorite, "favorite", false, "only favorite notes")
	cmd.Flags().StringVarP(&search, "search", "s", "", "match title or content")
	return cmd
}

func showNoteCmd(a *app) *cobra.Command {
	var raw bool
	var width int
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a note, rendering its markdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nid, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.authed(cmd.Context()); err != nil {
				return err
			}
			n, err := a.client.GetNote(cmd.Context(), nid)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			var meta []string
			if n.FolderName != "" {
				meta = append(meta, "folder: "+n.FolderName)
			}
			if len(n.Tags) > 0 {
				meta = append(meta, "tags: "+tagNames(n.Tags))
			}
			if n.IsFavorite {
				meta = append(meta, "★ favorite")
			}
			meta = append(meta, "updated: "+n.UpdatedAt.Local().Format("2006-01-02 15:04"))

			if raw {
				fmt.Fprintf(w, "# %s\n%s\n\n%s\n", n.Title, strings.Join(meta, " · "), n.Content)
				return nil
			}
			out, err := tui.RenderMarkdown("# "+n.Title+"\n\n_"+strings.Join(meta, " · ")+"_\n\n"+n.Content, width)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, out)
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print the markdown source")
	cmd.Flags().IntVar(&width, "width", 80, "wrap rendered text at this width")
	return cmd
}

// noteForm holds the flags shared by new and edit.
type noteForm struct {
	title, content, file string
	folder             string
	tags, untags       []int64
	favorite           bool
}

func (f *noteForm) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.title, "title", "t", "", "note title")
	cmd.Flags().StringVarP(&f.content, "content", "c", "", "note content")
	cmd.Flags().StringVarP(&f.file, "file", "f", "", `read content from a file ("-" for stdin)`)
	cmd.Flags().StringVar(&f.folder, "folder", "", `folder id ("" for none)`)
	cmd.Flags().Int64SliceVar(&f.tags, "tag", nil, "tag id to add (repeatable)")
	cmd.Flags().BoolVar(&f.favorite, "favorite", false, "mark as favorite")
}

// apply copies the flags that were set onto the editor.
func (f *noteForm) apply(cmd *cobra.Command, ed *editor.Editor) error {
	flags := cmd.Flags()
	if flags.Changed("title") {
		ed.SetTitle(f.title)
	}
	if flags.Changed("content") || flags.Changed("file") {
		content, err := readContent(cmd, f.file, f.content)
		if err != nil {
			return err
		}
		ed.SetContent(content)
	}
	if flags.Changed("folder") {
		if err := ed.SelectFolder(f.folder); err != nil {
			return err
		}
	}
	if flags.Changed("favorite") {
		ed.SetFavorite(f.favorite)
	}
	form := ed.Form()
	for _, tid := range f.tags {
		if form.Tags.Has(tid) {
			continue
		}
		if !ed.ToggleTag(tid) {
			return &editor.ValidationError{Field: "tags", Message: fmt.Sprintf("tag %d does not exist", tid)}
		}
	}
	for _, tid := range f.untags {
		if form.Tags.Has(tid) {
			ed.ToggleTag(tid)
		}
	}
	return nil
}

func printSaved(cmd *cobra.Command, verb string, n domain.Note, ed *editor.Editor) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s note %d %q", verb, n.ID, n.Title)
	if tags := ed.SelectedTags(); len(tags) > 0 {
		fmt.Fprintf(w, " [%s]", tagNames(tags))
	}
	fmt.Fprintln(w)
}

func newNoteCmd(a *app) *cobra.Command {
	var f noteForm
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a note",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.authed(cmd.Context()); err != nil {
				return err
			}
			ed := editor.New(a.client)
			if err := ed.Load(cmd.Context(), 0); err != nil {
				return err
			}
			if err := f.apply(cmd, ed); err != nil {
				return err
			}
			n, err := ed.Submit(cmd.Context())
			if err != nil {
				return err
			}
			printSaved(cmd, "created", n, ed)
			return nil
		},
	}
	f.bind(cmd)
	return cmd
}

func editNoteCmd(a *app) *cobra.Command {
	var f noteForm
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a note; flags that are not given keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nid, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.authed(cmd.Context()); err != nil {
				return err
			}
			ed := editor.New(a.client)
			if err := ed.Load(cmd.Context(), nid); err != nil {
				return err
			}
			if err := f.apply(cmd, ed); err != nil {
				return err
			}
			n, err := ed.Submit(cmd.Context())
			if err != nil {
				return err
			}
			printSaved(cmd, "updated", n, ed)
			return nil
		},
	}
	f.bind(cmd)
	cmd.Flags().Int64SliceVar(&f.untags, "untag", nil, "tag id to remove (repeatable)")
	return cmd
}

func deleteNoteCmd(a *app) *cobra.Command {
	var fromTag string
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a note",
		Long: `Delete a note. With --from-tag the note's tag assignments are removed
one by one before the note itself, as the tag view does.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nid, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.authed(cmd.Context()); err != nil {
				return err
			}
			if fromTag != "" {
				tid, err := parseID(fromTag)
				if err != nil {
					return err
				}
				b := tagview.New(a.client, tid)
				if err := b.Load(cmd.Context()); err != nil {
					return err
				}
				if _, ok := b.Get(nid); !ok {
					return fmt.Errorf("note %d does not carry tag %q", nid, b.Tag().Name)
				}
				if err := b.DeleteNote(cmd.Context(), nid); err != nil {
					return err
				}
			} else if err := a.client.DeleteNote(cmd.Context(), nid); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted note %d\n", nid)
			return nil
		},
	}
	cmd.Flags().StringVar(&fromTag, "from-tag", "", "tag id the note is being deleted from")
	return cmd
}

func favoriteNoteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "favorite <id>",
		Short: "Toggle the favorite flag of a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nid, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.authed(cmd.Context()); err != nil {
				return err
			}
			notes := listview.NewNotes(a.client, client.NoteFilter{})
			if err := notes.Load(cmd.Context()); err != nil {
				return err
			}
			if err := notes.ToggleFavorite(cmd.Context(), nid); err != nil {
				if errors.Is(err, listview.ErrNotInList) {
					return fmt.Errorf("note %d not found", nid)
				}
				return err
			}
			n, _ := notes.Get(nid)
			state := "removed from"
			if n.IsFavorite {
				state = "added to"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "note %d %s favorites\n", nid, state)
			return nil
		},
	}
}
