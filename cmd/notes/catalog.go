package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ViniZap4/lumi-notes/client"
	"github.com/ViniZap4/lumi-notes/domain"
	"github.com/ViniZap4/lumi-notes/listview"
)

func foldersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "folders",
		Aliases: []string{"folder"},
		Short:   "Manage folders",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List folders",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.authed(cmd.Context()); err != nil {
				return err
			}
			folders := listview.NewFolders(a.client)
			if err := folders.Load(cmd.Context()); err != nil {
				return err
			}
			printFolders(cmd.OutOrStdout(), folders.Items())
			return nil
		},
	}

	var in client.FolderInput
	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.authed(cmd.Context()); err != nil {
				return err
			}
			in.Name = args[0]
			f, err := a.client.CreateFolder(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created folder %d %q\n", f.ID, f.Name)
			return nil
		},
	}
	create.Flags().StringVarP(&in.Description, "description", "d", "", "folder description")
	create.Flags().BoolVar(&in.IsFavorite, "favorite", false, "mark as favorite")

	var description string
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Change the name or description of a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fid, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.authed(cmd.Context()); err != nil {
				return err
			}
			var patch domain.FolderPatch
			if cmd.Flags().Changed("name") {
				name, _ := cmd.Flags().GetString("name")
				patch.Name = &name
			}
			if cmd.Flags().Changed("description") {
				patch.Description = &description
			}
			if patch.Name == nil && patch.Description == nil {
				return errors.New("nothing to change: pass --name or --description")
			}
			f, err := a.client.PatchFolder(cmd.Context(), fid, patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated folder %d %q\n", f.ID, f.Name)
			return nil
		},
	}
	update.Flags().String("name", "", "new name")
	update.Flags().StringVarP(&description, "description", "d", "", "new description")

	favorite := &cobra.Command{
		Use:   "favorite <id>",
		Short: "Toggle the favorite flag of a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fid, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.authed(cmd.Context()); err != nil {
				return err
			}
			folders := listview.NewFolders(a.client)
			if err := folders.Load(cmd.Context()); err != nil {
				return err
			}
			if err := folders.ToggleFavorite(cmd.Context(), fid); err != nil {
				if errors.Is(err, listview.ErrNotInList) {
					return fmt.Errorf("folder %d not found", fid)
				}
				return err
			}
			f, _ := folders.Get(fid)
			state := "removed from"
			if f.IsFavorite {
				state = "added to"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "folder %q %s favorites\n", f.Name, state)
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a folder; its notes stay, without a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fid, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.authed(cmd.Context()); err != nil {
				return err
			}
			if err := a.client.DeleteFolder(cmd.Context(), fid); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted folder %d\n", fid)
			return nil
		},
	}

	notes := &cobra.Command{
		Use:   "notes <id>",
		Short: "List the notes of a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fid, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.authed(cmd.Context()); err != nil {
				return err
			}
			list, err := a.client.FolderNotes(cmd.Context(), fid)
			if err != nil {
				return err
			}
			printNotes(cmd.OutOrStdout(), list)
			return nil
		},
	}

	cmd.AddCommand(list, create, update, favorite, remove, notes)
	return cmd
}

func tagsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tags",
		Aliases: []string{"tag"},
		Short:   "Manage tags and their assignment to notes",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List tags",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.authed(cmd.Context()); err != nil {
				return err
			}
			tags := listview.NewTags(a.client)
			if err := tags.Load(cmd.Context()); err != nil {
				return err
			}
			printTags(cmd.OutOrStdout(), tags.Items())
			return nil
		},
	}

	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.authed(cmd.Context()); err != nil {
				return err
			}
			t, err := a.client.CreateTag(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created tag %d %q\n", t.ID, t.Name)
			return nil
		},
	}

	rename := &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a tag",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tid, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.authed(cmd.Context()); err != nil {
				return err
			}
			tags := listview.NewTags(a.client)
			if err := tags.Load(cmd.Context()); err != nil {
				return err
			}
			if err := tags.Rename(cmd.Context(), tid, args[1]); err != nil {
				if errors.Is(err, listview.ErrNotInList) {
					return fmt.Errorf("tag %d not found", tid)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "renamed tag %d to %q\n", tid, args[1])
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a tag; notes lose the label",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tid, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.authed(cmd.Context()); err != nil {
				return err
			}
			if err := a.client.DeleteTag(cmd.Context(), tid); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted tag %d\n", tid)
			return nil
		},
	}

	notes := &cobra.Command{
		Use:   "notes <id>",
		Short: "List the notes carrying a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tid, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.authed(cmd.Context()); err != nil {
				return err
			}
			list, err := a.client.TagNotes(cmd.Context(), tid)
			if err != nil {
				return err
			}
			printNotes(cmd.OutOrStdout(), list)
			return nil
		},
	}

	assign := &cobra.Command{
		Use:   "assign <note-id> <tag-id>",
		Short: "Add a tag to a note",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			nid, tid, err := parsePair(args)
			if err != nil {
				return err
			}
			if err := a.authed(cmd.Context()); err != nil {
				return err
			}
			if _, err := a.client.AssignTag(cmd.Context(), nid, tid); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "tagged note %d with tag %d\n", nid, tid)
			return nil
		},
	}

	unassign := &cobra.Command{
		Use:   "unassign <note-id> <tag-id>",
		Short: "Remove a tag from a note",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			nid, tid, err := parsePair(args)
			if err != nil {
				return err
			}
			if err := a.authed(cmd.Context()); err != nil {
				return err
			}
			if err := a.client.RemoveTag(cmd.Context(), nid, tid); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed tag %d from note %d\n", tid, nid)
			return nil
		},
	}

	cmd.AddCommand(list, create, rename, remove, notes, assign, unassign)
	return cmd
}

func parsePair(args []string) (int64, int64, error) {
	first, err := parseID(args[0])
	if err != nil {
		return 0, 0, err
	}
	second, err := parseID(args[1])
	if err != nil {
		return 0, 0, err
	}
	return first, second, nil
}
