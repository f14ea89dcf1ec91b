package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ViniZap4/lumi-notes/dashboard"
	"github.com/ViniZap4/lumi-notes/filesystem"
	"github.com/ViniZap4/lumi-notes/tui"
)

func dashboardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show totals and the most recent notes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.authed(cmd.Context()); err != nil {
				return err
			}
			s, err := dashboard.Load(cmd.Context(), a.client)
			if err != nil {
				return err
			}
			user, _ := a.session.User()
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Hello, %s\n\n", user.Username)
			printTable(w, []string{"NOTES", "FAVORITES", "FOLDERS", "TAGS"}, [][]string{{
				fmt.Sprint(s.TotalNotes), fmt.Sprint(s.FavoriteNotes), fmt.Sprint(s.TotalFolders), fmt.Sprint(s.TotalTags),
			}})
			fmt.Fprintln(w, "\nRecent notes")
			printNotes(w, s.Recent)
			return nil
		},
	}
}

func exportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export <dir>",
		Short: "Write every note to dir as markdown with YAML frontmatter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.authed(cmd.Context()); err != nil {
				return err
			}
			paths, err := filesystem.Export(cmd.Context(), a.client, args[0])
			if err != nil {
				return err
			}
			for _, p := range paths {
				a.log.Debug().Str("path", p).Msg("exported")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d notes to %s\n", len(paths), args[0])
			return nil
		},
	}
}

func importCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <dir>",
		Short: "Create notes from the markdown files under dir",
		Long: `Create one note per .md file under dir. Folders and tags named in the
frontmatter are matched by name and created when missing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.authed(cmd.Context()); err != nil {
				return err
			}
			res, err := filesystem.Import(cmd.Context(), a.client, args[0])
			w := cmd.OutOrStdout()
			for _, p := range res.Skipped {
				fmt.Fprintf(cmd.ErrOrStderr(), "skipped %s: not a note file\n", p)
			}
			fmt.Fprintf(w, "imported %d notes (%d new folders, %d new tags)\n",
				len(res.Created), res.FoldersCreated, res.TagsCreated)
			return err
		},
	}
}

func tuiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Browse notes, folders and tags interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.authed(cmd.Context()); err != nil {
				return err
			}
			return tui.Run(cmd.Context(), a.client)
		},
	}
}
