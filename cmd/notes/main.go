package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ViniZap4/lumi-notes/client"
)

var version = "dev"

var completionShells = []string{"bash", "zsh", "fish", "powershell"}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "notes",
		Short:         "Personal notes, folders and tags from the terminal",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}
	root.PersistentFlags().StringVar(&a.serverFlag, "server", "", "API base URL (default $NOTES_SERVER or http://localhost:8080)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log requests to stderr")

	completion := &cobra.Command{
		Use:   fmt.Sprintf("completion %s", strings.Join(completionShells, "|")),
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for notes.

  Bash:  source <(notes completion bash)
  Zsh:   notes completion zsh > "${fpath[1]}/_notes"
  Fish:  notes completion fish | source`,
		DisableFlagsInUseLine: true,
		ValidArgs:             completionShells,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		PersistentPreRunE:     func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return root.GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return root.GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return root.GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return root.GenPowerShellCompletion(cmd.OutOrStdout())
			}
			return fmt.Errorf("unsupported shell: %s", args[0])
		},
	}

	versionCmd := &cobra.Command{
		Use:               "version",
		Short:             "Print the version of notes",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}

	root.AddCommand(
		completion,
		versionCmd,
		registerCmd(a),
		loginCmd(a),
		logoutCmd(a),
		whoamiCmd(a),
		notesCmd(a),
		foldersCmd(a),
		tagsCmd(a),
		dashboardCmd(a),
		exportCmd(a),
		importCmd(a),
		tuiCmd(a),
	)
	return root
}

// errorText is what the user sees for err. Server and form errors carry
// their own message; local errors print as they are.
func errorText(err error) string {
	var um interface{ UserMessage() string }
	if errors.As(err, &um) || errors.Is(err, client.ErrUnauthorized) {
		return client.Message(err)
	}
	return err.Error()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, "error:", errorText(err))
		os.Exit(1)
	}
}
