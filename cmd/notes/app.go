package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ViniZap4/lumi-notes/client"
	"github.com/ViniZap4/lumi-notes/config"
	"github.com/ViniZap4/lumi-notes/session"
)

// app is the state shared by every command of one invocation.
type app struct {
	serverFlag string
	verbose    bool

	cfg     config.Client
	log     zerolog.Logger
	client  *client.Client
	session *session.Manager
	guard   session.Guard
}

func (a *app) setup(cmd *cobra.Command) error {
	a.cfg = config.LoadClient()
	if a.serverFlag != "" {
		a.cfg.ServerURL = strings.TrimRight(a.serverFlag, "/")
	}

	level, err := zerolog.ParseLevel(a.cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.WarnLevel
	}
	if a.verbose {
		level = zerolog.DebugLevel
	}
	a.log = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.Kitchen}).
		Level(level).With().Timestamp().Logger()

	a.client = client.New(a.cfg.ServerURL,
		client.WithTimeout(a.cfg.HTTPTimeout),
		client.WithLogger(a.log),
	)
	a.session = session.NewManager(a.client, session.NewFileStore(a.cfg.SessionFile), a.log)
	a.client.UseAuth(a.session)
	a.guard = session.NewGuard(a.session)
	return nil
}

// authed resolves the saved session; commands that need a user call it
// before anything else.
func (a *app) authed(ctx context.Context) error {
	if err := a.guard.Require(ctx); err != nil {
		if errors.Is(err, session.ErrNotLoggedIn) {
			return fmt.Errorf("%w: run `notes login` first", err)
		}
		return err
	}
	return nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// readSecret asks for a password on the terminal without echo, or reads a
// line from the command's input when that is not a terminal.
func readSecret(cmd *cobra.Command, prompt string) (string, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), prompt)
		pass, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(pass), nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readContent returns the --file contents ("-" is stdin) or fallback.
func readContent(cmd *cobra.Command, path, fallback string) (string, error) {
	switch path {
	case "":
		return fallback, nil
	case "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		return string(data), err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
