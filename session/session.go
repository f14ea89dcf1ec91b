// Package session owns the signed-in identity of a client: it logs in,
// restores a saved session, and forgets it on logout or when the server
// rejects the token.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ViniZap4/lumi-notes/client"
	"github.com/ViniZap4/lumi-notes/domain"
)

type State int

const (
	Unknown State = iota
	Authenticated
	Unauthenticated
)

func (s State) String() string {
	switch s {
	case Authenticated:
		return "authenticated"
	case Unauthenticated:
		return "unauthenticated"
	}
	return "unknown"
}

// API is the part of the notes API a session needs.
type API interface {
	Login(ctx context.Context, email, password string) (domain.LoginResponse, error)
	Me(ctx context.Context) (domain.User, error)
}

var ErrNotLoggedIn = errors.New("not logged in")

// Manager implements client.Auth, so one Manager is bound to the client
// that talks to the server on the user's behalf.
type Manager struct {
	api   API
	store Store
	log   zerolog.Logger
	now   func() time.Time

	mu    sync.Mutex
	state State
	token string
	user  domain.User
}

var _ client.Auth = (*Manager)(nil)

func NewManager(api API, store Store, log zerolog.Logger) *Manager {
	return &Manager{api: api, store: store, log: log, now: time.Now}
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Manager) User() (domain.User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user, m.state == Authenticated
}

// Token returns the bearer token to send, or "" when there is none.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// Restore resolves Unknown: it loads the saved session and asks the server
// to confirm it. Any failure ends Unauthenticated; the saved session is
// only discarded when it is unreadable or the server rejected it.
func (m *Manager) Restore(ctx context.Context) (State, error) {
	m.mu.Lock()
	if m.state != Unknown {
		defer m.mu.Unlock()
		return m.state, nil
	}
	m.mu.Unlock()

	saved, err := m.store.Load()
	switch {
	case errors.Is(err, ErrNoSession):
		return m.settle(Unauthenticated, "", domain.User{}), nil
	case errors.Is(err, ErrCorrupt):
		m.log.Warn().Err(err).Msg("discarding saved session")
		if cerr := m.store.Clear(); cerr != nil {
			m.log.Warn().Err(cerr).Msg("clear saved session")
		}
		return m.settle(Unauthenticated, "", domain.User{}), err
	case err != nil:
		return m.settle(Unauthenticated, "", domain.User{}), err
	}

	// the probe request must carry the saved token
	m.mu.Lock()
	m.token = saved.Token
	m.mu.Unlock()

	user, err := m.api.Me(ctx)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			if cerr := m.store.Clear(); cerr != nil {
				m.log.Warn().Err(cerr).Msg("clear saved session")
			}
		}
		return m.settle(Unauthenticated, "", domain.User{}), fmt.Errorf("restore session: %w", err)
	}
	if err := m.store.Save(Persisted{Token: saved.Token, User: user, SavedAt: m.now()}); err != nil {
		m.log.Warn().Err(err).Msg("refresh saved session")
	}
	return m.settle(Authenticated, saved.Token, user), nil
}

// Login exchanges credentials for a token and saves the session so a later
// Restore succeeds without them. A session that cannot be saved still
// signs the user in for this run.
func (m *Manager) Login(ctx context.Context, email, password string) (domain.User, error) {
	resp, err := m.api.Login(ctx, email, password)
	if err != nil {
		return domain.User{}, err
	}
	if resp.Token == "" {
		return domain.User{}, errors.New("login: server returned no token")
	}
	if err := m.store.Save(Persisted{Token: resp.Token, User: resp.User, SavedAt: m.now()}); err != nil {
		m.log.Warn().Err(err).Msg("save session")
	}
	m.settle(Authenticated, resp.Token, resp.User)
	return resp.User, nil
}

// Logout forgets the session here and on disk.
func (m *Manager) Logout() error {
	m.settle(Unauthenticated, "", domain.User{})
	return m.store.Clear()
}

// Expire is called when the server rejects the token.
func (m *Manager) Expire() {
	m.log.Info().Msg("session expired")
	if err := m.Logout(); err != nil {
		m.log.Warn().Err(err).Msg("clear saved session")
	}
}

func (m *Manager) settle(s State, token string, user domain.User) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state, m.token, m.user = s, token, user
	return s
}

// View is what a guarded screen should do.
type View int

const (
	Loading View = iota
	RedirectLogin
	Render
)

func (v View) String() string {
	switch v {
	case RedirectLogin:
		return "redirect-login"
	case Render:
		return "render"
	}
	return "loading"
}

// Guard gates authenticated screens and commands.
type Guard struct {
	m *Manager
}

func NewGuard(m *Manager) Guard {
	return Guard{m: m}
}

func (g Guard) Check() View {
	switch g.m.State() {
	case Authenticated:
		return Render
	case Unauthenticated:
		return RedirectLogin
	}
	return Loading
}

// Require resolves a pending session and fails with ErrNotLoggedIn unless
// it ends Authenticated.
func (g Guard) Require(ctx context.Context) error {
	if g.Check() == Loading {
		if _, err := g.m.Restore(ctx); err != nil {
			g.m.log.Debug().Err(err).Msg("restore")
		}
	}
	if g.Check() != Render {
		return ErrNotLoggedIn
	}
	return nil
}
