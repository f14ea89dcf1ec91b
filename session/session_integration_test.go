package session_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ViniZap4/lumi-notes/apitest"
	"github.com/ViniZap4/lumi-notes/client"
	"github.com/ViniZap4/lumi-notes/session"
)

func newBound(baseURL string, store session.Store) (*client.Client, *session.Manager) {
	c := client.New(baseURL)
	m := session.NewManager(c, store, zerolog.Nop())
	c.UseAuth(m)
	return c, m
}

func TestSessionAgainstServer(t *testing.T) {
	ts := apitest.Start(t)
	apitest.SignUp(t, ts.URL, "ana")
	store := session.NewFileStore(filepath.Join(t.TempDir(), "session.yaml"))
	ctx := context.Background()

	c, m := newBound(ts.URL, store)
	_, err := m.Login(ctx, "ana@example.com", apitest.Password)
	require.NoError(t, err)
	_, err = c.ListNotes(ctx, client.NoteFilter{})
	require.NoError(t, err)

	// reload
	c2, m2 := newBound(ts.URL, store)
	state, err := m2.Restore(ctx)
	require.NoError(t, err)
	assert.Equal(t, session.Authenticated, state)
	_, err = c2.ListTags(ctx)
	require.NoError(t, err)

	// a tampered token is rejected and the session ends
	require.NoError(t, store.Save(session.Persisted{Token: "tampered"}))
	_, m3 := newBound(ts.URL, store)
	state, err = m3.Restore(ctx)
	assert.ErrorIs(t, err, client.ErrUnauthorized)
	assert.Equal(t, session.Unauthenticated, state)
	_, err = store.Load()
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestFailedReloginKeepsSession(t *testing.T) {
	ts := apitest.Start(t)
	apitest.SignUp(t, ts.URL, "ana")
	store := session.NewFileStore(filepath.Join(t.TempDir(), "session.yaml"))
	ctx := context.Background()

	c, m := newBound(ts.URL, store)
	_, err := m.Login(ctx, "ana@example.com", apitest.Password)
	require.NoError(t, err)

	_, err = m.Login(ctx, "ana@example.com", "wrong")
	assert.ErrorIs(t, err, client.ErrUnauthorized)
	assert.Equal(t, session.Authenticated, m.State())
	saved, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, m.Token(), saved.Token)

	_, err = c.ListNotes(ctx, client.NoteFilter{})
	assert.NoError(t, err)
}
