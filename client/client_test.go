package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ViniZap4/lumi-notes/apitest"
	"github.com/ViniZap4/lumi-notes/client"
	"github.com/ViniZap4/lumi-notes/domain"
)

func TestErrorTaxonomy(t *testing.T) {
	tests := []struct {
		status int
		target error
	}{
		{http.StatusUnauthorized, client.ErrUnauthorized},
		{http.StatusNotFound, client.ErrNotFound},
		{http.StatusBadRequest, client.ErrValidation},
		{http.StatusConflict, client.ErrValidation},
	}
	for _, tt := range tests {
		err := error(&client.APIError{Status: tt.status, Message: "m"})
		assert.ErrorIs(t, err, tt.target, tt.status)
	}
	assert.NotErrorIs(t, &client.APIError{Status: 500}, client.ErrValidation)
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "", client.Message(nil))
	assert.Equal(t, "title is required", client.Message(&client.APIError{Status: 400, Message: "title is required"}))
	assert.Equal(t, client.Fallback, client.Message(&client.APIError{Status: 500}))
	assert.Equal(t, client.Fallback, client.Message(errors.New("dial tcp: refused")))
}

func TestEndToEnd(t *testing.T) {
	ts := apitest.Start(t)
	ctx := context.Background()
	c := apitest.SignUp(t, ts.URL, "ana")

	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ana", me.Username)

	folder, err := c.CreateFolder(ctx, client.FolderInput{Name: "Home"})
	require.NoError(t, err)
	tag, err := c.CreateTag(ctx, "chores")
	require.NoError(t, err)

	note, err := c.CreateNote(ctx, domain.NoteInput{
		Title: "Shopping", Content: "milk, eggs", FolderID: &folder.ID, TagIDs: []int64{tag.ID},
	})
	require.NoError(t, err)

	notes, err := c.ListNotes(ctx, client.NoteFilter{FolderID: &folder.ID})
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, note.ID, notes[0].ID)

	byTag, err := c.TagNotes(ctx, tag.ID)
	require.NoError(t, err)
	assert.Len(t, byTag, 1)

	fav := true
	folder, err = c.PatchFolder(ctx, folder.ID, domain.FolderPatch{IsFavorite: &fav})
	require.NoError(t, err)
	assert.True(t, folder.IsFavorite)

	require.NoError(t, c.RemoveTag(ctx, note.ID, tag.ID))
	_, err = c.AssignTag(ctx, note.ID, tag.ID)
	require.NoError(t, err)

	require.NoError(t, c.DeleteNote(ctx, note.ID))
	_, err = c.GetNote(ctx, note.ID)
	assert.ErrorIs(t, err, client.ErrNotFound)
	assert.Equal(t, "note not found", client.Message(err))

	_, err = c.CreateTag(ctx, "chores")
	assert.ErrorIs(t, err, client.ErrValidation)
}

func TestUnauthorizedExpiresSession(t *testing.T) {
	ts := apitest.Start(t)
	ctx := context.Background()

	auth := &apitest.StaticAuth{Value: "stale-token"}
	c := client.New(ts.URL)
	c.UseAuth(auth)

	_, err := c.ListNotes(ctx, client.NoteFilter{})
	assert.ErrorIs(t, err, client.ErrUnauthorized)
	assert.True(t, auth.Expired)
}

func TestRejectedLoginDoesNotExpire(t *testing.T) {
	ts := apitest.Start(t)
	auth := &apitest.StaticAuth{}
	c := client.New(ts.URL)
	c.UseAuth(auth)

	_, err := c.Login(context.Background(), "nobody@example.com", "x")
	assert.ErrorIs(t, err, client.ErrUnauthorized)
	assert.False(t, auth.Expired)
}

func TestTransportFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	_, err := client.New(url).ListTags(context.Background())
	require.Error(t, err)
	var apiErr *client.APIError
	assert.False(t, errors.As(err, &apiErr))
	assert.Equal(t, client.Fallback, client.Message(err))
}

func TestNonEnvelopeErrorBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer ts.Close()

	_, err := client.New(ts.URL).ListFolders(context.Background())
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
}
