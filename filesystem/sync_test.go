package filesystem_test

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ViniZap4/lumi-notes/apitest"
	"github.com/ViniZap4/lumi-notes/client"
	"github.com/ViniZap4/lumi-notes/domain"
	"github.com/ViniZap4/lumi-notes/filesystem"
)

func TestExportImportBetweenUsers(t *testing.T) {
	ts := apitest.Start(t)
	ctx := context.Background()
	ana := apitest.SignUp(t, ts.URL, "ana")

	home, err := ana.CreateFolder(ctx, client.FolderInput{Name: "Home"})
	require.NoError(t, err)
	errands, err := ana.CreateTag(ctx, "errands")
	require.NoError(t, err)
	work, err := ana.CreateTag(ctx, "Work")
	require.NoError(t, err)
	shopping, err := ana.CreateNote(ctx, domain.NoteInput{
		Title: "Shopping", Content: "milk, eggs", FolderID: &home.ID,
		IsFavorite: true, TagIDs: []int64{errands.ID, work.ID},
	})
	require.NoError(t, err)
	loose, err := ana.CreateNote(ctx, domain.NoteInput{Title: "Loose ends", Content: "call bank"})
	require.NoError(t, err)

	dir := t.TempDir()
	paths, err := filesystem.Export(ctx, ana, dir)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "home", "shopping-"+strconv.FormatInt(shopping.ID, 10)+".md"),
		filepath.Join(dir, "loose-ends-"+strconv.FormatInt(loose.ID, 10)+".md"),
	}, paths)

	bob := apitest.SignUp(t, ts.URL, "bob")
	existing, err := bob.CreateTag(ctx, "work")
	require.NoError(t, err)

	res, err := filesystem.Import(ctx, bob, dir)
	require.NoError(t, err)
	require.Len(t, res.Created, 2)
	assert.Empty(t, res.Skipped)
	assert.Equal(t, 1, res.FoldersCreated)
	assert.Equal(t, 1, res.TagsCreated, "work matched case-insensitively")

	notes, err := bob.ListNotes(ctx, client.NoteFilter{Search: "milk"})
	require.NoError(t, err)
	require.Len(t, notes, 1)
	got := notes[0]
	assert.Equal(t, "Shopping", got.Title)
	assert.Equal(t, "milk, eggs", got.Content)
	assert.Equal(t, "Home", got.FolderName)
	assert.True(t, got.IsFavorite)
	assert.Contains(t, got.TagIDs, existing.ID)
	assert.Len(t, got.TagIDs, 2)
}

func TestImportReportsSkippedFiles(t *testing.T) {
	ts := apitest.Start(t)
	ctx := context.Background()
	c := apitest.SignUp(t, ts.URL, "ana")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "plain.md"), []byte("# no frontmatter"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ok.md"), []byte("---\ntitle: Kept\n---\nbody"), 0o644))

	res, err := filesystem.Import(ctx, c, dir)
	require.NoError(t, err)
	require.Len(t, res.Created, 1)
	assert.Equal(t, "Kept", res.Created[0].Title)
	assert.Equal(t, []string{filepath.Join(dir, "plain.md")}, res.Skipped)
}

func TestExportRequiresSession(t *testing.T) {
	ts := apitest.Start(t)
	_, err := filesystem.Export(context.Background(), client.New(ts.URL), t.TempDir())
	assert.ErrorIs(t, err, client.ErrUnauthorized)
}
