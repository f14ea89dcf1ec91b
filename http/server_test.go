package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ViniZap4/lumi-notes/auth"
	"github.com/ViniZap4/lumi-notes/domain"
	"github.com/ViniZap4/lumi-notes/store/sqlite"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type harness struct {
	t   *testing.T
	app *fiber.App
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	st, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	srv := NewServer(st, auth.NewIssuer("test-secret", time.Hour), zerolog.Nop())
	return &harness{t: t, app: srv.App([]string{"*"})}
}

func (h *harness) do(method, path, token string, body any) (int, envelope) {
	h.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(h.t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := h.app.Test(req, -1)
	require.NoError(h.t, err)
	defer resp.Body.Close()

	var env envelope
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(h.t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v), string(env.Data))
	return v
}

// login registers name and returns a bearer token.
func (h *harness) login(name string) string {
	h.t.Helper()
	status, _ := h.do("POST", "/api/register", "", domain.RegisterRequest{
		Username: name, Email: name + "@example.com", Password: "secret123",
	})
	require.Equal(h.t, fiber.StatusCreated, status)
	status, env := h.do("POST", "/api/login", "", domain.LoginRequest{Email: name + "@example.com", Password: "secret123"})
	require.Equal(h.t, fiber.StatusOK, status)
	return decode[domain.LoginResponse](h.t, env).Token
}

func TestHealth(t *testing.T) {
	h := newHarness(t)
	req := httptest.NewRequest("GET", "/", nil)
	resp, err := h.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAuthFlow(t *testing.T) {
	h := newHarness(t)

	status, env := h.do("POST", "/api/register", "", domain.RegisterRequest{Username: "ana", Email: "ana@example.com"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Message)

	token := h.login("ana")

	status, _ = h.do("POST", "/api/register", "", domain.RegisterRequest{Username: "ana", Email: "ana@example.com", Password: "x"})
	assert.Equal(t, fiber.StatusConflict, status)

	status, env = h.do("POST", "/api/login", "", domain.LoginRequest{Email: "ana@example.com", Password: "wrong"})
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "invalid email or password", env.Message)

	status, env = h.do("GET", "/api/me", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ana", decode[domain.User](t, env).Username)

	status, env = h.do("GET", "/api/notes", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.False(t, env.Success)

	status, _ = h.do("GET", "/api/notes", "garbage", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestRegisterRejectsLongPassword(t *testing.T) {
	h := newHarness(t)

	status, env := h.do("POST", "/api/register", "", domain.RegisterRequest{
		Username: "ana", Email: "ana@example.com", Password: strings.Repeat("p", auth.MaxPasswordBytes+1),
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "password must be at most 72 bytes", env.Message)

	status, _ = h.do("POST", "/api/register", "", domain.RegisterRequest{
		Username: "ana", Email: "ana@example.com", Password: strings.Repeat("p", auth.MaxPasswordBytes),
	})
	assert.Equal(t, fiber.StatusCreated, status)
}

func TestNoteLifecycle(t *testing.T) {
	h := newHarness(t)
	token := h.login("ana")

	var tagIDs []int64
	for _, name := range []string{"errands", "home"} {
		status, env := h.do("POST", "/api/tags", token, map[string]string{"name": name})
		require.Equal(t, fiber.StatusCreated, status)
		tagIDs = append(tagIDs, decode[domain.Tag](t, env).ID)
	}

	status, env := h.do("POST", "/api/notes", token, domain.NoteInput{Title: "  ", Content: "x"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "note title is required", env.Message)

	status, env = h.do("POST", "/api/notes", token, domain.NoteInput{
		Title: "Shopping", Content: "milk, eggs", TagIDs: tagIDs,
	})
	require.Equal(t, fiber.StatusCreated, status)
	note := decode[domain.Note](t, env)

	status, env = h.do("GET", fmt.Sprintf("/api/notes/%d", note.ID), token, nil)
	require.Equal(t, fiber.StatusOK, status)
	got := decode[domain.Note](t, env)
	assert.Equal(t, "Shopping", got.Title)
	assert.Equal(t, "milk, eggs", got.Content)
	assert.ElementsMatch(t, tagIDs, got.TagIDs)

	in := got.Input()
	in.IsFavorite = true
	status, env = h.do("PUT", fmt.Sprintf("/api/notes/%d", note.ID), token, in)
	require.Equal(t, fiber.StatusOK, status)
	assert.True(t, decode[domain.Note](t, env).IsFavorite)

	status, env = h.do("GET", "/api/notes?favorite=true&search=MILK", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, decode[[]domain.Note](t, env), 1)

	status, env = h.do("GET", fmt.Sprintf("/api/tags/%d/notes", tagIDs[0]), token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, decode[[]domain.Note](t, env), 1)

	status, _ = h.do("DELETE", fmt.Sprintf("/api/notes/%d/tags/%d", note.ID, tagIDs[0]), token, nil)
	require.Equal(t, fiber.StatusOK, status)
	status, _ = h.do("DELETE", fmt.Sprintf("/api/notes/%d/tags/%d", note.ID, tagIDs[0]), token, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	status, _ = h.do("POST", fmt.Sprintf("/api/notes/%d/tags/%d", note.ID, tagIDs[0]), token, nil)
	assert.Equal(t, fiber.StatusCreated, status)
	status, _ = h.do("POST", fmt.Sprintf("/api/notes/%d/tags/%d", note.ID, tagIDs[0]), token, nil)
	assert.Equal(t, fiber.StatusConflict, status)

	status, env = h.do("DELETE", fmt.Sprintf("/api/notes/%d", note.ID), token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.True(t, env.Success)

	status, env = h.do("GET", fmt.Sprintf("/api/notes/%d", note.ID), token, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "note not found", env.Message)
}

func TestNotesAreScopedToOwner(t *testing.T) {
	h := newHarness(t)
	ana := h.login("ana")
	bob := h.login("bob")

	status, env := h.do("POST", "/api/tags", bob, map[string]string{"name": "bob"})
	require.Equal(t, fiber.StatusCreated, status)
	bobTag := decode[domain.Tag](t, env)

	status, env = h.do("POST", "/api/notes", ana, domain.NoteInput{Title: "x", TagIDs: []int64{bobTag.ID}})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "unknown folder or tag", env.Message)

	status, env = h.do("POST", "/api/notes", bob, domain.NoteInput{Title: "private"})
	require.Equal(t, fiber.StatusCreated, status)
	bobNote := decode[domain.Note](t, env)

	status, _ = h.do("GET", fmt.Sprintf("/api/notes/%d", bobNote.ID), ana, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	status, _ = h.do("DELETE", fmt.Sprintf("/api/notes/%d", bobNote.ID), ana, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestFolderDeleteKeepsNotes(t *testing.T) {
	h := newHarness(t)
	token := h.login("ana")

	status, env := h.do("POST", "/api/folders", token, map[string]any{"name": "Trip", "description": "summer"})
	require.Equal(t, fiber.StatusCreated, status)
	folder := decode[domain.Folder](t, env)

	status, env = h.do("POST", "/api/notes", token, domain.NoteInput{Title: "Packing", FolderID: &folder.ID})
	require.Equal(t, fiber.StatusCreated, status)
	note := decode[domain.Note](t, env)
	assert.Equal(t, "Trip", note.FolderName)

	status, env = h.do("GET", fmt.Sprintf("/api/folders/%d/notes", folder.ID), token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, decode[[]domain.Note](t, env), 1)

	status, env = h.do("PATCH", fmt.Sprintf("/api/folders/%d", folder.ID), token, map[string]any{"is_favorite": true})
	require.Equal(t, fiber.StatusOK, status)
	patched := decode[domain.Folder](t, env)
	assert.True(t, patched.IsFavorite)
	assert.Equal(t, "summer", patched.Description)

	status, env = h.do("PUT", fmt.Sprintf("/api/folders/%d", folder.ID), token, map[string]any{"name": "Travel"})
	require.Equal(t, fiber.StatusOK, status)
	put := decode[domain.Folder](t, env)
	assert.Equal(t, "Travel", put.Name)
	assert.False(t, put.IsFavorite)
	assert.Empty(t, put.Description)

	status, _ = h.do("DELETE", fmt.Sprintf("/api/folders/%d", folder.ID), token, nil)
	require.Equal(t, fiber.StatusOK, status)

	status, env = h.do("GET", fmt.Sprintf("/api/notes/%d", note.ID), token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Nil(t, decode[domain.Note](t, env).FolderID)

	status, _ = h.do("GET", fmt.Sprintf("/api/folders/%d/notes", folder.ID), token, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestTagErrors(t *testing.T) {
	h := newHarness(t)
	token := h.login("ana")

	status, _ := h.do("POST", "/api/tags", token, map[string]string{"name": "dup"})
	require.Equal(t, fiber.StatusCreated, status)
	status, env := h.do("POST", "/api/tags", token, map[string]string{"name": "dup"})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "tag already exists", env.Message)

	status, _ = h.do("GET", "/api/tags/abc", token, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	status, _ = h.do("PUT", "/api/tags/999", token, map[string]string{"name": "x"})
	assert.Equal(t, fiber.StatusNotFound, status)
}
