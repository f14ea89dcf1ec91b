package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ViniZap4/lumi-notes/domain"
)

func (c *Client) Register(ctx context.Context, req domain.RegisterRequest) (domain.User, error) {
	var u domain.User
	err := c.send(ctx, http.MethodPost, "/api/register", req, &u, false)
	return u, err
}

func (c *Client) Login(ctx context.Context, email, password string) (domain.LoginResponse, error) {
	var resp domain.LoginResponse
	err := c.send(ctx, http.MethodPost, "/api/login", domain.LoginRequest{Email: email, Password: password}, &resp, false)
	return resp, err
}

// Me returns the user the current token belongs to.
func (c *Client) Me(ctx context.Context) (domain.User, error) {
	var u domain.User
	err := c.do(ctx, http.MethodGet, "/api/me", nil, &u)
	return u, err
}

// NoteFilter narrows ListNotes; zero values disable a filter.
type NoteFilter struct {
	FolderID     *int64
	TagID        *int64
	FavoriteOnly bool
	Search       string
}

func (f NoteFilter) query() string {
	v := url.Values{}
	if f.FolderID != nil {
		v.Set("folder_id", strconv.FormatInt(*f.FolderID, 10))
	}
	if f.TagID != nil {
		v.Set("tag_id", strconv.FormatInt(*f.TagID, 10))
	}
	if f.FavoriteOnly {
		v.Set("favorite", "true")
	}
	if f.Search != "" {
		v.Set("search", f.Search)
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

func (c *Client) ListNotes(ctx context.Context, f NoteFilter) ([]domain.Note, error) {
	var notes []domain.Note
	err := c.do(ctx, http.MethodGet, "/api/notes"+f.query(), nil, &notes)
	return notes, err
}

func (c *Client) GetNote(ctx context.Context, id int64) (domain.Note, error) {
	var n domain.Note
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/notes/%d", id), nil, &n)
	return n, err
}

func (c *Client) CreateNote(ctx context.Context, in domain.NoteInput) (domain.Note, error) {
	var n domain.Note
	err := c.do(ctx, http.MethodPost, "/api/notes", in, &n)
	return n, err
}

func (c *Client) UpdateNote(ctx context.Context, id int64, in domain.NoteInput) (domain.Note, error) {
	var n domain.Note
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/notes/%d", id), in, &n)
	return n, err
}

func (c *Client) DeleteNote(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/notes/%d", id), nil, nil)
}

func (c *Client) AssignTag(ctx context.Context, noteID, tagID int64) (domain.TagAssignment, error) {
	var a domain.TagAssignment
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/notes/%d/tags/%d", noteID, tagID), nil, &a)
	return a, err
}

func (c *Client) RemoveTag(ctx context.Context, noteID, tagID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/notes/%d/tags/%d", noteID, tagID), nil, nil)
}

// FolderInput is the full body of folder create and PUT.
type FolderInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsFavorite  bool   `json:"is_favorite"`
}

func (c *Client) ListFolders(ctx context.Context) ([]domain.Folder, error) {
	var folders []domain.Folder
	err := c.do(ctx, http.MethodGet, "/api/folders", nil, &folders)
	return folders, err
}

func (c *Client) GetFolder(ctx context.Context, id int64) (domain.Folder, error) {
	var f domain.Folder
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/folders/%d", id), nil, &f)
	return f, err
}

func (c *Client) CreateFolder(ctx context.Context, in FolderInput) (domain.Folder, error) {
	var f domain.Folder
	err := c.do(ctx, http.MethodPost, "/api/folders", in, &f)
	return f, err
}

func (c *Client) UpdateFolder(ctx context.Context, id int64, in FolderInput) (domain.Folder, error) {
	var f domain.Folder
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/folders/%d", id), in, &f)
	return f, err
}

func (c *Client) PatchFolder(ctx context.Context, id int64, patch domain.FolderPatch) (domain.Folder, error) {
	var f domain.Folder
	err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/folders/%d", id), patch, &f)
	return f, err
}

func (c *Client) DeleteFolder(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/folders/%d", id), nil, nil)
}

func (c *Client) FolderNotes(ctx context.Context, id int64) ([]domain.Note, error) {
	var notes []domain.Note
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/folders/%d/notes", id), nil, &notes)
	return notes, err
}

func (c *Client) ListTags(ctx context.Context) ([]domain.Tag, error) {
	var tags []domain.Tag
	err := c.do(ctx, http.MethodGet, "/api/tags", nil, &tags)
	return tags, err
}

func (c *Client) GetTag(ctx context.Context, id int64) (domain.Tag, error) {
	var t domain.Tag
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/tags/%d", id), nil, &t)
	return t, err
}

func (c *Client) CreateTag(ctx context.Context, name string) (domain.Tag, error) {
	var t domain.Tag
	err := c.do(ctx, http.MethodPost, "/api/tags", map[string]string{"name": name}, &t)
	return t, err
}

func (c *Client) UpdateTag(ctx context.Context, id int64, name string) (domain.Tag, error) {
	var t domain.Tag
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/tags/%d", id), map[string]string{"name": name}, &t)
	return t, err
}

func (c *Client) DeleteTag(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/tags/%d", id), nil, nil)
}

func (c *Client) TagNotes(ctx context.Context, id int64) ([]domain.Note, error) {
	var notes []domain.Note
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/tags/%d/notes", id), nil, &notes)
	return notes, err
}
