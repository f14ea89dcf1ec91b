package domain

import "time"

type Note struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	FolderID   *int64    `json:"folder_id"`
	FolderName string    `json:"folder_name,omitempty"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	IsFavorite bool      `json:"is_favorite"`
	Tags       []Tag     `json:"tags"`
	TagIDs     []int64   `json:"tag_ids"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NoteInput is the write body of POST/PUT /api/notes. A nil TagIDs keeps the
// note's current assignments on update; an empty non-nil slice clears them.
type NoteInput struct {
	Title      string  `json:"title"`
	Content    string  `json:"content"`
	FolderID   *int64  `json:"folder_id"`
	IsFavorite bool    `json:"is_favorite"`
	TagIDs     []int64 `json:"tag_ids"`
}

// Input returns the write body that reproduces n, tag ids included.
func (n Note) Input() NoteInput {
	ids := n.TagIDs
	if ids == nil {
		ids = make([]int64, 0, len(n.Tags))
		for _, t := range n.Tags {
			ids = append(ids, t.ID)
		}
	}
	return NoteInput{
		Title:      n.Title,
		Content:    n.Content,
		FolderID:   n.FolderID,
		IsFavorite: n.IsFavorite,
		TagIDs:     ids,
	}
}

type Folder struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsFavorite  bool      `json:"is_favorite"`
	NoteCount   int       `json:"note_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FolderPatch carries the fields of a folder update. Nil fields are left
// untouched, which is what PATCH needs; PUT fills all of them.
type FolderPatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	IsFavorite  *bool   `json:"is_favorite,omitempty"`
}

type Tag struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	NoteCount int       `json:"note_count"`
	CreatedAt time.Time `json:"created_at"`
}

// TagAssignment is one row of the note/tag relation. It has its own id and
// can be removed without touching either side.
type TagAssignment struct {
	ID        int64     `json:"id"`
	NoteID    int64     `json:"note_id"`
	TagID     int64     `json:"tag_id"`
	CreatedAt time.Time `json:"created_at"`
}
