package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ViniZap4/lumi-notes/domain"
	"github.com/ViniZap4/lumi-notes/store"
)

const selectNotes = `
	SELECT n.id, n.user_id, n.folder_id, COALESCE(f.name, ''), n.title, n.content,
	       n.is_favorite, n.created_at, n.updated_at
	FROM notes n
	LEFT JOIN folders f ON f.id = n.folder_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(r rowScanner) (domain.Note, error) {
	var n domain.Note
	var folderID sql.NullInt64
	err := r.Scan(&n.ID, &n.UserID, &folderID, &n.FolderName, &n.Title, &n.Content,
		&n.IsFavorite, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return domain.Note{}, err
	}
	if folderID.Valid {
		id := folderID.Int64
		n.FolderID = &id
	}
	return n, nil
}

func (s *Store) ListNotes(ctx context.Context, userID int64, q store.NoteQuery) ([]domain.Note, error) {
	var where strings.Builder
	args := []any{userID}
	where.WriteString(" WHERE n.user_id = ?")
	if q.FolderID != nil {
		where.WriteString(" AND n.folder_id = ?")
		args = append(args, *q.FolderID)
	}
	if q.TagID != nil {
		where.WriteString(" AND EXISTS (SELECT 1 FROM note_tags nt WHERE nt.note_id = n.id AND nt.tag_id = ?)")
		args = append(args, *q.TagID)
	}
	if q.FavoriteOnly {
		where.WriteString(" AND n.is_favorite = 1")
	}
	if term := strings.TrimSpace(q.Search); term != "" {
		where.WriteString(` AND (LOWER(n.title) LIKE ? ESCAPE '\' OR LOWER(n.content) LIKE ? ESCAPE '\')`)
		p := store.LikePattern(term)
		args = append(args, p, p)
	}

	rows, err := s.db.QueryContext(ctx, selectNotes+where.String()+" ORDER BY n.created_at DESC, n.id DESC", args...)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	notes := []domain.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if err := s.attachTags(ctx, notes); err != nil {
		return nil, err
	}
	return notes, nil
}

func (s *Store) GetNote(ctx context.Context, userID, id int64) (domain.Note, error) {
	n, err := scanNote(s.db.QueryRowContext(ctx, selectNotes+" WHERE n.id = ? AND n.user_id = ?", id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Note{}, store.ErrNotFound
	}
	if err != nil {
		return domain.Note{}, err
	}
	notes := []domain.Note{n}
	if err := s.attachTags(ctx, notes); err != nil {
		return domain.Note{}, err
	}
	return notes[0], nil
}

// attachTags must run with no open result set: the in-memory database has a
// single connection.
func (s *Store) attachTags(ctx context.Context, notes []domain.Note) error {
	if len(notes) == 0 {
		return nil
	}
	ids := make([]int64, len(notes))
	for i, n := range notes {
		ids[i] = n.ID
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT nt.note_id, t.id, t.user_id, t.name, t.created_at
		FROM note_tags nt
		JOIN tags t ON t.id = nt.tag_id
		WHERE nt.note_id IN (`+placeholders(len(ids))+`)`, int64Args(ids)...)
	if err != nil {
		return fmt.Errorf("query note tags: %w", err)
	}
	defer rows.Close()

	byNote := make(map[int64][]domain.Tag)
	for rows.Next() {
		var noteID int64
		var t domain.Tag
		if err := rows.Scan(&noteID, &t.ID, &t.UserID, &t.Name, &t.CreatedAt); err != nil {
			return fmt.Errorf("scan note tag: %w", err)
		}
		byNote[noteID] = append(byNote[noteID], t)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	store.AttachTags(notes, byNote)
	return nil
}

func checkRefs(ctx context.Context, tx *sql.Tx, userID int64, in domain.NoteInput) ([]int64, error) {
	if in.FolderID != nil {
		var n int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM folders WHERE id = ? AND user_id = ?`, *in.FolderID, userID).Scan(&n); err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, fmt.Errorf("%w: folder %d", store.ErrInvalidReference, *in.FolderID)
		}
	}
	if in.TagIDs == nil {
		return nil, nil
	}
	ids := store.UniqueIDs(in.TagIDs)
	if len(ids) == 0 {
		return ids, nil
	}
	var n int
	args := append([]any{userID}, int64Args(ids)...)
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tags WHERE user_id = ? AND id IN (`+placeholders(len(ids))+`)`, args...).Scan(&n)
	if err != nil {
		return nil, err
	}
	if n != len(ids) {
		return nil, fmt.Errorf("%w: unknown tag id in %v", store.ErrInvalidReference, ids)
	}
	return ids, nil
}

func (s *Store) CreateNote(ctx context.Context, userID int64, in domain.NoteInput) (domain.Note, error) {
	var id int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		tagIDs, err := checkRefs(ctx, tx, userID, in)
		if err != nil {
			return err
		}
		now := s.stamp()
		res, err := tx.ExecContext(ctx, `
			INSERT INTO notes (user_id, folder_id, title, content, is_favorite, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			userID, in.FolderID, in.Title, in.Content, in.IsFavorite, now, now)
		if err != nil {
			return mapErr(err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return err
		}
		return s.syncNoteTags(ctx, tx, id, tagIDs)
	})
	if err != nil {
		return domain.Note{}, err
	}
	return s.GetNote(ctx, userID, id)
}

func (s *Store) UpdateNote(ctx context.Context, userID, id int64, in domain.NoteInput) (domain.Note, error) {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		tagIDs, err := checkRefs(ctx, tx, userID, in)
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `
			UPDATE notes SET folder_id = ?, title = ?, content = ?, is_favorite = ?, updated_at = ?
			WHERE id = ? AND user_id = ?`,
			in.FolderID, in.Title, in.Content, in.IsFavorite, s.stamp(), id, userID)
		if err != nil {
			return mapErr(err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return store.ErrNotFound
		}
		if in.TagIDs == nil {
			return nil
		}
		return s.syncNoteTags(ctx, tx, id, tagIDs)
	})
	if err != nil {
		return domain.Note{}, err
	}
	return s.GetNote(ctx, userID, id)
}

// syncNoteTags makes the note's assignments equal tagIDs, keeping the rows
// (and their ids) of assignments that survive.
func (s *Store) syncNoteTags(ctx context.Context, tx *sql.Tx, noteID int64, tagIDs []int64) error {
	if len(tagIDs) == 0 {
		_, err := tx.ExecContext(ctx, `DELETE FROM note_tags WHERE note_id = ?`, noteID)
		return err
	}
	args := append([]any{noteID}, int64Args(tagIDs)...)
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM note_tags WHERE note_id = ? AND tag_id NOT IN (`+placeholders(len(tagIDs))+`)`, args...); err != nil {
		return err
	}
	now := s.stamp()
	for _, tagID := range tagIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO note_tags (note_id, tag_id, created_at) VALUES (?, ?, ?)`, noteID, tagID, now); err != nil {
			return mapErr(err)
		}
	}
	return nil
}

func (s *Store) DeleteNote(ctx context.Context, userID, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) AssignTag(ctx context.Context, userID, noteID, tagID int64) (domain.TagAssignment, error) {
	if err := s.owns(ctx, "notes", userID, noteID); err != nil {
		return domain.TagAssignment{}, err
	}
	if err := s.owns(ctx, "tags", userID, tagID); err != nil {
		return domain.TagAssignment{}, err
	}
	a := domain.TagAssignment{NoteID: noteID, TagID: tagID, CreatedAt: s.stamp()}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO note_tags (note_id, tag_id, created_at) VALUES (?, ?, ?)`, noteID, tagID, a.CreatedAt)
	if err != nil {
		return domain.TagAssignment{}, mapErr(err)
	}
	if a.ID, err = res.LastInsertId(); err != nil {
		return domain.TagAssignment{}, err
	}
	return a, nil
}

func (s *Store) RemoveTag(ctx context.Context, userID, noteID, tagID int64) error {
	if err := s.owns(ctx, "notes", userID, noteID); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM note_tags WHERE note_id = ? AND tag_id = ?`, noteID, tagID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// owns reports store.ErrNotFound unless row id of table belongs to userID.
// table is always a package constant.
func (s *Store) owns(ctx context.Context, table string, userID, id int64) error {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table+` WHERE id = ? AND user_id = ?`, id, userID).Scan(&n)
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
