package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ViniZap4/lumi-notes/domain"
	"github.com/ViniZap4/lumi-notes/store"
)

const selectFolders = `
	SELECT f.id, f.user_id, f.name, f.description, f.is_favorite,
	       (SELECT COUNT(*) FROM notes n WHERE n.folder_id = f.id),
	       f.created_at, f.updated_at
	FROM folders f`

func scanFolder(r rowScanner) (domain.Folder, error) {
	var f domain.Folder
	err := r.Scan(&f.ID, &f.UserID, &f.Name, &f.Description, &f.IsFavorite, &f.NoteCount, &f.CreatedAt, &f.UpdatedAt)
	return f, err
}

func (s *Store) ListFolders(ctx context.Context, userID int64) ([]domain.Folder, error) {
	rows, err := s.db.QueryContext(ctx, selectFolders+` WHERE f.user_id = ? ORDER BY f.created_at DESC, f.id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query folders: %w", err)
	}
	defer rows.Close()

	folders := []domain.Folder{}
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, f)
	}
	return folders, rows.Err()
}

func (s *Store) GetFolder(ctx context.Context, userID, id int64) (domain.Folder, error) {
	f, err := scanFolder(s.db.QueryRowContext(ctx, selectFolders+` WHERE f.id = ? AND f.user_id = ?`, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Folder{}, store.ErrNotFound
	}
	return f, err
}

func (s *Store) CreateFolder(ctx context.Context, userID int64, name, description string) (domain.Folder, error) {
	now := s.stamp()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO folders (user_id, name, description, is_favorite, created_at, updated_at)
		VALUES (?, ?, ?, FALSE, ?, ?)`, userID, name, description, now, now)
	if err != nil {
		return domain.Folder{}, mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Folder{}, err
	}
	return s.GetFolder(ctx, userID, id)
}

func (s *Store) UpdateFolder(ctx context.Context, userID, id int64, patch domain.FolderPatch) (domain.Folder, error) {
	cur, err := s.GetFolder(ctx, userID, id)
	if err != nil {
		return domain.Folder{}, err
	}
	next := store.ApplyPatch(cur, patch)
	_, err = s.db.ExecContext(ctx, `
		UPDATE folders SET name = ?, description = ?, is_favorite = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		next.Name, next.Description, next.IsFavorite, s.stamp(), id, userID)
	if err != nil {
		return domain.Folder{}, mapErr(err)
	}
	return s.GetFolder(ctx, userID, id)
}

// DeleteFolder leaves the folder's notes in place; the foreign key clears
// their folder_id.
func (s *Store) DeleteFolder(ctx context.Context, userID, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM folders WHERE id = ? AND user_id = ?`, id, userID)
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

const selectTags = `
	SELECT t.id, t.user_id, t.name,
	       (SELECT COUNT(*) FROM note_tags nt WHERE nt.tag_id = t.id),
	       t.created_at
	FROM tags t`

func scanTag(r rowScanner) (domain.Tag, error) {
	var t domain.Tag
	err := r.Scan(&t.ID, &t.UserID, &t.Name, &t.NoteCount, &t.CreatedAt)
	return t, err
}

func (s *Store) ListTags(ctx context.Context, userID int64) ([]domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx, selectTags+` WHERE t.user_id = ? ORDER BY t.name ASC, t.id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}
	defer rows.Close()

	tags := []domain.Tag{}
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func (s *Store) GetTag(ctx context.Context, userID, id int64) (domain.Tag, error) {
	t, err := scanTag(s.db.QueryRowContext(ctx, selectTags+` WHERE t.id = ? AND t.user_id = ?`, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Tag{}, store.ErrNotFound
	}
	return t, err
}

func (s *Store) CreateTag(ctx context.Context, userID int64, name string) (domain.Tag, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO tags (user_id, name, created_at) VALUES (?, ?, ?)`, userID, name, s.stamp())
	if err != nil {
		return domain.Tag{}, mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Tag{}, err
	}
	return s.GetTag(ctx, userID, id)
}

func (s *Store) RenameTag(ctx context.Context, userID, id int64, name string) (domain.Tag, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE tags SET name = ? WHERE id = ? AND user_id = ?`, name, id, userID)
	if err != nil {
		return domain.Tag{}, mapErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.Tag{}, err
	}
	if n == 0 {
		return domain.Tag{}, store.ErrNotFound
	}
	return s.GetTag(ctx, userID, id)
}

func (s *Store) DeleteTag(ctx context.Context, userID, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tags WHERE id = ? AND user_id = ?`, id, userID)
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
