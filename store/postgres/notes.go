package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/ViniZap4/lumi-notes/domain"
	"github.com/ViniZap4/lumi-notes/store"
)

const selectNotes = `
	SELECT n.id, n.user_id, n.folder_id, COALESCE(f.name, ''), n.title, n.content,
	       n.is_favorite, n.created_at, n.updated_at
	FROM notes n
	LEFT JOIN folders f ON f.id = n.folder_id`

func scanNote(row pgx.Row) (domain.Note, error) {
	var n domain.Note
	err := row.Scan(&n.ID, &n.UserID, &n.FolderID, &n.FolderName, &n.Title, &n.Content,
		&n.IsFavorite, &n.CreatedAt, &n.UpdatedAt)
	return n, err
}

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (s *Store) ListNotes(ctx context.Context, userID int64, q store.NoteQuery) ([]domain.Note, error) {
	conds := []string{"n.user_id = $1"}
	args := []any{userID}
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}
	if q.FolderID != nil {
		conds = append(conds, "n.folder_id = "+arg(*q.FolderID))
	}
	if q.TagID != nil {
		conds = append(conds, "EXISTS (SELECT 1 FROM note_tags nt WHERE nt.note_id = n.id AND nt.tag_id = "+arg(*q.TagID)+")")
	}
	if q.FavoriteOnly {
		conds = append(conds, "n.is_favorite")
	}
	if term := strings.TrimSpace(q.Search); term != "" {
		p := arg(store.LikePattern(term))
		conds = append(conds, `(LOWER(n.title) LIKE `+p+` ESCAPE '\' OR LOWER(n.content) LIKE `+p+` ESCAPE '\')`)
	}

	sql := selectNotes + " WHERE " + strings.Join(conds, " AND ") + " ORDER BY n.created_at DESC, n.id DESC"
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	notes, err := pgx.CollectRows(rows, func(r pgx.CollectableRow) (domain.Note, error) { return scanNote(r) })
	if err != nil {
		return nil, fmt.Errorf("scan notes: %w", err)
	}
	if err := attachTags(ctx, s.pool, notes); err != nil {
		return nil, err
	}
	return notes, nil
}

func (s *Store) GetNote(ctx context.Context, userID, id int64) (domain.Note, error) {
	return getNote(ctx, s.pool, userID, id)
}

func getNote(ctx context.Context, q querier, userID, id int64) (domain.Note, error) {
	n, err := scanNote(q.QueryRow(ctx, selectNotes+" WHERE n.id = $1 AND n.user_id = $2", id, userID))
	if err != nil {
		return domain.Note{}, notFound(err)
	}
	notes := []domain.Note{n}
	if err := attachTags(ctx, q, notes); err != nil {
		return domain.Note{}, err
	}
	return notes[0], nil
}

func attachTags(ctx context.Context, q querier, notes []domain.Note) error {
	if len(notes) == 0 {
		return nil
	}
	ids := make([]int64, len(notes))
	for i, n := range notes {
		ids[i] = n.ID
	}
	rows, err := q.Query(ctx, `
		SELECT nt.note_id, t.id, t.user_id, t.name, t.created_at
		FROM note_tags nt
		JOIN tags t ON t.id = nt.tag_id
		WHERE nt.note_id = ANY($1)`, ids)
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

func checkRefs(ctx context.Context, tx pgx.Tx, userID int64, in domain.NoteInput) ([]int64, error) {
	if in.FolderID != nil {
		var ok bool
		err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM folders WHERE id = $1 AND user_id = $2)`, *in.FolderID, userID).Scan(&ok)
		if err != nil {
			return nil, err
		}
		if !ok {
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
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM tags WHERE user_id = $1 AND id = ANY($2)`, userID, ids).Scan(&n); err != nil {
		return nil, err
	}
	if n != len(ids) {
		return nil, fmt.Errorf("%w: unknown tag id in %v", store.ErrInvalidReference, ids)
	}
	return ids, nil
}

func syncNoteTags(ctx context.Context, tx pgx.Tx, noteID int64, tagIDs []int64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM note_tags WHERE note_id = $1 AND NOT (tag_id = ANY($2))`, noteID, tagIDs); err != nil {
		return err
	}
	if len(tagIDs) == 0 {
		return nil
	}
	_, err := tx.Exec(ctx, `
		INSERT INTO note_tags (note_id, tag_id)
		SELECT $1, unnest($2::bigint[])
		ON CONFLICT (note_id, tag_id) DO NOTHING`, noteID, tagIDs)
	return mapErr(err)
}

func (s *Store) CreateNote(ctx context.Context, userID int64, in domain.NoteInput) (domain.Note, error) {
	var note domain.Note
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		tagIDs, err := checkRefs(ctx, tx, userID, in)
		if err != nil {
			return err
		}
		var id int64
		err = tx.QueryRow(ctx, `
			INSERT INTO notes (user_id, folder_id, title, content, is_favorite)
			VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			userID, in.FolderID, in.Title, in.Content, in.IsFavorite).Scan(&id)
		if err != nil {
			return mapErr(err)
		}
		if tagIDs != nil {
			if err := syncNoteTags(ctx, tx, id, tagIDs); err != nil {
				return err
			}
		}
		note, err = getNote(ctx, tx, userID, id)
		return err
	})
	if err != nil {
		return domain.Note{}, err
	}
	return note, nil
}

func (s *Store) UpdateNote(ctx context.Context, userID, id int64, in domain.NoteInput) (domain.Note, error) {
	var note domain.Note
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		tagIDs, err := checkRefs(ctx, tx, userID, in)
		if err != nil {
			return err
		}
		err = affected(tx.Exec(ctx, `
			UPDATE notes SET folder_id = $3, title = $4, content = $5, is_favorite = $6, updated_at = now()
			WHERE id = $1 AND user_id = $2`,
			id, userID, in.FolderID, in.Title, in.Content, in.IsFavorite))
		if err != nil {
			return err
		}
		if tagIDs != nil {
			if err := syncNoteTags(ctx, tx, id, tagIDs); err != nil {
				return err
			}
		}
		note, err = getNote(ctx, tx, userID, id)
		return err
	})
	if err != nil {
		return domain.Note{}, err
	}
	return note, nil
}

func (s *Store) DeleteNote(ctx context.Context, userID, id int64) error {
	return affected(s.pool.Exec(ctx, `DELETE FROM notes WHERE id = $1 AND user_id = $2`, id, userID))
}

func (s *Store) AssignTag(ctx context.Context, userID, noteID, tagID int64) (domain.TagAssignment, error) {
	a := domain.TagAssignment{NoteID: noteID, TagID: tagID}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO note_tags (note_id, tag_id)
		SELECT n.id, t.id FROM notes n, tags t
		WHERE n.id = $1 AND n.user_id = $3 AND t.id = $2 AND t.user_id = $3
		RETURNING id, created_at`, noteID, tagID, userID).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return domain.TagAssignment{}, notFound(mapErr(err))
	}
	return a, nil
}

func (s *Store) RemoveTag(ctx context.Context, userID, noteID, tagID int64) error {
	return affected(s.pool.Exec(ctx, `
		DELETE FROM note_tags nt
		USING notes n
		WHERE nt.note_id = n.id AND n.id = $1 AND n.user_id = $3 AND nt.tag_id = $2`,
		noteID, tagID, userID))
}
