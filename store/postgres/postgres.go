// Package postgres implements store.Store on PostgreSQL through a pgx pool.
package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ViniZap4/lumi-notes/domain"
	"github.com/ViniZap4/lumi-notes/store"
)

//go:embed migrations/*.sql
var migrations embed.FS

type Store struct {
	pool *pgxpool.Pool
}

var _ store.Store = (*Store)(nil)

// Open connects to databaseURL (postgres:// or postgresql://), runs the
// embedded migrations and returns a ready store.
func Open(ctx context.Context, databaseURL string) (*Store, error) {
	if err := Migrate(databaseURL); err != nil {
		return nil, err
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Migrate applies pending migrations to databaseURL.
func Migrate(databaseURL string) error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, migrateURL(databaseURL))
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// migrateURL swaps the scheme for the one the pgx/v5 migrate driver registers.
func migrateURL(databaseURL string) string {
	for _, scheme := range []string{"postgresql://", "postgres://"} {
		if strings.HasPrefix(databaseURL, scheme) {
			return "pgx5://" + strings.TrimPrefix(databaseURL, scheme)
		}
	}
	return databaseURL
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func mapErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return fmt.Errorf("%w: %s", store.ErrConflict, pgErr.ConstraintName)
		case pgerrcode.ForeignKeyViolation:
			return fmt.Errorf("%w: %s", store.ErrInvalidReference, pgErr.ConstraintName)
		}
	}
	return err
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

func affected(tag pgconn.CommandTag, err error) error {
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// --- users

func (s *Store) CreateUser(ctx context.Context, req domain.RegisterRequest, passwordHash string) (domain.User, error) {
	var u domain.User
	err := s.pool.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash, full_name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, username, email, full_name, created_at`,
		req.Username, req.Email, passwordHash, req.FullName).
		Scan(&u.ID, &u.Username, &u.Email, &u.FullName, &u.CreatedAt)
	if err != nil {
		return domain.User{}, mapErr(err)
	}
	return u, nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (domain.User, string, error) {
	var u domain.User
	var hash string
	err := s.pool.QueryRow(ctx,
		`SELECT id, username, email, full_name, created_at, password_hash FROM users WHERE email = $1`, email).
		Scan(&u.ID, &u.Username, &u.Email, &u.FullName, &u.CreatedAt, &hash)
	if err != nil {
		return domain.User{}, "", notFound(err)
	}
	return u, hash, nil
}

func (s *Store) UserByID(ctx context.Context, id int64) (domain.User, error) {
	var u domain.User
	err := s.pool.QueryRow(ctx,
		`SELECT id, username, email, full_name, created_at FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Username, &u.Email, &u.FullName, &u.CreatedAt)
	if err != nil {
		return domain.User{}, notFound(err)
	}
	return u, nil
}

// --- folders

const selectFolders = `
	SELECT f.id, f.user_id, f.name, f.description, f.is_favorite,
	       (SELECT COUNT(*) FROM notes n WHERE n.folder_id = f.id),
	       f.created_at, f.updated_at
	FROM folders f`

func scanFolder(row pgx.Row) (domain.Folder, error) {
	var f domain.Folder
	err := row.Scan(&f.ID, &f.UserID, &f.Name, &f.Description, &f.IsFavorite, &f.NoteCount, &f.CreatedAt, &f.UpdatedAt)
	return f, err
}

func (s *Store) ListFolders(ctx context.Context, userID int64) ([]domain.Folder, error) {
	rows, err := s.pool.Query(ctx, selectFolders+` WHERE f.user_id = $1 ORDER BY f.created_at DESC, f.id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query folders: %w", err)
	}
	folders, err := pgx.CollectRows(rows, func(r pgx.CollectableRow) (domain.Folder, error) { return scanFolder(r) })
	if err != nil {
		return nil, fmt.Errorf("scan folders: %w", err)
	}
	return folders, nil
}

func (s *Store) GetFolder(ctx context.Context, userID, id int64) (domain.Folder, error) {
	f, err := scanFolder(s.pool.QueryRow(ctx, selectFolders+` WHERE f.id = $1 AND f.user_id = $2`, id, userID))
	if err != nil {
		return domain.Folder{}, notFound(err)
	}
	return f, nil
}

func (s *Store) CreateFolder(ctx context.Context, userID int64, name, description string) (domain.Folder, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO folders (user_id, name, description) VALUES ($1, $2, $3) RETURNING id`,
		userID, name, description).Scan(&id)
	if err != nil {
		return domain.Folder{}, mapErr(err)
	}
	return s.GetFolder(ctx, userID, id)
}

func (s *Store) UpdateFolder(ctx context.Context, userID, id int64, patch domain.FolderPatch) (domain.Folder, error) {
	err := affected(s.pool.Exec(ctx, `
		UPDATE folders SET
			name = COALESCE($3, name),
			description = COALESCE($4, description),
			is_favorite = COALESCE($5, is_favorite),
			updated_at = now()
		WHERE id = $1 AND user_id = $2`,
		id, userID, patch.Name, patch.Description, patch.IsFavorite))
	if err != nil {
		return domain.Folder{}, err
	}
	return s.GetFolder(ctx, userID, id)
}

func (s *Store) DeleteFolder(ctx context.Context, userID, id int64) error {
	return affected(s.pool.Exec(ctx, `DELETE FROM folders WHERE id = $1 AND user_id = $2`, id, userID))
}

// --- tags

const selectTags = `
	SELECT t.id, t.user_id, t.name,
	       (SELECT COUNT(*) FROM note_tags nt WHERE nt.tag_id = t.id),
	       t.created_at
	FROM tags t`

func scanTag(row pgx.Row) (domain.Tag, error) {
	var t domain.Tag
	err := row.Scan(&t.ID, &t.UserID, &t.Name, &t.NoteCount, &t.CreatedAt)
	return t, err
}

func (s *Store) ListTags(ctx context.Context, userID int64) ([]domain.Tag, error) {
	rows, err := s.pool.Query(ctx, selectTags+` WHERE t.user_id = $1 ORDER BY t.name ASC, t.id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}
	tags, err := pgx.CollectRows(rows, func(r pgx.CollectableRow) (domain.Tag, error) { return scanTag(r) })
	if err != nil {
		return nil, fmt.Errorf("scan tags: %w", err)
	}
	return tags, nil
}

func (s *Store) GetTag(ctx context.Context, userID, id int64) (domain.Tag, error) {
	t, err := scanTag(s.pool.QueryRow(ctx, selectTags+` WHERE t.id = $1 AND t.user_id = $2`, id, userID))
	if err != nil {
		return domain.Tag{}, notFound(err)
	}
	return t, nil
}

func (s *Store) CreateTag(ctx context.Context, userID int64, name string) (domain.Tag, error) {
	var id int64
	err := s.pool.QueryRow(ctx, `INSERT INTO tags (user_id, name) VALUES ($1, $2) RETURNING id`, userID, name).Scan(&id)
	if err != nil {
		return domain.Tag{}, mapErr(err)
	}
	return s.GetTag(ctx, userID, id)
}

func (s *Store) RenameTag(ctx context.Context, userID, id int64, name string) (domain.Tag, error) {
	err := affected(s.pool.Exec(ctx, `UPDATE tags SET name = $3 WHERE id = $1 AND user_id = $2`, id, userID, name))
	if err != nil {
		return domain.Tag{}, err
	}
	return s.GetTag(ctx, userID, id)
}

func (s *Store) DeleteTag(ctx context.Context, userID, id int64) error {
	return affected(s.pool.Exec(ctx, `DELETE FROM tags WHERE id = $1 AND user_id = $2`, id, userID))
}
