package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ViniZap4/lumi-notes/domain"
)

var (
	ErrNoSession = errors.New("no saved session")
	ErrCorrupt   = errors.New("saved session is corrupted")
)

// Persisted is what survives between runs.
type Persisted struct {
	Token   string      `yaml:"token"`
	User    domain.User `yaml:"user"`
	SavedAt time.Time   `yaml:"saved_at"`
}

// Store holds the persisted session. Only Manager touches it.
type Store interface {
	Load() (Persisted, error)
	Save(Persisted) error
	Clear() error
}

// FileStore keeps the session in a YAML file readable only by its owner.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Path() string { return f.path }

func (f *FileStore) Load() (Persisted, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Persisted{}, ErrNoSession
	}
	if err != nil {
		return Persisted{}, fmt.Errorf("read session: %w", err)
	}
	var p Persisted
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Persisted{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if strings.TrimSpace(p.Token) == "" {
		return Persisted{}, fmt.Errorf("%w: empty token", ErrCorrupt)
	}
	return p, nil
}

func (f *FileStore) Save(p Persisted) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	return writeFileAtomic(f.path, data, 0o600)
}

func (f *FileStore) Clear() error {
	err := os.Remove(f.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

func writeFileAtomic(path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	tmp := filepath.Join(dir, fmt.Sprintf(".tmp.%s.%d", filepath.Base(path), os.Getpid()))

	fh, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := fh.Write(data); err != nil {
		fh.Close()
		os.Remove(tmp)
		return err
	}
	if err := fh.Sync(); err != nil {
		fh.Close()
		os.Remove(tmp)
		return err
	}
	if err := fh.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
