// Package filesystem reads and writes notes as markdown files with a YAML
// frontmatter block.
package filesystem

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ViniZap4/lumi-notes/domain"
)

var ErrNoFrontmatter = errors.New("invalid frontmatter format")

type Frontmatter struct {
	ID        int64     `yaml:"id,omitempty"`
	Title     string    `yaml:"title"`
	Folder    string    `yaml:"folder,omitempty"`
	Tags      []string  `yaml:"tags,omitempty"`
	Favorite  bool      `yaml:"favorite,omitempty"`
	CreatedAt time.Time `yaml:"created_at,omitempty"`
	UpdatedAt time.Time `yaml:"updated_at,omitempty"`
}

// File is one note on disk.
type File struct {
	Path    string
	Meta    Frontmatter
	Content string
}

// FromNote builds the file form of n. Tag names come from n.Tags.
func FromNote(n domain.Note) File {
	meta := Frontmatter{
		ID:        n.ID,
		Title:     n.Title,
		Folder:    n.FolderName,
		Favorite:  n.IsFavorite,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
	for _, t := range n.Tags {
		meta.Tags = append(meta.Tags, t.Name)
	}
	sort.Strings(meta.Tags)
	return File{Meta: meta, Content: n.Content}
}

func Parse(data []byte) (Frontmatter, string, error) {
	data = bytes.TrimPrefix(data, []byte("\ufeff"))
	if !bytes.HasPrefix(data, []byte("---")) {
		return Frontmatter{}, "", ErrNoFrontmatter
	}
	parts := bytes.SplitN(data, []byte("\n---"), 2)
	if len(parts) < 2 {
		return Frontmatter{}, "", ErrNoFrontmatter
	}

	var meta Frontmatter
	if err := yaml.Unmarshal(bytes.TrimPrefix(parts[0], []byte("---")), &meta); err != nil {
		return Frontmatter{}, "", fmt.Errorf("failed to parse frontmatter: %w", err)
	}
	// the rest of the closing "---" line, then the blank line Encode adds
	body := string(parts[1])
	for range 2 {
		body = strings.TrimPrefix(body, "\r")
		body = strings.TrimPrefix(body, "\n")
	}
	return meta, strings.TrimRight(body, " \t\r\n"), nil
}

func ReadNote(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, err
	}
	meta, content, err := Parse(data)
	if err != nil {
		return File{}, fmt.Errorf("%s: %w", path, err)
	}
	if strings.TrimSpace(meta.Title) == "" {
		meta.Title = strings.TrimSuffix(filepath.Base(path), ".md")
	}
	return File{Path: path, Meta: meta, Content: content}, nil
}

func Encode(f File) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("---\n")

	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(f.Meta); err != nil {
		return nil, fmt.Errorf("failed to encode frontmatter: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode frontmatter: %w", err)
	}

	buf.WriteString("---\n\n")
	buf.WriteString(f.Content)
	if !strings.HasSuffix(f.Content, "\n") {
		buf.WriteString("\n")
	}
	return buf.Bytes(), nil
}

func WriteNote(f File) error {
	data, err := Encode(f)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(f.Path, data, 0o644)
}

// ListNotes reads every .md file under root, descending into folders.
// Files that fail to parse are returned in skipped rather than aborting.
func ListNotes(root string) (files []File, skipped []string, err error) {
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}
		f, rerr := ReadNote(path)
		if rerr != nil {
			skipped = append(skipped, path)
			return nil
		}
		files = append(files, f)
		return nil
	})
	return files, skipped, err
}
