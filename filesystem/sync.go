package filesystem

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ViniZap4/lumi-notes/client"
	"github.com/ViniZap4/lumi-notes/domain"
)

type API interface {
	ListNotes(ctx context.Context, f client.NoteFilter) ([]domain.Note, error)
	ListFolders(ctx context.Context) ([]domain.Folder, error)
	ListTags(ctx context.Context) ([]domain.Tag, error)
	CreateFolder(ctx context.Context, in client.FolderInput) (domain.Folder, error)
	CreateTag(ctx context.Context, name string) (domain.Tag, error)
	CreateNote(ctx context.Context, in domain.NoteInput) (domain.Note, error)
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slug turns a title into a file name stem.
func Slug(title string) string {
	s := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if s == "" {
		return "note"
	}
	if len(s) > 60 {
		s = strings.TrimRight(s[:60], "-")
	}
	return s
}

// NotePath is where note n lands under dir: a subdirectory per folder and a
// file named after the title and id.
func NotePath(dir string, n domain.Note) string {
	name := fmt.Sprintf("%s-%d.md", Slug(n.Title), n.ID)
	if n.FolderName != "" {
		return filepath.Join(dir, Slug(n.FolderName), name)
	}
	return filepath.Join(dir, name)
}

// Export writes every note of the user to dir and returns the paths written.
func Export(ctx context.Context, api API, dir string) ([]string, error) {
	notes, err := api.ListNotes(ctx, client.NoteFilter{})
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(notes))
	for _, n := range notes {
		f := FromNote(n)
		f.Path = NotePath(dir, n)
		if err := WriteNote(f); err != nil {
			return paths, fmt.Errorf("export note %d: %w", n.ID, err)
		}
		paths = append(paths, f.Path)
	}
	return paths, nil
}

type ImportResult struct {
	Created        []domain.Note
	Skipped        []string
	FoldersCreated int
	TagsCreated    int
}

// Import creates one note per markdown file under dir. Folders and tags are
// matched by name, case-insensitively, and created when missing. Ids in the
// frontmatter are ignored; the server assigns new ones.
func Import(ctx context.Context, api API, dir string) (ImportResult, error) {
	var res ImportResult

	files, skipped, err := ListNotes(dir)
	if err != nil {
		return res, err
	}
	res.Skipped = skipped

	folders, err := api.ListFolders(ctx)
	if err != nil {
		return res, err
	}
	tags, err := api.ListTags(ctx)
	if err != nil {
		return res, err
	}
	folderIDs := make(map[string]int64, len(folders))
	for _, f := range folders {
		folderIDs[strings.ToLower(f.Name)] = f.ID
	}
	tagIDs := make(map[string]int64, len(tags))
	for _, t := range tags {
		tagIDs[strings.ToLower(t.Name)] = t.ID
	}

	for _, f := range files {
		in := domain.NoteInput{
			Title:      f.Meta.Title,
			Content:    f.Content,
			IsFavorite: f.Meta.Favorite,
			TagIDs:     []int64{},
		}

		if name := strings.TrimSpace(f.Meta.Folder); name != "" {
			id, ok := folderIDs[strings.ToLower(name)]
			if !ok {
				folder, err := api.CreateFolder(ctx, client.FolderInput{Name: name})
				if err != nil {
					return res, fmt.Errorf("create folder %q: %w", name, err)
				}
				id = folder.ID
				folderIDs[strings.ToLower(name)] = id
				res.FoldersCreated++
			}
			in.FolderID = &id
		}

		for _, name := range f.Meta.Tags {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			id, ok := tagIDs[strings.ToLower(name)]
			if !ok {
				tag, err := api.CreateTag(ctx, name)
				if err != nil {
					return res, fmt.Errorf("create tag %q: %w", name, err)
				}
				id = tag.ID
				tagIDs[strings.ToLower(name)] = id
				res.TagsCreated++
			}
			in.TagIDs = append(in.TagIDs, id)
		}

		note, err := api.CreateNote(ctx, in)
		if err != nil {
			return res, fmt.Errorf("import %s: %w", f.Path, err)
		}
		res.Created = append(res.Created, note)
	}
	return res, nil
}
