// Package listview keeps the client's copy of a note, folder or tag
// collection. Every mutation is two-phase: the server call happens first and
// the local copy is patched only once it succeeded.
package listview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

var (
	// ErrUnsupported is returned for operations the entity kind lacks,
	// such as favoriting a tag.
	ErrUnsupported = errors.New("operation not supported for this list")
	ErrNotInList   = errors.New("item is not in the list")
)

type Entity interface {
	Key() int64
	SearchFields() []string
}

type favoritable[T any] interface {
	Favorite() bool
	WithFavorite(bool) T
}

// Source is the server side of a list.
type Source[T Entity] interface {
	List(ctx context.Context) ([]T, error)
	Delete(ctx context.Context, id int64) error
}

// FavoriteSource is implemented by sources whose entities carry a favorite flag.
type FavoriteSource[T Entity] interface {
	SetFavorite(ctx context.Context, item T, favorite bool) error
}

// RenameSource is implemented by sources that can rename an entity.
type RenameSource[T Entity] interface {
	Rename(ctx context.Context, item T, name string) (T, error)
}

type Controller[T Entity] struct {
	src Source[T]

	mu    sync.Mutex
	items []T
}

func New[T Entity](src Source[T]) *Controller[T] {
	return &Controller[T]{src: src}
}

// Load replaces the collection with the server's, in server order. On
// error the previous collection is kept.
func (c *Controller[T]) Load(ctx context.Context) error {
	items, err := c.src.List(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.items = append([]T(nil), items...)
	c.mu.Unlock()
	return nil
}

func (c *Controller[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]T(nil), c.items...)
}

func (c *Controller[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *Controller[T]) Get(id int64) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.index(id); i >= 0 {
		return c.items[i], true
	}
	var zero T
	return zero, false
}

// index must be called with mu held.
func (c *Controller[T]) index(id int64) int {
	for i, it := range c.items {
		if it.Key() == id {
			return i
		}
	}
	return -1
}

// Remove drops the element with id from the local copy. It reports whether
// one was found.
func (c *Controller[T]) Remove(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.index(id)
	if i < 0 {
		return false
	}
	c.items = append(c.items[:i:i], c.items[i+1:]...)
	return true
}

// Add appends an element the server just created.
func (c *Controller[T]) Add(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, item)
}

// Replace swaps in the server's latest version of an element.
func (c *Controller[T]) Replace(item T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.index(item.Key())
	if i < 0 {
		return false
	}
	c.items[i] = item
	return true
}

func (c *Controller[T]) Delete(ctx context.Context, id int64) error {
	if err := c.src.Delete(ctx, id); err != nil {
		return err
	}
	c.Remove(id)
	return nil
}

func (c *Controller[T]) ToggleFavorite(ctx context.Context, id int64) error {
	fs, ok := c.src.(FavoriteSource[T])
	if !ok {
		return ErrUnsupported
	}
	item, ok := c.Get(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrNotInList, id)
	}
	fav, ok := any(item).(favoritable[T])
	if !ok {
		return ErrUnsupported
	}
	next := !fav.Favorite()
	if err := fs.SetFavorite(ctx, item, next); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.index(id); i >= 0 {
		c.items[i] = any(c.items[i]).(favoritable[T]).WithFavorite(next)
	}
	return nil
}

func (c *Controller[T]) Rename(ctx context.Context, id int64, name string) error {
	rs, ok := c.src.(RenameSource[T])
	if !ok {
		return ErrUnsupported
	}
	item, ok := c.Get(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrNotInList, id)
	}
	updated, err := rs.Rename(ctx, item, name)
	if err != nil {
		return err
	}
	c.Replace(updated)
	return nil
}

// Search filters the local copy by a case-insensitive substring of any
// search field. An empty term matches everything.
func (c *Controller[T]) Search(term string) []T {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return c.Items()
	}
	return c.Filter(func(it T) bool {
		for _, f := range it.SearchFields() {
			if strings.Contains(strings.ToLower(f), term) {
				return true
			}
		}
		return false
	})
}

func (c *Controller[T]) Filter(keep func(T) bool) []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := []T{}
	for _, it := range c.items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}
