package filestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"
)

// Collection persists a slice of records as one JSON array on disk. Every
// call reads the whole file, and mutations rewrite it through a temp file
// and a rename. The mutex serializes read-modify-write cycles within the
// process only.
type Collection[T any] struct {
	mu     sync.Mutex
	path   string
	idOf   func(*T) string
	setID  func(*T, string)
	nextID int
}

// OpenCollection binds a collection to path and derives the id sequence
// from the records already stored there.
func OpenCollection[T any](path string, idOf func(*T) string, setID func(*T, string)) (*Collection[T], error) {
	const op = "filestore.OpenCollection"

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	c := &Collection[T]{path: path, idOf: idOf, setID: setID}
	recs, err := c.load()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	c.nextID = nextSequence(recs, idOf)
	return c, nil
}

// nextSequence returns max(numeric ids)+1, or 1 for an empty collection.
func nextSequence[T any](recs []T, idOf func(*T) string) int {
	highest := 0
	for i := range recs {
		if n, err := strconv.Atoi(idOf(&recs[i])); err == nil && n > highest {
			highest = n
		}
	}
	return highest + 1
}

// All returns every stored record in file order.
func (c *Collection[T]) All() ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load()
}

// Find returns the record with the given id.
func (c *Collection[T]) Find(id string) (T, bool, error) {
	var zero T
	recs, err := c.All()
	if err != nil {
		return zero, false, err
	}
	if i := c.index(recs, id); i >= 0 {
		return recs[i], true, nil
	}
	return zero, false, nil
}

// Insert assigns the next sequential id to rec and appends it. check runs
// against the current records under the lock and aborts the insert when it
// fails. The sequence only advances after a successful write.
func (c *Collection[T]) Insert(rec *T, check func([]T) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	recs, err := c.load()
	if err != nil {
		return err
	}
	if check != nil {
		if err := check(recs); err != nil {
			return err
		}
	}

	c.setID(rec, strconv.Itoa(c.nextID))
	if err := c.store(append(recs, *rec)); err != nil {
		c.setID(rec, "")
		return err
	}
	c.nextID++
	return nil
}

// Replace overwrites the record with the same id. check sees every record
// and the index being replaced. It reports false when no record matched.
func (c *Collection[T]) Replace(rec T, check func(recs []T, at int) error) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	recs, err := c.load()
	if err != nil {
		return false, err
	}
	i := c.index(recs, c.idOf(&rec))
	if i < 0 {
		return false, nil
	}
	if check != nil {
		if err := check(recs, i); err != nil {
			return false, err
		}
	}
	recs[i] = rec
	return true, c.store(recs)
}

// Remove deletes the record with id and returns it.
func (c *Collection[T]) Remove(id string) (T, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	recs, err := c.load()
	if err != nil {
		return zero, false, err
	}
	i := c.index(recs, id)
	if i < 0 {
		return zero, false, nil
	}
	removed := recs[i]
	recs = append(recs[:i], recs[i+1:]...)
	return removed, true, c.store(recs)
}

func (c *Collection[T]) index(recs []T, id string) int {
	for i := range recs {
		if c.idOf(&recs[i]) == id {
			return i
		}
	}
	return -1
}

func (c *Collection[T]) load() ([]T, error) {
	data, err := os.ReadFile(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", c.path, err)
	}
	if len(data) == 0 {
		return []T{}, nil
	}

	var recs []T
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.path, err)
	}
	if recs == nil {
		recs = []T{}
	}
	return recs, nil
}

func (c *Collection[T]) store(recs []T) error {
	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.path, err)
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}
