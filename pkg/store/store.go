/*
Package store persists saved décimas.

All compositions live in one msgpack encoded list under a single namespaced
key of a KV backend, newest first:

	kv := store.NewFileKV(dir)
	s := store.New(kv, "saved_decimas")
	c, err := s.Create("", verses, "")

Backends are MemoryKV for tests and scratch sessions, FileKV (one file per
key) and SQLiteKV (a key/value table in a pure Go SQLite database).
*/
package store

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	// DefaultNamespace is the key holding every saved composition.
	DefaultNamespace   = "saved_decimas"
	DefaultTitle       = "Décima sin título"
	DefaultDescription = "Décima sin descripción"
)

var (
	// ErrNotFound is returned when no composition has the requested id.
	ErrNotFound = errors.New("composition not found")

	// ErrEmptyComposition is returned when every verse is blank.
	ErrEmptyComposition = errors.New("composition has no verses")
)

// Composition is one saved poem. Verses keep their slot positions, blank
// slots included.
type Composition struct {
	ID          string    `msgpack:"id"`
	Title       string    `msgpack:"title"`
	Verses      []string  `msgpack:"verses"`
	Description string    `msgpack:"description"`
	CreatedAt   time.Time `msgpack:"created_at"`
	UpdatedAt   time.Time `msgpack:"updated_at"`
}

// Store is the composition store used by the server and the cli.
type Store interface {
	List() ([]Composition, error)
	Get(id string) (Composition, error)
	Create(title string, verses []string, description string) (Composition, error)
	Update(id, title string, verses []string, description string) (Composition, error)
	Delete(id string) error
	Clear() error
}

// KVStore implements Store on top of a KV backend.
type KVStore struct {
	kv        KV
	namespace string
	now       func() time.Time
	mu        sync.Mutex
}

var _ Store = (*KVStore)(nil)

// New returns a store keeping its records under namespace in kv.
// An empty namespace uses DefaultNamespace.
func New(kv KV, namespace string) *KVStore {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &KVStore{kv: kv, namespace: namespace, now: time.Now}
}

// List returns every composition, newest first.
func (s *KVStore) List() ([]Composition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Get returns the composition with id.
func (s *KVStore) Get(id string) (Composition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load()
	if err != nil {
		return Composition{}, err
	}
	if i := indexOf(all, id); i >= 0 {
		return all[i], nil
	}
	return Composition{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Create saves a new composition in front of the list. Empty title and
// description get the defaults.
func (s *KVStore) Create(title string, verses []string, description string) (Composition, error) {
	if isBlank(verses) {
		return Composition{}, ErrEmptyComposition
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load()
	if err != nil {
		return Composition{}, err
	}

	now := s.now().UTC()
	c := Composition{
		ID:          uuid.NewString(),
		Title:       orDefault(title, DefaultTitle),
		Verses:      copyVerses(verses),
		Description: orDefault(description, DefaultDescription),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	all = append([]Composition{c}, all...)
	if err := s.save(all); err != nil {
		return Composition{}, err
	}
	return c, nil
}

// Update replaces the verses of id in place. An empty title or description
// keeps the stored one.
func (s *KVStore) Update(id, title string, verses []string, description string) (Composition, error) {
	if isBlank(verses) {
		return Composition{}, ErrEmptyComposition
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load()
	if err != nil {
		return Composition{}, err
	}
	i := indexOf(all, id)
	if i < 0 {
		return Composition{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	c := all[i]
	c.Title = orDefault(title, c.Title)
	c.Description = orDefault(description, c.Description)
	c.Verses = copyVerses(verses)
	c.UpdatedAt = s.now().UTC()
	all[i] = c

	if err := s.save(all); err != nil {
		return Composition{}, err
	}
	return c, nil
}

// Delete removes id.
func (s *KVStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load()
	if err != nil {
		return err
	}
	i := indexOf(all, id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s.save(append(all[:i], all[i+1:]...))
}

// Clear drops every saved composition.
func (s *KVStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Delete(s.namespace); err != nil {
		return fmt.Errorf("clear %s: %w", s.namespace, err)
	}
	return nil
}

func (s *KVStore) load() ([]Composition, error) {
	data, ok, err := s.kv.Get(s.namespace)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.namespace, err)
	}
	if !ok || len(data) == 0 {
		return []Composition{}, nil
	}
	var all []Composition
	if err := msgpack.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.namespace, err)
	}
	if all == nil {
		all = []Composition{}
	}
	for i := range all {
		all[i].CreatedAt = all[i].CreatedAt.UTC()
		all[i].UpdatedAt = all[i].UpdatedAt.UTC()
	}
	return all, nil
}

func (s *KVStore) save(all []Composition) error {
	data, err := msgpack.Marshal(all)
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.namespace, err)
	}
	if err := s.kv.Set(s.namespace, data); err != nil {
		return fmt.Errorf("write %s: %w", s.namespace, err)
	}
	return nil
}

func indexOf(all []Composition, id string) int {
	for i, c := range all {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func isBlank(verses []string) bool {
	for _, v := range verses {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func copyVerses(verses []string) []string {
	out := make([]string, len(verses))
	copy(out, verses)
	return out
}
