package favorites

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sync"

	"github.com/ErikKalkoken/go-set"

	"github.com/five82/rickview/internal/catalog"
)

// Map holds the liked flag per entity id for one category. An absent id is
// not favorited. Serialized as a JSON object with decimal string keys.
type Map map[int]bool

// Clone returns an independent copy. The result is never nil.
func (m Map) Clone() Map {
	out := make(Map, len(m))
	maps.Copy(out, m)
	return out
}

// Store persists one Map per category in a Backend.
//
// Toggle is a read-modify-write of the whole map. The mutex serializes it
// within the process; separate processes sharing a Backend are not
// coordinated and the last writer wins.
type Store struct {
	mu      sync.Mutex
	backend Backend
}

// New returns a Store writing to backend.
func New(backend Backend) *Store {
	if backend == nil {
		backend = &MemoryBackend{}
	}
	return &Store{backend: backend}
}

// StorageKey returns the backend key for a category.
func StorageKey(category catalog.Category) string {
	switch category {
	case catalog.CategoryCharacter:
		return "likes"
	case catalog.CategoryLocation:
		return "locationLikes"
	case catalog.CategoryEpisode:
		return "episodeLikes"
	default:
		return string(category) + "Likes"
	}
}

// Load returns the persisted map for category. Missing, unreadable or
// malformed data yields an empty map; the problem is logged, never returned.
func (s *Store) Load(category catalog.Category) Map {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(category)
}

// Toggle flips the flag for id and rewrites the whole map. A missing entry
// counts as false, so the first toggle favorites the entity. The updated map
// is returned even when persisting fails.
func (s *Store) Toggle(category catalog.Category, id int) (Map, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.load(category)
	m[id] = !m[id]
	if err := s.save(category, m); err != nil {
		return m.Clone(), err
	}
	return m.Clone(), nil
}

func (s *Store) load(category catalog.Category) Map {
	key := StorageKey(category)
	data, err := s.backend.Read(key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			slog.Warn("Failed to read favorites, starting empty", "key", key, "error", err)
		}
		return Map{}
	}
	var m Map
	if err := json.Unmarshal(data, &m); err != nil {
		slog.Warn("Favorites storage corrupt, starting empty", "key", key, "error", err)
		return Map{}
	}
	if m == nil {
		return Map{}
	}
	return m
}

func (s *Store) save(category catalog.Category, m Map) error {
	key := StorageKey(category)
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal favorites: %w", err)
	}
	if err := s.backend.Write(key, data); err != nil {
		slog.Warn("Failed to persist favorites", "key", key, "error", err)
		return fmt.Errorf("persist %s: %w", key, err)
	}
	slog.Debug("Persisted favorites", "key", key, "entries", len(m))
	return nil
}

// Reconcile merges freshly fetched ids into m. Every fetched id gets an
// explicit entry holding its previous value or false; entries for ids that
// are not on the page are kept. m is not modified.
func Reconcile(m Map, fetchedIDs []int) Map {
	out := m.Clone()
	for _, id := range fetchedIDs {
		out[id] = m[id]
	}
	return out
}

// CollectFavoriteIDs returns the ids flagged true.
func CollectFavoriteIDs(m Map) set.Set[int] {
	var ids set.Set[int]
	for id, liked := range m {
		if liked {
			ids.Add(id)
		}
	}
	return ids
}
