package api

import (
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"plantapi/internal/fixtures"
	"plantapi/internal/openapi"
)

// Transform is one generated document kept for later retrieval.
type Transform struct {
	ID         string            `json:"id"`
	CreatedAt  time.Time         `json:"createdAt"`
	Components int               `json:"components"`
	Paths      int               `json:"paths"`
	Source     string            `json:"-"`
	Document   *openapi.Document `json:"-"`
}

// Storage holds the fixture catalog and a bounded, newest-last history of
// transforms.
type Storage struct {
	mu       sync.RWMutex
	Fixtures *fixtures.Catalog
	history  map[string]*Transform
	order    []string // oldest first
	limit    int
	entropy  io.Reader
}

func NewStorage(catalog *fixtures.Catalog, historyLimit int) *Storage {
	if historyLimit <= 0 {
		historyLimit = 1
	}
	src := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Storage{
		Fixtures: catalog,
		history:  make(map[string]*Transform),
		limit:    historyLimit,
		entropy:  ulid.Monotonic(src, 0),
	}
}

// newID must be called with mu held; the monotonic reader is not safe for
// concurrent use.
func (s *Storage) newID(now time.Time) string {
	return ulid.MustNew(ulid.Timestamp(now), s.entropy).String()
}

// SaveTransform records doc and evicts the oldest entries beyond the limit.
func (s *Storage) SaveTransform(source string, doc *openapi.Document) *Transform {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	t := &Transform{
		ID:         s.newID(now),
		CreatedAt:  now,
		Components: len(doc.Components.Schemas),
		Paths:      len(doc.Paths),
		Source:     source,
		Document:   doc,
	}
	s.history[t.ID] = t
	s.order = append(s.order, t.ID)
	for len(s.order) > s.limit {
		delete(s.history, s.order[0])
		s.order = s.order[1:]
	}
	historySize.Set(float64(len(s.order)))
	return t
}

func (s *Storage) Transform(id string) (*Transform, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.history[id]
	return t, ok
}

// Transforms lists the history newest first.
func (s *Storage) Transforms(p ListParams) (items []*Transform, total int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total = len(s.order)
	items = make([]*Transform, 0, p.Limit)
	for i := total - 1 - p.Offset; i >= 0 && len(items) < p.Limit; i-- {
		items = append(items, s.history[s.order[i]])
	}
	return items, total
}
