package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"sort"
	"sync"
)

// MemoryStore keeps the catalog in process. It backs local development
// and tests.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]Product
}

func NewMemoryStore(products ...Product) *MemoryStore {
	s := &MemoryStore{items: make(map[string]Product, len(products))}
	for _, p := range products {
		s.items[p.ID] = p
	}
	return s
}

// LoadMemoryStore reads a JSON array of products from path.
func LoadMemoryStore(path string) (*MemoryStore, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	var products []Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, fmt.Errorf("parse seed %s: %w", path, err)
	}
	return NewMemoryStore(products...), nil
}

func (s *MemoryStore) Put(p Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[p.ID] = p
}

func (s *MemoryStore) match(c Criteria) []Product {
	out := make([]Product, 0, len(s.items))
	for _, p := range s.items {
		if c.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}

func (s *MemoryStore) Find(ctx context.Context, q Query) ([]Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	out := s.match(q.Criteria)
	s.mu.RUnlock()

	slices.SortStableFunc(out, q.Sort.Compare)

	start := max(q.Skip, 0)
	if start > int64(len(out)) {
		return []Product{}, nil
	}
	end := int64(len(out))
	if q.Limit > 0 && start+q.Limit < end {
		end = start + q.Limit
	}
	return out[start:end], nil
}

func (s *MemoryStore) Count(ctx context.Context, c Criteria) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.match(c))), nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (s *MemoryStore) Facets(ctx context.Context) (*Facets, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f := &Facets{Categories: []CategoryCount{}}
	counts := map[string]int64{}
	first := true
	for _, p := range s.items {
		counts[p.Category]++
		if first || p.Price < f.PriceRange.Min {
			f.PriceRange.Min = p.Price
		}
		if first || p.Price > f.PriceRange.Max {
			f.PriceRange.Max = p.Price
		}
		first = false
		if p.InStock() {
			f.Availability.InStock++
		} else {
			f.Availability.OutOfStock++
		}
	}
	for name, n := range counts {
		f.Categories = append(f.Categories, CategoryCount{Name: name, Count: n})
	}
	sort.Slice(f.Categories, func(i, j int) bool { return f.Categories[i].Name < f.Categories[j].Name })
	return f, nil
}
