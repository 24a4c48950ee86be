// Package memory provides an in-process product Store.
package memory

import (
	"context"
	"sync"

	"github.com/smartinventory/inventory-tracker/models"
)

type Store struct {
	mu sync.RWMutex
	m  map[string]models.Product
}

var _ models.Store = (*Store)(nil)

func New() *Store {
	return &Store{m: make(map[string]models.Product)}
}

func (s *Store) Put(_ context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[p.ID] = clone(*p)
	return nil
}

func (s *Store) Scan(_ context.Context) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Product, 0, len(s.m))
	for _, p := range s.m {
		out = append(out, clone(p))
	}
	return out, nil
}

func (s *Store) Get(_ context.Context, id string) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.m[id]
	if !ok {
		return nil, models.ErrProductNotFound
	}
	p = clone(p)
	return &p, nil
}

func (s *Store) UpdateFields(_ context.Context, id string, u models.ProductUpdate) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.m[id]
	if !ok {
		// new entry
		p = models.Product{ID: id}
	}
	u.Apply(&p)
	s.m[id] = p
	p = clone(p)
	return &p, nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, id)
	return nil
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}

func clone(p models.Product) models.Product {
	if p.Quantity != nil {
		q := *p.Quantity
		p.Quantity = &q
	}
	return p
}
