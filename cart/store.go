// Package cart holds the single shared cart of the point of sale.
package cart

import (
	"errors"
	"sync"

	"smartwiz/models"
)

var (
	ErrDuplicateItem = errors.New("product already exists in the cart")
	ErrNotFound      = errors.New("product not found")
	ErrInvalidItem   = errors.New("product name is required")
)

// Notifier receives the full cart after every change
type Notifier interface {
	Notify(snapshot []models.LineItem)
}

// Store is the process-wide cart. Items are kept in insertion order and
// names are unique. A mutation and its notification happen under one lock,
// so notifications go out in mutation order and never show partial state.
type Store struct {
	mu       sync.Mutex
	items    []models.LineItem
	notifier Notifier
}

// NewStore creates an empty cart that reports changes to notifier.
// A nil notifier disables notifications.
func NewStore(notifier Notifier) *Store {
	return &Store{notifier: notifier}
}

// Add appends a new item and returns the updated cart
func (s *Store) Add(name string, price, weight float64) ([]models.LineItem, error) {
	if name == "" {
		return nil, ErrInvalidItem
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(name) != -1 {
		return nil, ErrDuplicateItem
	}
	s.items = append(s.items, models.LineItem{Name: name, Price: price, Weight: weight})
	return s.changed(), nil
}

// Remove deletes the item with the given name and returns the updated cart
func (s *Store) Remove(name string) ([]models.LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(name)
	if i == -1 {
		return nil, ErrNotFound
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return s.changed(), nil
}

// List returns a copy of the cart
func (s *Store) List() []models.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// View calls fn with a copy of the cart while mutations are held off.
// Live feeds use it to subscribe and read the first snapshot without
// missing a change in between. fn must not call back into the Store.
func (s *Store) View(fn func(items []models.LineItem)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.snapshot())
}

func (s *Store) indexOf(name string) int {
	for i, it := range s.items {
		if it.Name == name {
			return i
		}
	}
	return -1
}

// changed must be called with s.mu held
func (s *Store) changed() []models.LineItem {
	snap := s.snapshot()
	if s.notifier != nil {
		s.notifier.Notify(s.snapshot())
	}
	return snap
}

func (s *Store) snapshot() []models.LineItem {
	out := make([]models.LineItem, len(s.items))
	copy(out, s.items)
	return out
}
