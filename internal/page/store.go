package page

import (
	"sync"

	"github.com/UtsavYadav1/CareerBERT/internal/view"
)

// Store is a Presenter that keeps the latest view for readers on other goroutines.
type Store struct {
	mu       sync.RWMutex
	page     view.ResultsPage
	badges   map[string]int
	presents int
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{badges: make(map[string]int)}
}

// Present implements Presenter.
func (s *Store) Present(page view.ResultsPage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page = page
	s.presents++
	for _, b := range page.Badges {
		s.badges[b.ID] = b.Value
	}
}

// Badge implements Presenter.
func (s *Store) Badge(id string, value int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.badges[id] = value
}

// Page returns the latest view.
func (s *Store) Page() view.ResultsPage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.page
}

// BadgeValue returns the value a badge currently shows.
func (s *Store) BadgeValue(id string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.badges[id]
	return v, ok
}

// Presents counts Present calls.
func (s *Store) Presents() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.presents
}
