package storage

import (
	"errors"
	"sync"

	"github.com/example/nemt-pricing/internal/models"
)

var ErrNotFound = errors.New("quote not found")

// QuoteStore defines persistence operations for priced quotes.
type QuoteStore interface {
	SaveQuote(q *models.Quote) error
	GetQuote(id string) (*models.Quote, error)
	UpdateQuote(q *models.Quote) error
}

type MemoryStore struct {
	mu     sync.RWMutex
	quotes map[string]*models.Quote
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{quotes: make(map[string]*models.Quote)}
}

func (m *MemoryStore) SaveQuote(q *models.Quote) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quotes[q.ID] = q
	return nil
}

func (m *MemoryStore) GetQuote(id string) (*models.Quote, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q, ok := m.quotes[id]
	if !ok {
		return nil, ErrNotFound
	}
	return q, nil
}

func (m *MemoryStore) UpdateQuote(q *models.Quote) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.quotes[q.ID]; !ok {
		return ErrNotFound
	}
	m.quotes[q.ID] = q
	return nil
}
