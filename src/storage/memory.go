package storage

import (
	"context"
	"sync"

	"stock-screener/src/models"
)

// MemoryRepository keeps the last snapshot in process memory only.
type MemoryRepository struct {
	mu     sync.RWMutex
	quotes []models.MQuote
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (m *MemoryRepository) Initialize(context.Context) error { return nil }

func (m *MemoryRepository) ReplaceAll(_ context.Context, quotes []models.MQuote) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quotes = append([]models.MQuote(nil), quotes...)
	return nil
}

func (m *MemoryRepository) LoadAll(context.Context) ([]models.MQuote, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.MQuote(nil), m.quotes...), nil
}

func (m *MemoryRepository) Close() error { return nil }
