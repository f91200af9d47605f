package natalrepo

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/astrotune/backend/internal/domain/natal"
)

// MemoryRepository keeps birth records in process memory for tests and
// development without a database.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]natal.BirthRecord
}

// NewMemoryRepository constructs an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{records: make(map[uuid.UUID]natal.BirthRecord)}
}

// Insert implements natal.Repository.
func (r *MemoryRepository) Insert(_ context.Context, record natal.BirthRecord) (natal.BirthRecord, error) {
	r.mu.Lock()
	r.records[record.ID] = record
	r.mu.Unlock()
	return record, nil
}

// FindByID implements natal.Repository.
func (r *MemoryRepository) FindByID(_ context.Context, id uuid.UUID) (natal.BirthRecord, bool, error) {
	r.mu.RLock()
	record, ok := r.records[id]
	r.mu.RUnlock()
	return record, ok, nil
}

var _ natal.Repository = (*MemoryRepository)(nil)
