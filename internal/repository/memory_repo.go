package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"apexhire/internal/model"
)

type memoryCandidateRepo struct {
	mu      sync.RWMutex
	records []model.CandidateRecord
}

// NewMemoryCandidateRepo creates the in-memory archive used when no Mongo
// URI is configured.
func NewMemoryCandidateRepo() CandidateRepo {
	return &memoryCandidateRepo{records: []model.CandidateRecord{}}
}

func (r *memoryCandidateRepo) Add(ctx context.Context, partial model.CandidateRecord) (*model.CandidateRecord, error) {
	record := partial
	record.ID = uuid.NewString()
	record.CompletedAt = time.Now().UTC()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
	return &record, nil
}

func (r *memoryCandidateRepo) List(ctx context.Context) ([]model.CandidateRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]model.CandidateRecord(nil), r.records...), nil
}

func (r *memoryCandidateRepo) GetByID(ctx context.Context, id string) (*model.CandidateRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, record := range r.records {
		if record.ID == id {
			rec := record
			return &rec, nil
		}
	}
	return nil, nil
}

// Seed replaces the archive contents with previously persisted records,
// used during rehydration on boot.
func (r *memoryCandidateRepo) Seed(records []model.CandidateRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append([]model.CandidateRecord{}, records...)
}

// Seeder is implemented by archives that can be rehydrated from a
// persisted snapshot.
type Seeder interface {
	Seed(records []model.CandidateRecord)
}
