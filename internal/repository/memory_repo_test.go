package repository

import (
	"context"
	"testing"

	"apexhire/internal/model"
)

func TestMemoryRepoAddSynthesizesIDAndTimestamp(t *testing.T) {
	repo := NewMemoryCandidateRepo()
	ctx := context.Background()

	partial := model.CandidateRecord{
		Details:      model.CandidateDetails{Name: model.StringPtr("Jane Doe")},
		TotalScore:   model.IntPtr(39),
		FinalSummary: model.StringPtr("Strong candidate."),
	}

	record, err := repo.Add(ctx, partial)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if record.ID == "" {
		t.Error("expected a generated ID")
	}
	if record.CompletedAt.IsZero() {
		t.Error("expected a completion timestamp")
	}

	got, err := repo.GetByID(ctx, record.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil || got.ID != record.ID {
		t.Fatalf("GetByID = %+v, want record %s", got, record.ID)
	}
}

func TestMemoryRepoNoDeduplication(t *testing.T) {
	repo := NewMemoryCandidateRepo()
	ctx := context.Background()

	partial := model.CandidateRecord{
		Details: model.CandidateDetails{Email: model.StringPtr("jane@example.com")},
	}

	first, _ := repo.Add(ctx, partial)
	second, _ := repo.Add(ctx, partial)
	if first.ID == second.ID {
		t.Error("repeated submissions must create independent records")
	}

	records, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
}

func TestMemoryRepoGetByIDMissing(t *testing.T) {
	repo := NewMemoryCandidateRepo()

	got, err := repo.GetByID(context.Background(), "nope")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got != nil {
		t.Fatalf("GetByID = %+v, want nil", got)
	}
}

func TestMemoryRepoListIsolation(t *testing.T) {
	repo := NewMemoryCandidateRepo()
	ctx := context.Background()
	repo.Add(ctx, model.CandidateRecord{})

	records, _ := repo.List(ctx)
	records[0].FinalSummary = model.StringPtr("mutated")
	records = append(records, model.CandidateRecord{ID: "extra"})

	fresh, _ := repo.List(ctx)
	if len(fresh) != 1 || fresh[0].FinalSummary != nil {
		t.Error("mutating a returned list must not affect the archive")
	}
}

func TestMemoryRepoSeed(t *testing.T) {
	repo := NewMemoryCandidateRepo()
	seeder, ok := repo.(Seeder)
	if !ok {
		t.Fatal("memory repo should support seeding")
	}

	seeder.Seed([]model.CandidateRecord{{ID: "a"}, {ID: "b"}})
	records, _ := repo.List(context.Background())
	if len(records) != 2 || records[0].ID != "a" {
		t.Fatalf("seeded records = %+v", records)
	}
}
