package seed

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/assignment-service/internal/domain"
	"github.com/spec-kit/assignment-service/internal/repository"
)

func TestAgentsSeedsFixtures(t *testing.T) {
	store := repository.NewMemoryStore()
	if err := Agents(context.Background(), store, zap.NewNop()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	agents, err := store.Agents().List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(agents) != 3 {
		t.Fatalf("seeded %d agents, want 3", len(agents))
	}

	available, err := store.Agents().ListByAvailability(context.Background(), domain.AgentAvailable)
	if err != nil {
		t.Fatalf("list available: %v", err)
	}
	if len(available) != 2 {
		t.Fatalf("available=%d want 2", len(available))
	}
}

func TestAgentsIsIdempotent(t *testing.T) {
	store := repository.NewMemoryStore()
	for i := 0; i < 2; i++ {
		if err := Agents(context.Background(), store, zap.NewNop()); err != nil {
			t.Fatalf("seed run %d: %v", i, err)
		}
	}
	agents, err := store.Agents().List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(agents) != 3 {
		t.Fatalf("have %d agents after reseed, want 3", len(agents))
	}
}
