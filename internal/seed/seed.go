package seed

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/assignment-service/internal/domain"
	"github.com/spec-kit/assignment-service/internal/repository"
	apperrors "github.com/spec-kit/assignment-service/pkg/util"
)

// Agents inserts the sample agent fixtures used by local environments and
// demos. Existing rows are left untouched, so seeding is safe on restart.
func Agents(ctx context.Context, store repository.Store, logger *zap.Logger) error {
	engagedTicket := uuid.MustParse("99999999-9999-9999-9999-999999999999")

	fixtures := []domain.Agent{
		{
			ID:           uuid.MustParse("11111111-1111-1111-1111-111111111111"),
			FirstName:    "John",
			LastName:     "Doe",
			Availability: domain.AgentAvailable,
			Skills:       []string{"Billing", "Accounts", "Refunds"},
		},
		{
			ID:           uuid.MustParse("22222222-2222-2222-2222-222222222222"),
			FirstName:    "Jane",
			LastName:     "Smith",
			Availability: domain.AgentAvailable,
			Skills:       []string{"Technical", "Integrations"},
		},
		{
			ID:           uuid.MustParse("33333333-3333-3333-3333-333333333333"),
			FirstName:    "Bob",
			LastName:     "Johnson",
			Availability: domain.AgentNotAvailable,
			Skills:       []string{"Payments", "Fraud"},
			TicketID:     &engagedTicket,
		},
	}

	seeded := 0
	for i := range fixtures {
		if err := store.Agents().Create(ctx, &fixtures[i]); err != nil {
			if apperrors.IsCode(err, apperrors.CodeConflict) {
				continue
			}
			return err
		}
		seeded++
	}

	logger.Info("sample agents seeded", zap.Int("count", seeded))
	return nil
}
