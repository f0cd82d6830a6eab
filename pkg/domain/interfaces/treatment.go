package interfaces

import (
	"context"

	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

type TreatmentRepository interface {
	// Create persists a new treatment with an auto-generated ID
	Create(ctx context.Context, treatment *model.Treatment) (*model.Treatment, error)

	// Get retrieves a treatment by ID
	Get(ctx context.Context, id int64) (*model.Treatment, error)

	// ListByRisk retrieves all treatments for a risk
	ListByRisk(ctx context.Context, riskID types.RiskID) ([]*model.Treatment, error)

	// Update replaces an existing treatment
	Update(ctx context.Context, treatment *model.Treatment) (*model.Treatment, error)
}
