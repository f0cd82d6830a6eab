package interfaces

import (
	"context"

	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

type RiskRepository interface {
	// Create persists a new risk; the caller assigns the RiskID
	Create(ctx context.Context, risk *model.Risk) (*model.Risk, error)

	// Get retrieves a risk by its identifier
	Get(ctx context.Context, id types.RiskID) (*model.Risk, error)

	// List retrieves all risks
	List(ctx context.Context) ([]*model.Risk, error)

	// ListIDs retrieves all risk identifiers; used for next-ID assignment
	ListIDs(ctx context.Context) ([]types.RiskID, error)

	// Update replaces an existing risk
	Update(ctx context.Context, risk *model.Risk) (*model.Risk, error)

	// Delete removes a risk. Not exposed over HTTP; kept for rollback paths
	// and tests.
	Delete(ctx context.Context, id types.RiskID) error
}
