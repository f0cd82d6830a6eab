package interfaces

import (
	"context"

	"github.com/secmon-lab/themis/pkg/domain/model"
)

type WorkshopRepository interface {
	// Create persists a new workshop with an auto-generated ID
	Create(ctx context.Context, workshop *model.Workshop) (*model.Workshop, error)

	// Get retrieves a workshop by ID
	Get(ctx context.Context, id int64) (*model.Workshop, error)

	// List retrieves all workshops
	List(ctx context.Context) ([]*model.Workshop, error)

	// Update replaces an existing workshop
	Update(ctx context.Context, workshop *model.Workshop) (*model.Workshop, error)
}
