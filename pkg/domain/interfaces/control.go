package interfaces

import (
	"context"

	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

type ControlRepository interface {
	// Put creates or replaces a control keyed by its ControlID
	Put(ctx context.Context, control *model.SoAControl) (*model.SoAControl, error)

	// Get retrieves a control by ID
	Get(ctx context.Context, id types.ControlID) (*model.SoAControl, error)

	// List retrieves all controls
	List(ctx context.Context) ([]*model.SoAControl, error)
}
