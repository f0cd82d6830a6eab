package interfaces

import (
	"context"

	"github.com/secmon-lab/themis/pkg/domain/model"
)

type AssetRepository interface {
	// Create persists a new information asset with an auto-generated ID
	Create(ctx context.Context, asset *model.InformationAsset) (*model.InformationAsset, error)

	// Get retrieves an asset by ID
	Get(ctx context.Context, id string) (*model.InformationAsset, error)

	// List retrieves all assets
	List(ctx context.Context) ([]*model.InformationAsset, error)
}
