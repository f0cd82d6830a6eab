package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/interfaces"
	"github.com/secmon-lab/themis/pkg/domain/model"
)

type AssetUseCase struct {
	repo interfaces.Repository
}

func NewAssetUseCase(repo interfaces.Repository) *AssetUseCase {
	return &AssetUseCase{repo: repo}
}

// AssetInput carries the writable fields of an information asset
type AssetInput struct {
	Name           string
	Owner          string
	Classification string
}

// CreateAsset records a new information asset
func (uc *AssetUseCase) CreateAsset(ctx context.Context, input *AssetInput) (*model.InformationAsset, error) {
	asset := &model.InformationAsset{
		Name:           input.Name,
		Owner:          input.Owner,
		Classification: input.Classification,
	}
	if err := asset.Validate(); err != nil {
		return nil, goerr.Wrap(ErrInvalidInput, err.Error())
	}

	created, err := uc.repo.Asset().Create(ctx, asset)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create asset")
	}
	return created, nil
}

// GetAsset retrieves a single information asset
func (uc *AssetUseCase) GetAsset(ctx context.Context, id string) (*model.InformationAsset, error) {
	asset, err := uc.repo.Asset().Get(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(ErrAssetNotFound, "asset not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get asset", goerr.V("id", id))
	}
	return asset, nil
}

// ListAssets retrieves all information assets
func (uc *AssetUseCase) ListAssets(ctx context.Context) ([]*model.InformationAsset, error) {
	assets, err := uc.repo.Asset().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list assets")
	}
	return assets, nil
}
