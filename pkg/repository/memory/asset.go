package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/model"
)

type assetRepository struct {
	mu     sync.RWMutex
	assets map[string]*model.InformationAsset
	nextID int64
}

func newAssetRepository() *assetRepository {
	return &assetRepository{
		assets: make(map[string]*model.InformationAsset),
		nextID: 1,
	}
}

func copyAsset(a *model.InformationAsset) *model.InformationAsset {
	copied := *a
	return &copied
}

func (r *assetRepository) Create(ctx context.Context, asset *model.InformationAsset) (*model.InformationAsset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := copyAsset(asset)
	created.ID = fmt.Sprintf("asset-%d", r.nextID)
	created.CreatedAt = now
	created.UpdatedAt = now
	r.nextID++

	r.assets[created.ID] = created
	return copyAsset(created), nil
}

func (r *assetRepository) Get(ctx context.Context, id string) (*model.InformationAsset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	asset, exists := r.assets[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "asset not found", goerr.V("id", id))
	}

	return copyAsset(asset), nil
}

func (r *assetRepository) List(ctx context.Context) ([]*model.InformationAsset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	assets := make([]*model.InformationAsset, 0, len(r.assets))
	for _, asset := range r.assets {
		assets = append(assets, copyAsset(asset))
	}

	sort.Slice(assets, func(i, j int) bool {
		return assets[i].ID < assets[j].ID
	})

	return assets, nil
}
