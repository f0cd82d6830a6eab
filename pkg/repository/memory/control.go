package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

type controlRepository struct {
	mu       sync.RWMutex
	controls map[types.ControlID]*model.SoAControl
}

func newControlRepository() *controlRepository {
	return &controlRepository{
		controls: make(map[types.ControlID]*model.SoAControl),
	}
}

func copyControl(c *model.SoAControl) *model.SoAControl {
	copied := *c
	copied.Justification = append([]types.Justification(nil), c.Justification...)
	copied.RelatedRisks = append([]types.RiskID(nil), c.RelatedRisks...)
	return &copied
}

func (r *controlRepository) Put(ctx context.Context, control *model.SoAControl) (*model.SoAControl, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	stored := copyControl(control)
	if existing, exists := r.controls[control.ID]; exists {
		stored.CreatedAt = existing.CreatedAt
	} else {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now

	r.controls[stored.ID] = stored
	return copyControl(stored), nil
}

func (r *controlRepository) Get(ctx context.Context, id types.ControlID) (*model.SoAControl, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	control, exists := r.controls[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "control not found", goerr.V("id", id))
	}

	return copyControl(control), nil
}

func (r *controlRepository) List(ctx context.Context) ([]*model.SoAControl, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	controls := make([]*model.SoAControl, 0, len(r.controls))
	for _, control := range r.controls {
		controls = append(controls, copyControl(control))
	}

	sort.Slice(controls, func(i, j int) bool {
		return controls[i].ID < controls[j].ID
	})

	return controls, nil
}
