package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/model"
)

type workshopRepository struct {
	mu        sync.RWMutex
	workshops map[int64]*model.Workshop
	nextID    int64
}

func newWorkshopRepository() *workshopRepository {
	return &workshopRepository{
		workshops: make(map[int64]*model.Workshop),
		nextID:    1,
	}
}

func copyMinuteItems(items []model.MinuteItem) []model.MinuteItem {
	if items == nil {
		return nil
	}
	copied := make([]model.MinuteItem, len(items))
	for i, item := range items {
		copied[i] = item
		copied[i].SelectedTreatments = append([]int64(nil), item.SelectedTreatments...)
	}
	return copied
}

func copyWorkshop(w *model.Workshop) *model.Workshop {
	copied := *w
	if w.ScheduledAt != nil {
		scheduled := *w.ScheduledAt
		copied.ScheduledAt = &scheduled
	}
	copied.Extensions = copyMinuteItems(w.Extensions)
	copied.Closure = copyMinuteItems(w.Closure)
	copied.NewRisks = copyMinuteItems(w.NewRisks)
	return &copied
}

func (r *workshopRepository) Create(ctx context.Context, workshop *model.Workshop) (*model.Workshop, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := copyWorkshop(workshop)
	created.ID = r.nextID
	created.CreatedAt = now
	created.UpdatedAt = now
	r.nextID++

	r.workshops[created.ID] = created
	return copyWorkshop(created), nil
}

func (r *workshopRepository) Get(ctx context.Context, id int64) (*model.Workshop, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	workshop, exists := r.workshops[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "workshop not found", goerr.V("id", id))
	}

	return copyWorkshop(workshop), nil
}

func (r *workshopRepository) List(ctx context.Context) ([]*model.Workshop, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	workshops := make([]*model.Workshop, 0, len(r.workshops))
	for _, workshop := range r.workshops {
		workshops = append(workshops, copyWorkshop(workshop))
	}

	sort.Slice(workshops, func(i, j int) bool {
		return workshops[i].ID < workshops[j].ID
	})

	return workshops, nil
}

func (r *workshopRepository) Update(ctx context.Context, workshop *model.Workshop) (*model.Workshop, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.workshops[workshop.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "workshop not found", goerr.V("id", workshop.ID))
	}

	updated := copyWorkshop(workshop)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.workshops[updated.ID] = updated
	return copyWorkshop(updated), nil
}
