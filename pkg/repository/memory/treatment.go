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

type treatmentRepository struct {
	mu         sync.RWMutex
	treatments map[int64]*model.Treatment
	nextID     int64
}

func newTreatmentRepository() *treatmentRepository {
	return &treatmentRepository{
		treatments: make(map[int64]*model.Treatment),
		nextID:     1,
	}
}

func copyTreatment(t *model.Treatment) *model.Treatment {
	copied := *t
	if t.DueDate != nil {
		due := *t.DueDate
		copied.DueDate = &due
	}
	if t.ExtendedDueDate != nil {
		extended := *t.ExtendedDueDate
		copied.ExtendedDueDate = &extended
	}
	if t.CompletionDate != nil {
		completed := *t.CompletionDate
		copied.CompletionDate = &completed
	}
	return &copied
}

func (r *treatmentRepository) Create(ctx context.Context, treatment *model.Treatment) (*model.Treatment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := copyTreatment(treatment)
	created.ID = r.nextID
	created.CreatedAt = now
	created.UpdatedAt = now
	r.nextID++

	r.treatments[created.ID] = created
	return copyTreatment(created), nil
}

func (r *treatmentRepository) Get(ctx context.Context, id int64) (*model.Treatment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	treatment, exists := r.treatments[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "treatment not found", goerr.V("id", id))
	}

	return copyTreatment(treatment), nil
}

func (r *treatmentRepository) ListByRisk(ctx context.Context, riskID types.RiskID) ([]*model.Treatment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var treatments []*model.Treatment
	for _, treatment := range r.treatments {
		if treatment.RiskID == riskID {
			treatments = append(treatments, copyTreatment(treatment))
		}
	}

	sort.Slice(treatments, func(i, j int) bool {
		return treatments[i].ID < treatments[j].ID
	})

	return treatments, nil
}

func (r *treatmentRepository) Update(ctx context.Context, treatment *model.Treatment) (*model.Treatment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.treatments[treatment.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "treatment not found", goerr.V("id", treatment.ID))
	}

	updated := copyTreatment(treatment)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.treatments[updated.ID] = updated
	return copyTreatment(updated), nil
}
