package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/interfaces"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/utils/logging"
)

type WorkshopUseCase struct {
	repo interfaces.Repository
}

func NewWorkshopUseCase(repo interfaces.Repository) *WorkshopUseCase {
	return &WorkshopUseCase{repo: repo}
}

// WorkshopInput carries the writable fields of a workshop
type WorkshopInput struct {
	ScheduledAt *time.Time
	Facilitator string
	Status      types.WorkshopStatus
}

// CreateWorkshop records a new review workshop
func (uc *WorkshopUseCase) CreateWorkshop(ctx context.Context, input *WorkshopInput) (*model.Workshop, error) {
	workshop := &model.Workshop{
		ScheduledAt: input.ScheduledAt,
		Facilitator: input.Facilitator,
		Status:      input.Status.Normalize(),
	}
	if err := workshop.Validate(); err != nil {
		return nil, goerr.Wrap(ErrInvalidInput, err.Error())
	}

	created, err := uc.repo.Workshop().Create(ctx, workshop)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create workshop")
	}

	logging.From(ctx).Info("workshop created", "id", created.ID, "status", created.Status)
	return created, nil
}

// GetWorkshop retrieves a single workshop
func (uc *WorkshopUseCase) GetWorkshop(ctx context.Context, id int64) (*model.Workshop, error) {
	workshop, err := uc.repo.Workshop().Get(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(ErrWorkshopNotFound, "workshop not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get workshop", goerr.V("id", id))
	}
	return workshop, nil
}

// ListWorkshops retrieves all workshops
func (uc *WorkshopUseCase) ListWorkshops(ctx context.Context) ([]*model.Workshop, error) {
	workshops, err := uc.repo.Workshop().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list workshops")
	}
	return workshops, nil
}

// UpdateWorkshop updates the schedule, facilitator and status fields. Minute
// lists are not replaced here; they change only through agenda operations.
func (uc *WorkshopUseCase) UpdateWorkshop(ctx context.Context, id int64, input *WorkshopInput) (*model.Workshop, error) {
	workshop, err := uc.GetWorkshop(ctx, id)
	if err != nil {
		return nil, err
	}

	workshop.ScheduledAt = input.ScheduledAt
	workshop.Facilitator = input.Facilitator
	workshop.Status = input.Status.Normalize()
	if err := workshop.Validate(); err != nil {
		return nil, goerr.Wrap(ErrInvalidInput, err.Error())
	}

	updated, err := uc.repo.Workshop().Update(ctx, workshop)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update workshop", goerr.V("id", id))
	}
	return updated, nil
}

// AddAgendaItem appends a minute item to one of the three category lists.
// Treatments whose closure is already approved may not be brought to a
// workshop; referencing one fails the whole addition.
func (uc *WorkshopUseCase) AddAgendaItem(ctx context.Context, id int64, category types.MinuteCategory, item model.MinuteItem) (*model.Workshop, error) {
	workshop, err := uc.GetWorkshop(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := uc.repo.Risk().Get(ctx, item.RiskID); err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(ErrRiskNotFound, "risk not found", goerr.V("riskID", item.RiskID))
		}
		return nil, goerr.Wrap(err, "failed to get risk", goerr.V("riskID", item.RiskID))
	}

	for _, treatmentID := range item.SelectedTreatments {
		treatment, err := uc.repo.Treatment().Get(ctx, treatmentID)
		if err != nil {
			if isNotFound(err) {
				return nil, goerr.Wrap(ErrTreatmentNotFound, "treatment not found", goerr.V("treatmentID", treatmentID))
			}
			return nil, goerr.Wrap(err, "failed to get treatment", goerr.V("treatmentID", treatmentID))
		}
		if !treatment.EligibleForAgenda() {
			return nil, goerr.Wrap(ErrTreatmentClosed,
				"treatment with approved closure cannot be added to an agenda",
				goerr.V("treatmentID", treatmentID))
		}
	}

	if err := workshop.AddMinuteItem(category, item); err != nil {
		return nil, goerr.Wrap(ErrInvalidInput, err.Error())
	}

	updated, err := uc.repo.Workshop().Update(ctx, workshop)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to save agenda item", goerr.V("id", id))
	}

	logging.From(ctx).Info("agenda item added",
		"workshopID", id, "category", category, "riskID", item.RiskID)
	return updated, nil
}

// RemoveAgendaItem removes the minute item at index from the category list
func (uc *WorkshopUseCase) RemoveAgendaItem(ctx context.Context, id int64, category types.MinuteCategory, index int) (*model.Workshop, error) {
	workshop, err := uc.GetWorkshop(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := workshop.RemoveMinuteItem(category, index); err != nil {
		return nil, goerr.Wrap(ErrInvalidInput, err.Error())
	}

	updated, err := uc.repo.Workshop().Update(ctx, workshop)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to remove agenda item", goerr.V("id", id))
	}
	return updated, nil
}

// RecordMinuteOutcome updates the outcome fields of an existing minute item
func (uc *WorkshopUseCase) RecordMinuteOutcome(ctx context.Context, id int64, category types.MinuteCategory, index int, actionsTaken, toDo, outcome string) (*model.Workshop, error) {
	workshop, err := uc.GetWorkshop(ctx, id)
	if err != nil {
		return nil, err
	}

	items := workshop.MinuteItems(category)
	if index < 0 || index >= len(items) {
		return nil, goerr.Wrap(ErrInvalidInput, "minute item index out of range",
			goerr.V("category", category), goerr.V("index", index))
	}
	items[index].ActionsTaken = actionsTaken
	items[index].ToDo = toDo
	items[index].Outcome = outcome

	updated, err := uc.repo.Workshop().Update(ctx, workshop)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to save minute outcome", goerr.V("id", id))
	}
	return updated, nil
}
