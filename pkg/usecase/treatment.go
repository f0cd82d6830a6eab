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

type TreatmentUseCase struct {
	repo interfaces.Repository
}

func NewTreatmentUseCase(repo interfaces.Repository) *TreatmentUseCase {
	return &TreatmentUseCase{repo: repo}
}

// TreatmentInput carries the writable fields of a treatment
type TreatmentInput struct {
	Title   string
	Owner   string
	DueDate *time.Time
}

// CreateTreatment records a new treatment against an existing risk
func (uc *TreatmentUseCase) CreateTreatment(ctx context.Context, riskID types.RiskID, input *TreatmentInput) (*model.Treatment, error) {
	if _, err := uc.repo.Risk().Get(ctx, riskID); err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(ErrRiskNotFound, "risk not found", goerr.V("riskID", riskID))
		}
		return nil, goerr.Wrap(err, "failed to get risk", goerr.V("riskID", riskID))
	}

	treatment := &model.Treatment{
		RiskID:  riskID,
		Title:   input.Title,
		Owner:   input.Owner,
		DueDate: input.DueDate,
	}
	if err := treatment.Validate(); err != nil {
		return nil, goerr.Wrap(ErrInvalidInput, err.Error())
	}

	created, err := uc.repo.Treatment().Create(ctx, treatment)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create treatment", goerr.V("riskID", riskID))
	}

	logging.From(ctx).Info("treatment created", "id", created.ID, "riskID", riskID)
	return created, nil
}

// GetTreatment retrieves a single treatment
func (uc *TreatmentUseCase) GetTreatment(ctx context.Context, id int64) (*model.Treatment, error) {
	treatment, err := uc.repo.Treatment().Get(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(ErrTreatmentNotFound, "treatment not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get treatment", goerr.V("id", id))
	}
	return treatment, nil
}

// ListTreatments retrieves all treatments for a risk
func (uc *TreatmentUseCase) ListTreatments(ctx context.Context, riskID types.RiskID) ([]*model.Treatment, error) {
	treatments, err := uc.repo.Treatment().ListByRisk(ctx, riskID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list treatments", goerr.V("riskID", riskID))
	}
	return treatments, nil
}

// UpdateTreatment updates the writable fields of a treatment
func (uc *TreatmentUseCase) UpdateTreatment(ctx context.Context, id int64, input *TreatmentInput) (*model.Treatment, error) {
	treatment, err := uc.GetTreatment(ctx, id)
	if err != nil {
		return nil, err
	}

	treatment.Title = input.Title
	treatment.Owner = input.Owner
	treatment.DueDate = input.DueDate
	if err := treatment.Validate(); err != nil {
		return nil, goerr.Wrap(ErrInvalidInput, err.Error())
	}

	updated, err := uc.repo.Treatment().Update(ctx, treatment)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update treatment", goerr.V("id", id))
	}
	return updated, nil
}

// ExtendTreatment records a new extended due date. Each extension increments
// the extension count; prior extensions are overwritten by the latest date.
func (uc *TreatmentUseCase) ExtendTreatment(ctx context.Context, id int64, newDueDate time.Time) (*model.Treatment, error) {
	treatment, err := uc.GetTreatment(ctx, id)
	if err != nil {
		return nil, err
	}
	if treatment.ClosureApproval == types.ClosureApproved {
		return nil, goerr.Wrap(ErrTreatmentClosed, "cannot extend a treatment with approved closure", goerr.V("id", id))
	}

	treatment.Extend(newDueDate)

	updated, err := uc.repo.Treatment().Update(ctx, treatment)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to save extension", goerr.V("id", id))
	}

	logging.From(ctx).Info("treatment extended",
		"id", id, "newDueDate", newDueDate, "extensionCount", updated.ExtensionCount)
	return updated, nil
}

// CompleteTreatment records the completion date and marks closure as pending
// approval.
func (uc *TreatmentUseCase) CompleteTreatment(ctx context.Context, id int64, completedAt time.Time) (*model.Treatment, error) {
	treatment, err := uc.GetTreatment(ctx, id)
	if err != nil {
		return nil, err
	}
	if treatment.ClosureApproval == types.ClosureApproved {
		return nil, goerr.Wrap(ErrTreatmentClosed, "treatment closure already approved", goerr.V("id", id))
	}

	treatment.CompletionDate = &completedAt
	treatment.ClosureApproval = types.ClosurePending

	updated, err := uc.repo.Treatment().Update(ctx, treatment)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to save completion", goerr.V("id", id))
	}
	return updated, nil
}

// ReviewClosure approves or rejects a pending treatment closure
func (uc *TreatmentUseCase) ReviewClosure(ctx context.Context, id int64, approve bool) (*model.Treatment, error) {
	treatment, err := uc.GetTreatment(ctx, id)
	if err != nil {
		return nil, err
	}

	if approve {
		treatment.ClosureApproval = types.ClosureApproved
	} else {
		treatment.ClosureApproval = types.ClosureRejected
	}

	updated, err := uc.repo.Treatment().Update(ctx, treatment)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to save closure review", goerr.V("id", id))
	}

	logging.From(ctx).Info("treatment closure reviewed",
		"id", id, "closureApproval", updated.ClosureApproval)
	return updated, nil
}
