package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/repository/memory"
	"github.com/secmon-lab/themis/pkg/usecase"
)

func TestTreatmentUseCase_CreateTreatment(t *testing.T) {
	t.Run("requires an existing risk", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.New(repo)

		_, err := uc.Treatment.CreateTreatment(context.Background(), types.RiskID("RISK-404"), &usecase.TreatmentInput{
			Title: "orphan",
		})
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, usecase.ErrRiskNotFound)).True()
	})

	t.Run("requires a title", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.New(repo)
		ctx := context.Background()

		risk, err := uc.Risk.CreateRisk(ctx, validRiskInput())
		gt.NoError(t, err).Required()

		_, err = uc.Treatment.CreateTreatment(ctx, risk.ID, &usecase.TreatmentInput{})
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, usecase.ErrInvalidInput)).True()
	})
}

func TestTreatmentUseCase_ExtendTreatment(t *testing.T) {
	setup := func(t *testing.T) (*usecase.UseCases, int64) {
		t.Helper()
		repo := memory.New()
		uc := usecase.New(repo)
		ctx := context.Background()

		risk, err := uc.Risk.CreateRisk(ctx, validRiskInput())
		gt.NoError(t, err).Required()

		due := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
		treatment, err := uc.Treatment.CreateTreatment(ctx, risk.ID, &usecase.TreatmentInput{
			Title:   "Decommission legacy file server",
			DueDate: &due,
		})
		gt.NoError(t, err).Required()
		return uc, treatment.ID
	}

	t.Run("each extension increments the count", func(t *testing.T) {
		uc, id := setup(t)
		ctx := context.Background()

		first := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
		updated, err := uc.Treatment.ExtendTreatment(ctx, id, first)
		gt.NoError(t, err).Required()
		gt.Number(t, updated.ExtensionCount).Equal(1)
		gt.Bool(t, updated.EffectiveDueDate().Equal(first)).True()

		second := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
		updated, err = uc.Treatment.ExtendTreatment(ctx, id, second)
		gt.NoError(t, err).Required()
		gt.Number(t, updated.ExtensionCount).Equal(2)
		gt.Bool(t, updated.EffectiveDueDate().Equal(second)).True()
	})

	t.Run("approved closure blocks extension", func(t *testing.T) {
		uc, id := setup(t)
		ctx := context.Background()

		_, err := uc.Treatment.CompleteTreatment(ctx, id, time.Now())
		gt.NoError(t, err).Required()
		_, err = uc.Treatment.ReviewClosure(ctx, id, true)
		gt.NoError(t, err).Required()

		_, err = uc.Treatment.ExtendTreatment(ctx, id, time.Now().AddDate(0, 3, 0))
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, usecase.ErrTreatmentClosed)).True()
	})
}

func TestTreatmentUseCase_Closure(t *testing.T) {
	setup := func(t *testing.T) (*usecase.UseCases, int64) {
		t.Helper()
		repo := memory.New()
		uc := usecase.New(repo)
		ctx := context.Background()

		risk, err := uc.Risk.CreateRisk(ctx, validRiskInput())
		gt.NoError(t, err).Required()
		treatment, err := uc.Treatment.CreateTreatment(ctx, risk.ID, &usecase.TreatmentInput{
			Title: "Rotate credentials",
		})
		gt.NoError(t, err).Required()
		return uc, treatment.ID
	}

	t.Run("completion marks closure pending", func(t *testing.T) {
		uc, id := setup(t)

		completed := time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)
		updated, err := uc.Treatment.CompleteTreatment(context.Background(), id, completed)
		gt.NoError(t, err).Required()
		gt.Value(t, updated.ClosureApproval).Equal(types.ClosurePending)
		gt.Bool(t, updated.CompletionDate.Equal(completed)).True()
	})

	t.Run("approve and reject set the corresponding state", func(t *testing.T) {
		uc, id := setup(t)
		ctx := context.Background()

		_, err := uc.Treatment.CompleteTreatment(ctx, id, time.Now())
		gt.NoError(t, err).Required()

		rejected, err := uc.Treatment.ReviewClosure(ctx, id, false)
		gt.NoError(t, err).Required()
		gt.Value(t, rejected.ClosureApproval).Equal(types.ClosureRejected)

		approved, err := uc.Treatment.ReviewClosure(ctx, id, true)
		gt.NoError(t, err).Required()
		gt.Value(t, approved.ClosureApproval).Equal(types.ClosureApproved)
	})
}
