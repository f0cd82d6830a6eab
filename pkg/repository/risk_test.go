package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/secmon-lab/themis/pkg/domain/interfaces"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/repository/firestore"
	"github.com/secmon-lab/themis/pkg/repository/memory"
)

func runRiskRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create persists risk under caller-assigned ID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		risk := &model.Risk{
			ID:          types.RiskID("RISK-1"),
			Title:       "Unpatched VPN gateway",
			Description: "Perimeter VPN appliance is two major versions behind",
			Owner:       "IT Operations",
			Phase:       types.PhaseIdentified,
		}

		created, err := repo.Risk().Create(ctx, risk)
		if err != nil {
			t.Fatalf("failed to create risk: %v", err)
		}

		if created.ID != risk.ID {
			t.Errorf("expected ID=%s, got %s", risk.ID, created.ID)
		}
		if created.Title != risk.Title {
			t.Errorf("expected title=%s, got %s", risk.Title, created.Title)
		}
		if created.CreatedAt.IsZero() {
			t.Error("expected non-zero CreatedAt")
		}
		if created.UpdatedAt.IsZero() {
			t.Error("expected non-zero UpdatedAt")
		}
	})

	t.Run("Create rejects duplicate ID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		risk := &model.Risk{ID: types.RiskID("RISK-1"), Title: "Original"}
		if _, err := repo.Risk().Create(ctx, risk); err != nil {
			t.Fatalf("failed to create risk: %v", err)
		}

		dup := &model.Risk{ID: types.RiskID("RISK-1"), Title: "Duplicate"}
		if _, err := repo.Risk().Create(ctx, dup); err == nil {
			t.Error("expected error for duplicate risk ID")
		}
	})

	t.Run("Get retrieves existing risk", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Risk().Create(ctx, &model.Risk{
			ID:    types.RiskID("RISK-2"),
			Title: "Stale offboarding process",
			Impact: model.CIAImpact{
				Confidentiality: true,
				Availability:    true,
			},
			LikelihoodRating:    types.LikelihoodPossible,
			ConsequenceRating:   types.ConsequenceMajor,
			RiskRating:          types.RatingExtreme,
			CurrentControls:     []string{"quarterly access review"},
			InformationAssetIDs: []string{"asset-1", "asset-2"},
		})
		if err != nil {
			t.Fatalf("failed to create risk: %v", err)
		}

		retrieved, err := repo.Risk().Get(ctx, created.ID)
		if err != nil {
			t.Fatalf("failed to get risk: %v", err)
		}

		if retrieved.Title != created.Title {
			t.Errorf("expected title=%s, got %s", created.Title, retrieved.Title)
		}
		if !retrieved.Impact.Confidentiality || !retrieved.Impact.Availability {
			t.Errorf("expected C and A impact flags preserved, got %+v", retrieved.Impact)
		}
		if retrieved.RiskRating != types.RatingExtreme {
			t.Errorf("expected rating=Extreme, got %s", retrieved.RiskRating)
		}
		if len(retrieved.InformationAssetIDs) != 2 {
			t.Errorf("expected 2 asset references, got %d", len(retrieved.InformationAssetIDs))
		}
	})

	t.Run("Get returns ErrNotFound for missing risk", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Risk().Get(ctx, types.RiskID("RISK-99999"))
		if err == nil {
			t.Fatal("expected error for non-existent risk")
		}
		if !errors.Is(err, memory.ErrNotFound) && !errors.Is(err, firestore.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("ListIDs returns all assigned identifiers", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for _, id := range []string{"RISK-1", "RISK-3", "RISK-10"} {
			if _, err := repo.Risk().Create(ctx, &model.Risk{
				ID:    types.RiskID(id),
				Title: "risk " + id,
			}); err != nil {
				t.Fatalf("failed to create %s: %v", id, err)
			}
		}

		ids, err := repo.Risk().ListIDs(ctx)
		if err != nil {
			t.Fatalf("failed to list risk IDs: %v", err)
		}
		if len(ids) != 3 {
			t.Fatalf("expected 3 IDs, got %d", len(ids))
		}

		seen := make(map[types.RiskID]bool)
		for _, id := range ids {
			seen[id] = true
		}
		for _, want := range []types.RiskID{"RISK-1", "RISK-3", "RISK-10"} {
			if !seen[want] {
				t.Errorf("expected %s in ID list", want)
			}
		}
	})

	t.Run("Update replaces fields and preserves CreatedAt", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Risk().Create(ctx, &model.Risk{
			ID:    types.RiskID("RISK-5"),
			Title: "Before",
			Phase: types.PhaseIdentified,
		})
		if err != nil {
			t.Fatalf("failed to create risk: %v", err)
		}

		created.Title = "After"
		created.Phase = types.PhaseAnalysed
		created.LikelihoodRating = types.LikelihoodRare
		created.ConsequenceRating = types.ConsequenceMinor
		created.RiskRating = types.RatingLow

		updated, err := repo.Risk().Update(ctx, created)
		if err != nil {
			t.Fatalf("failed to update risk: %v", err)
		}

		if updated.Title != "After" {
			t.Errorf("expected title=After, got %s", updated.Title)
		}
		if updated.Phase != types.PhaseAnalysed {
			t.Errorf("expected phase=%s, got %s", types.PhaseAnalysed, updated.Phase)
		}
		if !updated.CreatedAt.Equal(created.CreatedAt) {
			t.Errorf("expected createdAt preserved, got %v", updated.CreatedAt)
		}
	})

	t.Run("Update returns ErrNotFound for missing risk", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Risk().Update(ctx, &model.Risk{
			ID:    types.RiskID("RISK-404"),
			Title: "ghost",
		})
		if err == nil {
			t.Fatal("expected error for non-existent risk")
		}
		if !errors.Is(err, memory.ErrNotFound) && !errors.Is(err, firestore.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Delete removes risk", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Risk().Create(ctx, &model.Risk{
			ID:    types.RiskID("RISK-7"),
			Title: "to be removed",
		})
		if err != nil {
			t.Fatalf("failed to create risk: %v", err)
		}

		if err := repo.Risk().Delete(ctx, created.ID); err != nil {
			t.Fatalf("failed to delete risk: %v", err)
		}

		if _, err := repo.Risk().Get(ctx, created.ID); err == nil {
			t.Error("expected error after delete")
		}
	})

	t.Run("mutating a retrieved risk does not affect the store", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Risk().Create(ctx, &model.Risk{
			ID:              types.RiskID("RISK-8"),
			Title:           "isolation check",
			CurrentControls: []string{"MFA"},
		})
		if err != nil {
			t.Fatalf("failed to create risk: %v", err)
		}

		retrieved, err := repo.Risk().Get(ctx, created.ID)
		if err != nil {
			t.Fatalf("failed to get risk: %v", err)
		}
		retrieved.Title = "mutated"
		retrieved.CurrentControls[0] = "none"

		fresh, err := repo.Risk().Get(ctx, created.ID)
		if err != nil {
			t.Fatalf("failed to re-get risk: %v", err)
		}
		if fresh.Title != "isolation check" {
			t.Errorf("store was mutated through returned copy: %s", fresh.Title)
		}
		if fresh.CurrentControls[0] != "MFA" {
			t.Errorf("store slice was mutated through returned copy: %s", fresh.CurrentControls[0])
		}
	})
}

func newFirestoreRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
	}

	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")
	if databaseID == "" {
		t.Skip("TEST_FIRESTORE_DATABASE_ID not set")
	}

	ctx := context.Background()
	prefix := fmt.Sprintf("test_%d", time.Now().UnixNano())
	repo, err := firestore.New(ctx, projectID, databaseID, firestore.WithCollectionPrefix(prefix))
	if err != nil {
		t.Fatalf("failed to create firestore repository: %v", err)
	}
	t.Cleanup(func() {
		if err := repo.Close(); err != nil {
			t.Errorf("failed to close firestore repository: %v", err)
		}
	})
	return repo
}

func TestMemoryRiskRepository(t *testing.T) {
	runRiskRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestFirestoreRiskRepository(t *testing.T) {
	runRiskRepositoryTest(t, newFirestoreRepository)
}
