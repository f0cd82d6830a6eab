package usecase

import (
	"context"
	"errors"
	"sort"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/interfaces"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/repository/firestore"
	"github.com/secmon-lab/themis/pkg/repository/memory"
	"github.com/secmon-lab/themis/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

type RiskUseCase struct {
	repo interfaces.Repository
}

func NewRiskUseCase(repo interfaces.Repository) *RiskUseCase {
	return &RiskUseCase{repo: repo}
}

// RiskInput carries the writable fields of a risk
type RiskInput struct {
	Title       string
	Description string
	Owner       string
	Phase       types.RiskPhase
	Impact      model.CIAImpact

	Likelihood  types.Likelihood
	Consequence types.Consequence

	ResidualLikelihood  types.Likelihood
	ResidualConsequence types.Consequence

	CurrentControls                  []string
	CurrentControlsReference         []types.ControlID
	ApplicableControlsAfterTreatment []types.ControlID
	InformationAssetIDs              []string
}

// RiskDetail aggregates a risk with its related records for the detail view
type RiskDetail struct {
	Risk       *model.Risk
	Treatments []*model.Treatment
	Assets     []*model.InformationAsset
	Controls   []*model.SoAControl
}

// RiskUpdateResult carries the saved risk and a hint for the caller that the
// information-asset selection changed and dependent views should refetch.
type RiskUpdateResult struct {
	Risk                  *model.Risk
	AssetSelectionChanged bool
}

// NextRiskID computes the identifier the next created risk will receive.
// When the existing ID set cannot be listed, the fixed fallback is returned
// rather than an error so risk creation is never blocked by a listing fault.
func (uc *RiskUseCase) NextRiskID(ctx context.Context) types.RiskID {
	ids, err := uc.repo.Risk().ListIDs(ctx)
	if err != nil {
		logging.From(ctx).Warn("failed to list risk IDs, using fallback",
			"error", err.Error(), "fallback", types.FallbackRiskID)
		return types.FallbackRiskID
	}
	return types.NextRiskID(ids)
}

// CreateRisk assigns the next identifier, derives the risk ratings and
// persists the risk.
func (uc *RiskUseCase) CreateRisk(ctx context.Context, input *RiskInput) (*model.Risk, error) {
	risk := buildRisk(input)
	risk.ID = uc.NextRiskID(ctx)
	risk.Phase = risk.Phase.Normalize()
	risk.ApplyRatings()

	if err := risk.Validate(); err != nil {
		return nil, goerr.Wrap(ErrInvalidInput, err.Error())
	}

	created, err := uc.repo.Risk().Create(ctx, risk)
	if err != nil {
		if isAlreadyExists(err) {
			return nil, goerr.Wrap(ErrDuplicateRiskID, "risk ID already taken", goerr.V("id", risk.ID))
		}
		return nil, goerr.Wrap(err, "failed to create risk", goerr.V("id", risk.ID))
	}

	logging.From(ctx).Info("risk created", "id", created.ID, "rating", created.RiskRating)
	return created, nil
}

// GetRisk retrieves a single risk
func (uc *RiskUseCase) GetRisk(ctx context.Context, id types.RiskID) (*model.Risk, error) {
	risk, err := uc.repo.Risk().Get(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(ErrRiskNotFound, "risk not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get risk", goerr.V("id", id))
	}
	return risk, nil
}

// ListRisks retrieves all risks sorted by numeric suffix
func (uc *RiskUseCase) ListRisks(ctx context.Context) ([]*model.Risk, error) {
	risks, err := uc.repo.Risk().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list risks")
	}
	sortRisks(risks)
	return risks, nil
}

// GetRiskDetail assembles the detail view: the risk plus its treatments,
// referenced information assets and referenced SoA controls, fetched in
// parallel.
func (uc *RiskUseCase) GetRiskDetail(ctx context.Context, id types.RiskID) (*RiskDetail, error) {
	risk, err := uc.GetRisk(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &RiskDetail{Risk: risk}

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		treatments, err := uc.repo.Treatment().ListByRisk(egCtx, id)
		if err != nil {
			return goerr.Wrap(err, "failed to list treatments", goerr.V("riskID", id))
		}
		detail.Treatments = treatments
		return nil
	})

	eg.Go(func() error {
		assets := make([]*model.InformationAsset, 0, len(risk.InformationAssetIDs))
		for _, assetID := range risk.InformationAssetIDs {
			asset, err := uc.repo.Asset().Get(egCtx, assetID)
			if err != nil {
				if isNotFound(err) {
					// Dangling reference; drop it from the view
					logging.From(egCtx).Warn("risk references missing asset",
						"riskID", id, "assetID", assetID)
					continue
				}
				return goerr.Wrap(err, "failed to get asset", goerr.V("assetID", assetID))
			}
			assets = append(assets, asset)
		}
		detail.Assets = assets
		return nil
	})

	eg.Go(func() error {
		seen := make(map[types.ControlID]bool)
		var controls []*model.SoAControl
		for _, lists := range [][]types.ControlID{risk.CurrentControlsReference, risk.ApplicableControlsAfterTreatment} {
			for _, controlID := range lists {
				if seen[controlID] {
					continue
				}
				seen[controlID] = true
				control, err := uc.repo.Control().Get(egCtx, controlID)
				if err != nil {
					if isNotFound(err) {
						logging.From(egCtx).Warn("risk references missing control",
							"riskID", id, "controlID", controlID)
						continue
					}
					return goerr.Wrap(err, "failed to get control", goerr.V("controlID", controlID))
				}
				controls = append(controls, control)
			}
		}
		detail.Controls = controls
		return nil
	})

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return detail, nil
}

// UpdateRisk recomputes the derived ratings and saves the risk. The result
// reports whether the information-asset selection changed so the caller can
// refetch asset-dependent views.
func (uc *RiskUseCase) UpdateRisk(ctx context.Context, id types.RiskID, input *RiskInput) (*RiskUpdateResult, error) {
	existing, err := uc.GetRisk(ctx, id)
	if err != nil {
		return nil, err
	}

	risk := buildRisk(input)
	risk.ID = id
	risk.Phase = risk.Phase.Normalize()
	risk.CreatedAt = existing.CreatedAt
	risk.ApplyRatings()

	if err := risk.Validate(); err != nil {
		return nil, goerr.Wrap(ErrInvalidInput, err.Error())
	}

	updated, err := uc.repo.Risk().Update(ctx, risk)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update risk", goerr.V("id", id))
	}

	return &RiskUpdateResult{
		Risk:                  updated,
		AssetSelectionChanged: model.AssetSelectionChanged(existing.InformationAssetIDs, updated.InformationAssetIDs),
	}, nil
}

func buildRisk(input *RiskInput) *model.Risk {
	return &model.Risk{
		Title:                            input.Title,
		Description:                      input.Description,
		Owner:                            input.Owner,
		Phase:                            input.Phase,
		Impact:                           input.Impact,
		LikelihoodRating:                 input.Likelihood,
		ConsequenceRating:                input.Consequence,
		ResidualLikelihood:               input.ResidualLikelihood,
		ResidualConsequence:              input.ResidualConsequence,
		CurrentControls:                  input.CurrentControls,
		CurrentControlsReference:         input.CurrentControlsReference,
		ApplicableControlsAfterTreatment: input.ApplicableControlsAfterTreatment,
		InformationAssetIDs:              input.InformationAssetIDs,
	}
}

func sortRisks(risks []*model.Risk) {
	sort.Slice(risks, func(i, j int) bool {
		return risks[i].ID.Suffix() < risks[j].ID.Suffix()
	})
}

// isNotFound recognizes the not-found sentinel of either repository backend
func isNotFound(err error) bool {
	return errors.Is(err, memory.ErrNotFound) || errors.Is(err, firestore.ErrNotFound)
}

// isAlreadyExists recognizes the create-collision sentinel of either backend
func isAlreadyExists(err error) bool {
	return errors.Is(err, memory.ErrAlreadyExists) || errors.Is(err, firestore.ErrAlreadyExists)
}
