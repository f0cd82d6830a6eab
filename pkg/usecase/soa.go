package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/interfaces"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/utils/logging"
)

type SoAUseCase struct {
	repo interfaces.Repository
}

func NewSoAUseCase(repo interfaces.Repository) *SoAUseCase {
	return &SoAUseCase{repo: repo}
}

// ControlGroup is one Annex A section with its controls, for the grouped
// SoA listing.
type ControlGroup struct {
	SetID    string
	SetTitle string
	Controls []*model.SoAControl
}

// SoAControlInput carries the writable fields of an SoA control entry
type SoAControlInput struct {
	ControlStatus        types.ControlStatus
	ControlApplicability types.ControlApplicability
	Justification        []types.Justification
	RelatedRisks         []types.RiskID
}

// ListControls returns all SoA controls grouped by control set, preserving
// the sorted control order within each group.
func (uc *SoAUseCase) ListControls(ctx context.Context) ([]*ControlGroup, error) {
	controls, err := uc.repo.Control().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list controls")
	}

	var groups []*ControlGroup
	bySet := make(map[string]*ControlGroup)
	for _, control := range controls {
		group, ok := bySet[control.ControlSetID]
		if !ok {
			group = &ControlGroup{
				SetID:    control.ControlSetID,
				SetTitle: control.ControlSetTitle,
			}
			bySet[control.ControlSetID] = group
			groups = append(groups, group)
		}
		group.Controls = append(group.Controls, control)
	}

	return groups, nil
}

// GetControl retrieves a single SoA control
func (uc *SoAUseCase) GetControl(ctx context.Context, id types.ControlID) (*model.SoAControl, error) {
	control, err := uc.repo.Control().Get(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(ErrControlNotFound, "control not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get control", goerr.V("id", id))
	}
	return control, nil
}

// UpdateControl updates the assessment fields of an SoA control. Related
// risk references must point at existing risks.
func (uc *SoAUseCase) UpdateControl(ctx context.Context, id types.ControlID, input *SoAControlInput) (*model.SoAControl, error) {
	control, err := uc.GetControl(ctx, id)
	if err != nil {
		return nil, err
	}

	for _, riskID := range input.RelatedRisks {
		if _, err := uc.repo.Risk().Get(ctx, riskID); err != nil {
			if isNotFound(err) {
				return nil, goerr.Wrap(ErrRiskNotFound, "related risk not found",
					goerr.V("controlID", id), goerr.V("riskID", riskID))
			}
			return nil, goerr.Wrap(err, "failed to get related risk", goerr.V("riskID", riskID))
		}
	}

	control.ControlStatus = input.ControlStatus
	control.ControlApplicability = input.ControlApplicability
	control.Justification = input.Justification
	control.RelatedRisks = input.RelatedRisks
	if err := control.Validate(); err != nil {
		return nil, goerr.Wrap(ErrInvalidInput, err.Error())
	}

	updated, err := uc.repo.Control().Put(ctx, control)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update control", goerr.V("id", id))
	}
	return updated, nil
}

// SeedControls stores catalogue controls that are not yet present. Existing
// entries are left untouched so re-running the seed never clobbers
// assessments. Returns the number of newly created controls.
func (uc *SoAUseCase) SeedControls(ctx context.Context, controls []*model.SoAControl) (int, error) {
	created := 0
	for _, control := range controls {
		if _, err := uc.repo.Control().Get(ctx, control.ID); err == nil {
			continue
		} else if !isNotFound(err) {
			return created, goerr.Wrap(err, "failed to check control", goerr.V("id", control.ID))
		}

		if _, err := uc.repo.Control().Put(ctx, control); err != nil {
			return created, goerr.Wrap(err, "failed to seed control", goerr.V("id", control.ID))
		}
		created++
	}

	logging.From(ctx).Info("SoA controls seeded", "created", created, "total", len(controls))
	return created, nil
}

// ControlIssue is one defect found by ValidateControls.
type ControlIssue struct {
	ControlID types.ControlID
	Message   string
}

// ControlValidationResult reports stored-control consistency defects.
type ControlValidationResult struct {
	Checked int
	Issues  []*ControlIssue
}

func (r *ControlValidationResult) HasIssues() bool {
	return len(r.Issues) > 0
}

// ValidateControls checks every stored control against the catalogue and the
// risk register: structural validity, catalogue membership, and dangling
// related-risk references. It reports defects, it does not repair them.
func (uc *SoAUseCase) ValidateControls(ctx context.Context, catalogue []*model.SoAControl) (*ControlValidationResult, error) {
	controls, err := uc.repo.Control().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list controls")
	}
	riskIDs, err := uc.repo.Risk().ListIDs(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list risks")
	}

	known := make(map[types.ControlID]struct{}, len(catalogue))
	for _, c := range catalogue {
		known[c.ID] = struct{}{}
	}
	risks := make(map[types.RiskID]struct{}, len(riskIDs))
	for _, id := range riskIDs {
		risks[id] = struct{}{}
	}

	result := &ControlValidationResult{Checked: len(controls)}
	for _, control := range controls {
		if _, ok := known[control.ID]; !ok {
			result.Issues = append(result.Issues, &ControlIssue{
				ControlID: control.ID,
				Message:   "not an Annex A catalogue control",
			})
		}
		if err := control.Validate(); err != nil {
			result.Issues = append(result.Issues, &ControlIssue{
				ControlID: control.ID,
				Message:   err.Error(),
			})
		}
		for _, riskID := range control.RelatedRisks {
			if _, ok := risks[riskID]; !ok {
				result.Issues = append(result.Issues, &ControlIssue{
					ControlID: control.ID,
					Message:   "related risk " + string(riskID) + " does not exist",
				})
			}
		}
	}
	return result, nil
}

// MigrateLegacyControls upgrades legacy-shaped control documents and stores
// the canonical form. Returns the number of migrated controls.
func (uc *SoAUseCase) MigrateLegacyControls(ctx context.Context, docs []*model.LegacyControlDocument) (int, error) {
	migrated := 0
	for _, doc := range docs {
		control, err := doc.Upgrade()
		if err != nil {
			return migrated, goerr.Wrap(err, "failed to upgrade legacy control", goerr.V("id", doc.ID))
		}
		if _, err := uc.repo.Control().Put(ctx, control); err != nil {
			return migrated, goerr.Wrap(err, "failed to store migrated control", goerr.V("id", doc.ID))
		}
		migrated++
	}

	logging.From(ctx).Info("legacy SoA controls migrated", "count", migrated)
	return migrated, nil
}
