package model

import (
	"sort"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

// CIAImpact records which security properties a risk affects. At least one
// must be selected at creation time.
type CIAImpact struct {
	Confidentiality bool
	Integrity       bool
	Availability    bool
}

// Any reports whether at least one property is selected
func (c CIAImpact) Any() bool {
	return c.Confidentiality || c.Integrity || c.Availability
}

// Risk represents a tracked security risk on the register.
//
// RiskRating and ResidualRiskRating are derived fields: they must always
// equal the matrix cell for their input pair. Mutations go through
// ApplyRatings so a save can never persist a stale rating.
type Risk struct {
	ID          types.RiskID
	Title       string
	Description string
	Owner       string
	Phase       types.RiskPhase
	Impact      CIAImpact

	LikelihoodRating  types.Likelihood
	ConsequenceRating types.Consequence
	RiskRating        types.RiskRating

	ResidualLikelihood  types.Likelihood
	ResidualConsequence types.Consequence
	ResidualRiskRating  types.RiskRating

	// CurrentControls is free-text; the reference lists hold SoA control IDs.
	// The three lists are maintained independently.
	CurrentControls                  []string
	CurrentControlsReference         []types.ControlID
	ApplicableControlsAfterTreatment []types.ControlID

	InformationAssetIDs []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ApplyRatings recomputes both derived ratings from their input pairs.
// An unset pair (both values empty) clears the rating rather than
// defaulting it, so unrated risks render as unrated.
func (r *Risk) ApplyRatings() {
	r.RiskRating = deriveRating(r.LikelihoodRating, r.ConsequenceRating)
	r.ResidualRiskRating = deriveRating(r.ResidualLikelihood, r.ResidualConsequence)
}

func deriveRating(l types.Likelihood, c types.Consequence) types.RiskRating {
	if l == "" && c == "" {
		return ""
	}
	return types.CalculateRiskRating(l, c)
}

// Validate checks the risk for structural validity. Rating inputs, when set,
// must be drawn from the recognized scales; derivation is checked against
// the matrix so an inconsistent stored rating is rejected as a defect.
func (r *Risk) Validate() error {
	if err := r.ID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid risk ID")
	}
	if r.Title == "" {
		return goerr.New("risk title is required")
	}
	if !r.Impact.Any() {
		return goerr.New("at least one CIA impact must be selected")
	}
	if !r.Phase.Normalize().IsValid() {
		return goerr.New("invalid risk phase", goerr.V("phase", r.Phase))
	}
	if err := validateRatingPair(r.LikelihoodRating, r.ConsequenceRating, r.RiskRating); err != nil {
		return goerr.Wrap(err, "invalid current risk rating")
	}
	if err := validateRatingPair(r.ResidualLikelihood, r.ResidualConsequence, r.ResidualRiskRating); err != nil {
		return goerr.Wrap(err, "invalid residual risk rating")
	}
	for _, id := range r.CurrentControlsReference {
		if err := id.Validate(); err != nil {
			return goerr.Wrap(err, "invalid current control reference")
		}
	}
	for _, id := range r.ApplicableControlsAfterTreatment {
		if err := id.Validate(); err != nil {
			return goerr.Wrap(err, "invalid post-treatment control reference")
		}
	}
	return nil
}

func validateRatingPair(l types.Likelihood, c types.Consequence, rating types.RiskRating) error {
	if l == "" && c == "" {
		if rating != "" {
			return goerr.New("rating set without inputs", goerr.V("rating", rating))
		}
		return nil
	}
	if !l.IsValid() {
		return goerr.New("unrecognized likelihood", goerr.V("likelihood", l))
	}
	if !c.IsValid() {
		return goerr.New("unrecognized consequence", goerr.V("consequence", c))
	}
	if derived := types.CalculateRiskRating(l, c); rating != derived {
		return goerr.New("stale derived rating",
			goerr.V("stored", rating), goerr.V("derived", derived))
	}
	return nil
}

// AssetSelectionChanged reports whether two information-asset selections
// differ as sets. Order is irrelevant; duplicate entries are not expected
// but are compared positionally after sorting.
func AssetSelectionChanged(original, updated []string) bool {
	if len(original) != len(updated) {
		return true
	}
	a := append([]string(nil), original...)
	b := append([]string(nil), updated...)
	sort.Strings(a)
	sort.Strings(b)
	for i := range a {
		if a[i] != b[i] {
			return true
		}
	}
	return false
}
