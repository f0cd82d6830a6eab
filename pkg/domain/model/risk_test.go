package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

func validRisk() *model.Risk {
	r := &model.Risk{
		ID:                "RISK-1",
		Title:             "Unpatched internet-facing servers",
		Phase:             types.PhaseDraft,
		Impact:            model.CIAImpact{Confidentiality: true},
		LikelihoodRating:  types.LikelihoodLikely,
		ConsequenceRating: types.ConsequenceMajor,
	}
	r.ApplyRatings()
	return r
}

func TestRisk_ApplyRatings(t *testing.T) {
	t.Run("derives current rating from matrix", func(t *testing.T) {
		r := validRisk()
		gt.Equal(t, r.RiskRating, types.RatingExtreme)
	})

	t.Run("residual pair is independent of current pair", func(t *testing.T) {
		r := validRisk()
		r.ResidualLikelihood = types.LikelihoodRare
		r.ResidualConsequence = types.ConsequenceMinor
		r.ApplyRatings()
		gt.Equal(t, r.RiskRating, types.RatingExtreme)
		gt.Equal(t, r.ResidualRiskRating, types.RatingLow)
	})

	t.Run("unset pair clears rating instead of defaulting", func(t *testing.T) {
		r := validRisk()
		r.LikelihoodRating = ""
		r.ConsequenceRating = ""
		r.ApplyRatings()
		gt.Equal(t, r.RiskRating, types.RiskRating(""))
	})

	t.Run("changing an input changes the derived rating", func(t *testing.T) {
		r := validRisk()
		r.ConsequenceRating = types.ConsequenceInsignificant
		r.ApplyRatings()
		gt.Equal(t, r.RiskRating, types.RatingModerate)
	})
}

func TestRisk_Validate(t *testing.T) {
	t.Run("valid risk passes", func(t *testing.T) {
		gt.NoError(t, validRisk().Validate())
	})

	t.Run("stale derived rating is a defect", func(t *testing.T) {
		r := validRisk()
		r.RiskRating = types.RatingLow // no longer matches Likely x Major
		gt.Error(t, r.Validate())
	})

	t.Run("rating without inputs is a defect", func(t *testing.T) {
		r := validRisk()
		r.LikelihoodRating = ""
		r.ConsequenceRating = ""
		gt.Error(t, r.Validate())
	})

	t.Run("unrecognized likelihood is rejected, not defaulted", func(t *testing.T) {
		r := validRisk()
		r.LikelihoodRating = "Sometimes"
		gt.Error(t, r.Validate())
	})

	t.Run("missing CIA impact", func(t *testing.T) {
		r := validRisk()
		r.Impact = model.CIAImpact{}
		gt.Error(t, r.Validate())
	})

	t.Run("malformed control reference", func(t *testing.T) {
		r := validRisk()
		r.CurrentControlsReference = []types.ControlID{"5.7"}
		gt.Error(t, r.Validate())
	})

	t.Run("missing title", func(t *testing.T) {
		r := validRisk()
		r.Title = ""
		gt.Error(t, r.Validate())
	})
}

func TestAssetSelectionChanged(t *testing.T) {
	tests := []struct {
		name     string
		original []string
		updated  []string
		want     bool
	}{
		{
			name:     "identical lists",
			original: []string{"a1", "a2"},
			updated:  []string{"a1", "a2"},
			want:     false,
		},
		{
			name:     "reordered lists are equal as sets",
			original: []string{"a2", "a1"},
			updated:  []string{"a1", "a2"},
			want:     false,
		},
		{
			name:     "added entry",
			original: []string{"a1"},
			updated:  []string{"a1", "a2"},
			want:     true,
		},
		{
			name:     "removed entry",
			original: []string{"a1", "a2"},
			updated:  []string{"a1"},
			want:     true,
		},
		{
			name:     "swapped entry",
			original: []string{"a1", "a2"},
			updated:  []string{"a1", "a3"},
			want:     true,
		},
		{
			name:     "both empty",
			original: nil,
			updated:  nil,
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Equal(t, model.AssetSelectionChanged(tt.original, tt.updated), tt.want)
		})
	}
}
