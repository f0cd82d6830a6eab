package model_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

func TestTreatment_EligibleForAgenda(t *testing.T) {
	tests := []struct {
		name     string
		approval types.ClosureApproval
		want     bool
	}{
		{name: "approved closure excluded", approval: types.ClosureApproved, want: false},
		{name: "pending closure allowed", approval: types.ClosurePending, want: true},
		{name: "rejected closure allowed", approval: types.ClosureRejected, want: true},
		{name: "unset allowed", approval: types.ClosureUnset, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &model.Treatment{RiskID: "RISK-1", Title: "Patch rollout", ClosureApproval: tt.approval}
			gt.Equal(t, tr.EligibleForAgenda(), tt.want)
		})
	}
}

func TestTreatment_Extend(t *testing.T) {
	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	tr := &model.Treatment{RiskID: "RISK-1", Title: "Patch rollout", DueDate: &due}

	gt.Equal(t, *tr.EffectiveDueDate(), due)

	extended := due.AddDate(0, 1, 0)
	tr.Extend(extended)
	gt.Equal(t, tr.ExtensionCount, 1)
	gt.Equal(t, *tr.EffectiveDueDate(), extended)

	again := extended.AddDate(0, 1, 0)
	tr.Extend(again)
	gt.Equal(t, tr.ExtensionCount, 2)
	gt.Equal(t, *tr.EffectiveDueDate(), again)
}

func TestTreatment_Validate(t *testing.T) {
	tr := &model.Treatment{RiskID: "RISK-1", Title: "Patch rollout"}
	gt.NoError(t, tr.Validate())

	tr.Title = ""
	gt.Error(t, tr.Validate())

	tr.Title = "Patch rollout"
	tr.ClosureApproval = "Maybe"
	gt.Error(t, tr.Validate())
}
