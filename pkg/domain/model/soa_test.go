package model_test

import (
	"encoding/json"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

func TestLegacyControlDocument_Upgrade(t *testing.T) {
	t.Run("legacy status key and scalar justification", func(t *testing.T) {
		doc := &model.LegacyControlDocument{
			ID:              "A.5.7",
			Title:           "Threat intelligence",
			ControlSetID:    "A.5",
			ControlSetTitle: "Organisational controls",
			Status:          "Planned",
			Applicability:   "Applicable",
			Justification:   json.RawMessage(`"Best Practice"`),
			RelatedRisks:    []string{"risk-4"},
		}

		control := gt.R1(doc.Upgrade()).NoError(t)
		gt.Equal(t, control.ControlStatus, types.ControlPlanningImplementation)
		gt.Equal(t, control.Justification, []types.Justification{types.JustificationBestPractice})
		gt.Equal(t, control.RelatedRisks, []types.RiskID{"RISK-4"})
	})

	t.Run("current shape passes through", func(t *testing.T) {
		doc := &model.LegacyControlDocument{
			ID:              "A.8.26",
			Title:           "Application security requirements",
			ControlSetID:    "A.8",
			ControlSetTitle: "Technological controls",
			ControlStatus:   "Implemented",
			Applicability:   "Applicable",
			Justification:   json.RawMessage(`["Legal Requirement","Business Requirement"]`),
		}

		control := gt.R1(doc.Upgrade()).NoError(t)
		gt.Equal(t, control.ControlStatus, types.ControlImplemented)
		gt.Array(t, control.Justification).Length(2)
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		doc := &model.LegacyControlDocument{
			ID:            "A.5.1",
			Title:         "Policies for information security",
			ControlSetID:  "A.5",
			Status:        "Done",
			Applicability: "Applicable",
			Justification: json.RawMessage(`["Best Practice"]`),
		}
		gt.R1(doc.Upgrade()).Error(t)
	})

	t.Run("applicable control requires justification", func(t *testing.T) {
		doc := &model.LegacyControlDocument{
			ID:            "A.5.1",
			Title:         "Policies for information security",
			ControlSetID:  "A.5",
			ControlStatus: "Implemented",
			Applicability: "Applicable",
		}
		gt.R1(doc.Upgrade()).Error(t)
	})

	t.Run("not applicable control needs no justification", func(t *testing.T) {
		doc := &model.LegacyControlDocument{
			ID:            "A.7.4",
			Title:         "Physical security monitoring",
			ControlSetID:  "A.7",
			ControlStatus: "Planning Implementation",
			Applicability: "Not Applicable",
		}
		gt.R1(doc.Upgrade()).NoError(t)
	})
}

func TestSoAControl_Validate(t *testing.T) {
	control := &model.SoAControl{
		ID:                   "A.5.7",
		Title:                "Threat intelligence",
		ControlSetID:         "A.5",
		ControlSetTitle:      "Organisational controls",
		ControlStatus:        types.ControlImplemented,
		ControlApplicability: types.ControlApplicable,
		Justification:        []types.Justification{types.JustificationRiskManagement},
	}
	gt.NoError(t, control.Validate())

	control.Justification = nil
	gt.Error(t, control.Validate())
}
