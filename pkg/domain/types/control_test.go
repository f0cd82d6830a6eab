package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

func TestControlID_Validate(t *testing.T) {
	tests := []struct {
		name    string
		id      types.ControlID
		wantErr bool
	}{
		{name: "organisational control", id: "A.5.7"},
		{name: "technological control", id: "A.8.26"},
		{name: "empty", id: "", wantErr: true},
		{name: "missing section", id: "A.5", wantErr: true},
		{name: "wrong prefix", id: "B.5.7", wantErr: true},
		{name: "lowercase prefix", id: "a.5.7", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.id.Validate()
			if tt.wantErr {
				gt.Error(t, err)
			} else {
				gt.NoError(t, err)
			}
		})
	}
}

func TestParseControlStatus(t *testing.T) {
	got, err := types.ParseControlStatus("Planned")
	gt.NoError(t, err)
	gt.Equal(t, got, types.ControlPlanningImplementation)

	got, err = types.ParseControlStatus("Implemented")
	gt.NoError(t, err)
	gt.Equal(t, got, types.ControlImplemented)

	_, err = types.ParseControlStatus("Done")
	gt.Error(t, err)
}

func TestValidateJustifications(t *testing.T) {
	gt.NoError(t, types.ValidateJustifications([]types.Justification{
		types.JustificationBestPractice,
		types.JustificationLegal,
	}))
	gt.Error(t, types.ValidateJustifications(nil))
	gt.Error(t, types.ValidateJustifications([]types.Justification{"Vibes"}))
}
