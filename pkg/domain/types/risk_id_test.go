package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

func TestParseRiskID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    types.RiskID
		wantErr bool
	}{
		{
			name:  "canonical form",
			input: "RISK-42",
			want:  "RISK-42",
		},
		{
			name:  "lower case input",
			input: "risk-12",
			want:  "RISK-12",
		},
		{
			name:  "mixed case input",
			input: "Risk-7",
			want:  "RISK-7",
		},
		{
			name:  "surrounding whitespace",
			input: "  RISK-003  ",
			want:  "RISK-003",
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: true,
		},
		{
			name:    "whitespace only",
			input:   "   ",
			wantErr: true,
		},
		{
			name:    "prefix only",
			input:   "RISK",
			wantErr: true,
		},
		{
			name:    "dangling hyphen",
			input:   "RISK-",
			wantErr: true,
		},
		{
			name:    "trailing letters",
			input:   "risk-12a",
			wantErr: true,
		},
		{
			name:    "path injection",
			input:   "RISK-1/../../admin",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := types.ParseRiskID(tt.input)
			if tt.wantErr {
				gt.Error(t, err)
				return
			}
			gt.NoError(t, err)
			gt.Equal(t, got, tt.want)
		})
	}
}

func TestNextRiskID(t *testing.T) {
	tests := []struct {
		name     string
		existing []types.RiskID
		want     types.RiskID
	}{
		{
			name:     "empty set",
			existing: nil,
			want:     "RISK-1",
		},
		{
			name:     "sequential set",
			existing: []types.RiskID{"RISK-1", "RISK-2", "RISK-3"},
			want:     "RISK-4",
		},
		{
			name:     "gaps do not get reused",
			existing: []types.RiskID{"RISK-1", "RISK-9"},
			want:     "RISK-10",
		},
		{
			name:     "zero padded suffixes",
			existing: []types.RiskID{"RISK-001", "RISK-007"},
			want:     "RISK-8",
		},
		{
			name:     "malformed entries skipped",
			existing: []types.RiskID{"RISK-5", "garbage", "RISK-"},
			want:     "RISK-6",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Equal(t, types.NextRiskID(tt.existing), tt.want)
		})
	}
}

func TestRiskID_Suffix(t *testing.T) {
	gt.Equal(t, types.RiskID("RISK-120").Suffix(), 120)
	gt.Equal(t, types.RiskID("RISK-007").Suffix(), 7)
	gt.Equal(t, types.RiskID("nope").Suffix(), -1)
}
