package mitre

import (
	"context"
	"time"

	"github.com/secmon-lab/themis/pkg/domain/model"
)

// Source labels reported to clients alongside technique data
const (
	SourceRemote        = "MITRE ATTACK STIX Feed"
	SourceFallback      = "Sample Data (Fallback)"
	SourceErrorFallback = "Sample Data (Error Fallback)"
)

// Result is a set of techniques together with where they came from. Note is
// set only when the remote feed was substituted with sample data.
type Result struct {
	Techniques []*model.Technique
	Source     string
	Note       string
	FetchedAt  time.Time
}

// Service provides MITRE ATT&CK technique data. FetchTechniques never fails
// once reachable: remote-feed problems degrade to the built-in sample set.
type Service interface {
	FetchTechniques(ctx context.Context) (*Result, error)
}

// stixBundle is the subset of a STIX 2.1 bundle we read
type stixBundle struct {
	Type    string       `json:"type"`
	Objects []stixObject `json:"objects"`
}

type stixObject struct {
	Type               string                  `json:"type"`
	ID                 string                  `json:"id"`
	Name               string                  `json:"name"`
	Description        string                  `json:"description"`
	Revoked            bool                    `json:"revoked"`
	Deprecated         bool                    `json:"x_mitre_deprecated"`
	ExternalReferences []stixExternalReference `json:"external_references"`
	KillChainPhases    []stixKillChainPhase    `json:"kill_chain_phases"`
}

type stixExternalReference struct {
	SourceName string `json:"source_name"`
	ExternalID string `json:"external_id"`
	URL        string `json:"url"`
}

type stixKillChainPhase struct {
	KillChainName string `json:"kill_chain_name"`
	PhaseName     string `json:"phase_name"`
}
