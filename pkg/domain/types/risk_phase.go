package types

import "fmt"

// RiskPhase represents the lifecycle phase of a risk
type RiskPhase string

const (
	PhaseDraft      RiskPhase = "Draft"
	PhaseIdentified RiskPhase = "Identified"
	PhaseAnalysed   RiskPhase = "Analysed"
	PhaseTreated    RiskPhase = "Treated"
	PhaseMonitored  RiskPhase = "Monitored"
)

// AllRiskPhases returns all valid risk phases
func AllRiskPhases() []RiskPhase {
	return []RiskPhase{
		PhaseDraft,
		PhaseIdentified,
		PhaseAnalysed,
		PhaseTreated,
		PhaseMonitored,
	}
}

// IsValid checks if the risk phase is valid
func (p RiskPhase) IsValid() bool {
	switch p {
	case PhaseDraft, PhaseIdentified, PhaseAnalysed, PhaseTreated, PhaseMonitored:
		return true
	default:
		return false
	}
}

// Normalize returns the phase, treating empty as PhaseDraft for newly created risks.
func (p RiskPhase) Normalize() RiskPhase {
	if p == "" {
		return PhaseDraft
	}
	return p
}

// String returns the string representation of the risk phase
func (p RiskPhase) String() string {
	return string(p)
}

// ParseRiskPhase parses a string into a RiskPhase
func ParseRiskPhase(s string) (RiskPhase, error) {
	p := RiskPhase(s)
	if !p.IsValid() {
		return "", fmt.Errorf("invalid risk phase: %s", s)
	}
	return p, nil
}
