package types

import (
	"fmt"
	"regexp"

	"github.com/m-mizutani/goerr/v2"
)

// ControlID represents an ISO/IEC 27001:2022 Annex A control identifier,
// e.g. A.5.7 or A.8.26
type ControlID string

var controlIDPattern = regexp.MustCompile(`^A\.\d+\.\d+$`)

// Validate checks if the ControlID matches the Annex A numbering scheme
func (c ControlID) Validate() error {
	if c == "" {
		return goerr.New("control ID cannot be empty")
	}
	if !controlIDPattern.MatchString(string(c)) {
		return goerr.New("control ID must match A.<section>.<number>", goerr.V("id", c))
	}
	return nil
}

// String returns the string representation of the ControlID
func (c ControlID) String() string {
	return string(c)
}

// ControlStatus represents the implementation status of an SoA control
type ControlStatus string

const (
	ControlImplemented            ControlStatus = "Implemented"
	ControlPartiallyImplemented   ControlStatus = "Partially Implemented"
	ControlPlanningImplementation ControlStatus = "Planning Implementation"
)

// AllControlStatuses returns all valid control statuses
func AllControlStatuses() []ControlStatus {
	return []ControlStatus{
		ControlImplemented,
		ControlPartiallyImplemented,
		ControlPlanningImplementation,
	}
}

// IsValid checks if the control status is valid
func (s ControlStatus) IsValid() bool {
	switch s {
	case ControlImplemented, ControlPartiallyImplemented, ControlPlanningImplementation:
		return true
	default:
		return false
	}
}

// String returns the string representation of the control status
func (s ControlStatus) String() string {
	return string(s)
}

// ParseControlStatus parses a string into a ControlStatus. The legacy value
// "Planned" is upgraded to ControlPlanningImplementation.
func ParseControlStatus(s string) (ControlStatus, error) {
	if s == "Planned" {
		return ControlPlanningImplementation, nil
	}
	status := ControlStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid control status: %s", s)
	}
	return status, nil
}

// ControlApplicability represents whether an SoA control applies to the organisation
type ControlApplicability string

const (
	ControlApplicable    ControlApplicability = "Applicable"
	ControlNotApplicable ControlApplicability = "Not Applicable"
)

// AllControlApplicabilities returns all valid applicability values
func AllControlApplicabilities() []ControlApplicability {
	return []ControlApplicability{
		ControlApplicable,
		ControlNotApplicable,
	}
}

// IsValid checks if the applicability value is valid
func (a ControlApplicability) IsValid() bool {
	switch a {
	case ControlApplicable, ControlNotApplicable:
		return true
	default:
		return false
	}
}

// String returns the string representation of the applicability
func (a ControlApplicability) String() string {
	return string(a)
}

// ParseControlApplicability parses a string into a ControlApplicability
func ParseControlApplicability(s string) (ControlApplicability, error) {
	a := ControlApplicability(s)
	if !a.IsValid() {
		return "", fmt.Errorf("invalid control applicability: %s", s)
	}
	return a, nil
}

// Justification represents a reason for including a control in the SoA
type Justification string

const (
	JustificationBestPractice        Justification = "Best Practice"
	JustificationLegal               Justification = "Legal Requirement"
	JustificationRegulatory          Justification = "Regulatory Requirement"
	JustificationBusiness            Justification = "Business Requirement"
	JustificationRiskManagement      Justification = "Risk Management Requirement"
)

// AllJustifications returns all valid justification values
func AllJustifications() []Justification {
	return []Justification{
		JustificationBestPractice,
		JustificationLegal,
		JustificationRegulatory,
		JustificationBusiness,
		JustificationRiskManagement,
	}
}

// IsValid checks if the justification is valid
func (j Justification) IsValid() bool {
	switch j {
	case JustificationBestPractice, JustificationLegal, JustificationRegulatory,
		JustificationBusiness, JustificationRiskManagement:
		return true
	default:
		return false
	}
}

// String returns the string representation of the justification
func (j Justification) String() string {
	return string(j)
}

// ValidateJustifications checks a multi-select justification list: it must be
// non-empty and every entry must be a recognized value.
func ValidateJustifications(justifications []Justification) error {
	if len(justifications) == 0 {
		return goerr.New("at least one justification is required")
	}
	for _, j := range justifications {
		if !j.IsValid() {
			return goerr.New("invalid justification", goerr.V("justification", j))
		}
	}
	return nil
}
