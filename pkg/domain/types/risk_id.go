package types

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// RiskID represents a human-readable risk identifier in the form RISK-<n>
type RiskID string

// FallbackRiskID is assigned when the existing ID set cannot be queried.
// The creation form requires a non-empty ID, so an error must never leave
// the field blank.
const FallbackRiskID RiskID = "RISK-001"

var riskIDPattern = regexp.MustCompile(`^(?i)RISK-(\d+)$`)

// ParseRiskID trims and canonicalizes a risk identifier. Input is matched
// case-insensitively; the canonical stored form is upper case. Any string
// not matching RISK-<digits> is rejected.
func ParseRiskID(s string) (RiskID, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", goerr.New("risk ID cannot be empty")
	}
	m := riskIDPattern.FindStringSubmatch(trimmed)
	if m == nil {
		return "", goerr.New("risk ID must match RISK-<number>", goerr.V("input", s))
	}
	return RiskID("RISK-" + m[1]), nil
}

// Validate checks if the RiskID is in canonical form
func (r RiskID) Validate() error {
	canonical, err := ParseRiskID(string(r))
	if err != nil {
		return err
	}
	if canonical != r {
		return goerr.New("risk ID is not canonical", goerr.V("id", r), goerr.V("canonical", canonical))
	}
	return nil
}

// Suffix returns the numeric suffix of the risk ID, or -1 if malformed
func (r RiskID) Suffix() int {
	m := riskIDPattern.FindStringSubmatch(string(r))
	if m == nil {
		return -1
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return -1
	}
	return n
}

// String returns the string representation of the RiskID
func (r RiskID) String() string {
	return string(r)
}

// NextRiskID returns the identifier following the highest numeric suffix in
// existing. Malformed entries are skipped. An empty set yields RISK-1; no
// zero padding is applied.
func NextRiskID(existing []RiskID) RiskID {
	max := 0
	for _, id := range existing {
		if n := id.Suffix(); n > max {
			max = n
		}
	}
	return RiskID(fmt.Sprintf("RISK-%d", max+1))
}
