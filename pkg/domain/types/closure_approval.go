package types

import "fmt"

// ClosureApproval represents the closure approval state of a treatment
type ClosureApproval string

const (
	ClosureApproved ClosureApproval = "Approved"
	ClosurePending  ClosureApproval = "Pending"
	ClosureRejected ClosureApproval = "Rejected"
	// ClosureUnset is the state before any closure request has been made
	ClosureUnset ClosureApproval = ""
)

// AllClosureApprovals returns all valid closure approval states, excluding unset
func AllClosureApprovals() []ClosureApproval {
	return []ClosureApproval{
		ClosureApproved,
		ClosurePending,
		ClosureRejected,
	}
}

// IsValid checks if the closure approval state is valid. Unset is valid.
func (c ClosureApproval) IsValid() bool {
	switch c {
	case ClosureApproved, ClosurePending, ClosureRejected, ClosureUnset:
		return true
	default:
		return false
	}
}

// String returns the string representation of the closure approval state
func (c ClosureApproval) String() string {
	return string(c)
}

// ParseClosureApproval parses a string into a ClosureApproval
func ParseClosureApproval(s string) (ClosureApproval, error) {
	c := ClosureApproval(s)
	if !c.IsValid() {
		return "", fmt.Errorf("invalid closure approval: %s", s)
	}
	return c, nil
}
