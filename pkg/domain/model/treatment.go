package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

// Treatment represents a remediation action for a risk. It holds a weak
// back-reference to its risk; the risk does not own the treatment record.
type Treatment struct {
	ID     int64
	RiskID types.RiskID

	Title string
	Owner string

	DueDate         *time.Time
	ExtendedDueDate *time.Time
	ExtensionCount  int
	CompletionDate  *time.Time
	ClosureApproval types.ClosureApproval

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the treatment for structural validity
func (t *Treatment) Validate() error {
	if err := t.RiskID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid risk reference")
	}
	if t.Title == "" {
		return goerr.New("treatment title is required")
	}
	if !t.ClosureApproval.IsValid() {
		return goerr.New("invalid closure approval", goerr.V("closureApproval", t.ClosureApproval))
	}
	return nil
}

// EligibleForAgenda reports whether the treatment may be added to a workshop
// agenda. A treatment with approved closure is excluded.
func (t *Treatment) EligibleForAgenda() bool {
	return t.ClosureApproval != types.ClosureApproved
}

// EffectiveDueDate returns the extended due date when set, else the due date
func (t *Treatment) EffectiveDueDate() *time.Time {
	if t.ExtendedDueDate != nil {
		return t.ExtendedDueDate
	}
	return t.DueDate
}

// Extend records a new extended due date and increments the extension count
func (t *Treatment) Extend(newDue time.Time) {
	t.ExtendedDueDate = &newDue
	t.ExtensionCount++
}
