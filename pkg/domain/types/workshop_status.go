package types

import "fmt"

// WorkshopStatus represents the status of a review workshop
type WorkshopStatus string

const (
	WorkshopPendingAgenda     WorkshopStatus = "Pending Agenda"
	WorkshopPlanned           WorkshopStatus = "Planned"
	WorkshopScheduled         WorkshopStatus = "Scheduled"
	WorkshopFinalisingMinutes WorkshopStatus = "Finalising Meeting Minutes"
	WorkshopCompleted         WorkshopStatus = "Completed"
)

// AllWorkshopStatuses returns all valid workshop statuses in progression order
func AllWorkshopStatuses() []WorkshopStatus {
	return []WorkshopStatus{
		WorkshopPendingAgenda,
		WorkshopPlanned,
		WorkshopScheduled,
		WorkshopFinalisingMinutes,
		WorkshopCompleted,
	}
}

// Order returns the position of the status in the natural progression,
// or -1 for an unknown status. Transitions are free-form; the order is
// used for sorting only.
func (s WorkshopStatus) Order() int {
	for i, v := range AllWorkshopStatuses() {
		if v == s {
			return i
		}
	}
	return -1
}

// IsValid checks if the workshop status is valid
func (s WorkshopStatus) IsValid() bool {
	return s.Order() >= 0
}

// Normalize returns the status, treating empty as WorkshopPendingAgenda.
func (s WorkshopStatus) Normalize() WorkshopStatus {
	if s == "" {
		return WorkshopPendingAgenda
	}
	return s
}

// String returns the string representation of the workshop status
func (s WorkshopStatus) String() string {
	return string(s)
}

// ParseWorkshopStatus parses a string into a WorkshopStatus
func ParseWorkshopStatus(s string) (WorkshopStatus, error) {
	status := WorkshopStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid workshop status: %s", s)
	}
	return status, nil
}
