package types

import "fmt"

// MinuteCategory represents the agenda category a workshop minute item is
// filed under. A risk+treatment selection is assigned to exactly one
// category at add time.
type MinuteCategory string

const (
	MinuteExtensions MinuteCategory = "extensions"
	MinuteClosure    MinuteCategory = "closure"
	MinuteNewRisks   MinuteCategory = "newRisks"
)

// AllMinuteCategories returns all valid minute categories
func AllMinuteCategories() []MinuteCategory {
	return []MinuteCategory{
		MinuteExtensions,
		MinuteClosure,
		MinuteNewRisks,
	}
}

// IsValid checks if the minute category is valid
func (c MinuteCategory) IsValid() bool {
	switch c {
	case MinuteExtensions, MinuteClosure, MinuteNewRisks:
		return true
	default:
		return false
	}
}

// String returns the string representation of the minute category
func (c MinuteCategory) String() string {
	return string(c)
}

// ParseMinuteCategory parses a string into a MinuteCategory
func ParseMinuteCategory(s string) (MinuteCategory, error) {
	c := MinuteCategory(s)
	if !c.IsValid() {
		return "", fmt.Errorf("invalid minute category: %s", s)
	}
	return c, nil
}
