package types

import "fmt"

// Consequence represents the ordinal consequence scale of a risk
type Consequence string

const (
	ConsequenceInsignificant Consequence = "Insignificant"
	ConsequenceMinor         Consequence = "Minor"
	ConsequenceModerate      Consequence = "Moderate"
	ConsequenceMajor         Consequence = "Major"
	ConsequenceCritical      Consequence = "Critical"
)

// AllConsequences returns the consequence scale in ascending order
func AllConsequences() []Consequence {
	return []Consequence{
		ConsequenceInsignificant,
		ConsequenceMinor,
		ConsequenceModerate,
		ConsequenceMajor,
		ConsequenceCritical,
	}
}

// Index returns the ordinal position of the consequence on the scale,
// or -1 if the value is not part of the scale.
func (c Consequence) Index() int {
	for i, v := range AllConsequences() {
		if v == c {
			return i
		}
	}
	return -1
}

// IsValid checks if the consequence is part of the scale
func (c Consequence) IsValid() bool {
	return c.Index() >= 0
}

// String returns the string representation of the consequence
func (c Consequence) String() string {
	return string(c)
}

// ParseConsequence parses a string into a Consequence
func ParseConsequence(s string) (Consequence, error) {
	c := Consequence(s)
	if !c.IsValid() {
		return "", fmt.Errorf("invalid consequence: %s", s)
	}
	return c, nil
}
