package types

import "fmt"

// Likelihood represents the ordinal likelihood scale of a risk
type Likelihood string

const (
	LikelihoodRare          Likelihood = "Rare"
	LikelihoodUnlikely      Likelihood = "Unlikely"
	LikelihoodPossible      Likelihood = "Possible"
	LikelihoodLikely        Likelihood = "Likely"
	LikelihoodAlmostCertain Likelihood = "Almost Certain"
)

// AllLikelihoods returns the likelihood scale in ascending order
func AllLikelihoods() []Likelihood {
	return []Likelihood{
		LikelihoodRare,
		LikelihoodUnlikely,
		LikelihoodPossible,
		LikelihoodLikely,
		LikelihoodAlmostCertain,
	}
}

// Index returns the ordinal position of the likelihood on the scale,
// or -1 if the value is not part of the scale.
func (l Likelihood) Index() int {
	for i, v := range AllLikelihoods() {
		if v == l {
			return i
		}
	}
	return -1
}

// IsValid checks if the likelihood is part of the scale
func (l Likelihood) IsValid() bool {
	return l.Index() >= 0
}

// String returns the string representation of the likelihood
func (l Likelihood) String() string {
	return string(l)
}

// ParseLikelihood parses a string into a Likelihood
func ParseLikelihood(s string) (Likelihood, error) {
	l := Likelihood(s)
	if !l.IsValid() {
		return "", fmt.Errorf("invalid likelihood: %s", s)
	}
	return l, nil
}
