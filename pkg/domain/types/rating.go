package types

// RiskRating represents the qualitative rating derived from likelihood and consequence
type RiskRating string

const (
	RatingLow      RiskRating = "Low"
	RatingModerate RiskRating = "Moderate"
	RatingHigh     RiskRating = "High"
	RatingExtreme  RiskRating = "Extreme"
)

// AllRiskRatings returns all valid risk ratings in ascending order
func AllRiskRatings() []RiskRating {
	return []RiskRating{
		RatingLow,
		RatingModerate,
		RatingHigh,
		RatingExtreme,
	}
}

// IsValid checks if the risk rating is valid
func (r RiskRating) IsValid() bool {
	switch r {
	case RatingLow, RatingModerate, RatingHigh, RatingExtreme:
		return true
	default:
		return false
	}
}

// String returns the string representation of the risk rating
func (r RiskRating) String() string {
	return string(r)
}

// ratingMatrix is indexed by [likelihood][consequence], both ascending:
// rows run Rare through Almost Certain, columns Insignificant through Critical.
var ratingMatrix = [5][5]RiskRating{
	{RatingLow, RatingLow, RatingModerate, RatingHigh, RatingHigh},
	{RatingLow, RatingLow, RatingModerate, RatingHigh, RatingExtreme},
	{RatingLow, RatingModerate, RatingHigh, RatingExtreme, RatingExtreme},
	{RatingModerate, RatingModerate, RatingHigh, RatingExtreme, RatingExtreme},
	{RatingModerate, RatingHigh, RatingExtreme, RatingExtreme, RatingExtreme},
}

// CalculateRiskRating derives the qualitative rating for a likelihood and
// consequence pair. Values outside the recognized scales yield RatingLow;
// callers that need to distinguish unset inputs must check before calling.
// The same derivation applies to current and residual risk.
func CalculateRiskRating(likelihood Likelihood, consequence Consequence) RiskRating {
	li := likelihood.Index()
	ci := consequence.Index()
	if li < 0 || ci < 0 {
		return RatingLow
	}
	return ratingMatrix[li][ci]
}
