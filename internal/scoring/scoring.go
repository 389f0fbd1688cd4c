// Package scoring derives a single number from a rating's two scores and
// two flags. The computation is pure; callers decide what to do with
// records that have no computable score.
package scoring

// Weight constants for the two blending modes. Exported so tests can
// assert against the same values the engine uses.
const (
	// WeightEven applies when the ambiguous flag is off.
	WeightEven = 0.5
	// WeightAmbiguousA and WeightAmbiguousB apply when the ambiguous
	// flag is on, shifting weight toward the second score.
	WeightAmbiguousA = 0.35
	WeightAmbiguousB = 0.65
)

// Compute returns the blended score and true, or 0 and false when no
// score can be derived: the special flag excludes the record outright,
// and both scores must be present.
func Compute(scoreA, scoreB *int, special, ambiguous bool) (float64, bool) {
	if special {
		return 0, false
	}
	if scoreA == nil || scoreB == nil {
		return 0, false
	}
	a, b := float64(*scoreA), float64(*scoreB)
	if ambiguous {
		return WeightAmbiguousA*a + WeightAmbiguousB*b, true
	}
	return WeightEven*a + WeightEven*b, true
}
