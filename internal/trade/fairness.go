package trade

// Fairness classifies a proposal's value ratio.
type Fairness uint8

const (
	VeryFair Fairness = iota
	Fair
	SlightlyUnfair
	VeryUnfair
)

// ClassifyRatio maps a value ratio to its fairness band. The very-fair band
// is inclusive on both edges; the outer bands are exclusive.
func ClassifyRatio(r float64) Fairness {
	switch {
	case r >= 0.95 && r <= 1.05:
		return VeryFair
	case r > 0.80 && r < 1.20:
		return Fair
	case r > 0.70 && r < 1.30:
		return SlightlyUnfair
	default:
		return VeryUnfair
	}
}

// Acceptable reports whether the band is close enough to even that a
// neutral observer would sign off.
func (f Fairness) Acceptable() bool {
	return f == VeryFair || f == Fair
}

func (f Fairness) String() string {
	switch f {
	case VeryFair:
		return "very_fair"
	case Fair:
		return "fair"
	case SlightlyUnfair:
		return "slightly_unfair"
	default:
		return "very_unfair"
	}
}
