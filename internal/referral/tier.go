package referral

// Tier is a referral complexity class.
type Tier string

const (
	Easy     Tier = "easy"
	Moderate Tier = "moderate"
	Complex  Tier = "complex"
)

// Tiers lists every tier in display order.
var Tiers = []Tier{Easy, Moderate, Complex}

// Label returns the display name of t.
func (t Tier) Label() string {
	switch t {
	case Easy:
		return "Easy"
	case Moderate:
		return "Moderate"
	case Complex:
		return "Complex"
	}
	return string(t)
}

// ByTier holds one value per complexity tier.
type ByTier struct {
	Easy     float64 `json:"easy"`
	Moderate float64 `json:"moderate"`
	Complex  float64 `json:"complex"`
}

// Get returns the value for t.
func (b ByTier) Get(t Tier) float64 {
	switch t {
	case Easy:
		return b.Easy
	case Moderate:
		return b.Moderate
	case Complex:
		return b.Complex
	}
	return 0
}

// Sum adds the three tier values.
func (b ByTier) Sum() float64 {
	return b.Easy + b.Moderate + b.Complex
}

func eachTier(f func(Tier) float64) ByTier {
	return ByTier{
		Easy:     f(Easy),
		Moderate: f(Moderate),
		Complex:  f(Complex),
	}
}
