package poker

// HoleCategory is a coarse preflop strength class for two hole cards.
type HoleCategory uint8

const (
	HoleTrash HoleCategory = iota
	HoleWeak
	HoleMedium
	HoleStrong
	HolePremium
)

func (c HoleCategory) String() string {
	switch c {
	case HolePremium:
		return "Premium"
	case HoleStrong:
		return "Strong"
	case HoleMedium:
		return "Medium"
	case HoleWeak:
		return "Weak"
	default:
		return "Trash"
	}
}

// CategorizeHole classifies a starting hand.
// Premium: JJ+, AK. Strong: TT, AQ, AJ. Medium: 77-99, suited broadway.
// Weak: 22-66, suited connectors and one-gappers. Trash: everything else.
func CategorizeHole(a, b Card) HoleCategory {
	hi, lo := a.Rank, b.Rank
	if lo > hi {
		hi, lo = lo, hi
	}
	pair := hi == lo
	suited := a.Suit == b.Suit

	switch {
	case pair && lo >= Jack, hi == Ace && lo == King:
		return HolePremium
	case pair && lo == Ten, hi == Ace && (lo == Queen || lo == Jack):
		return HoleStrong
	case pair && lo >= Seven, suited && lo >= Ten:
		return HoleMedium
	case pair, suited && hi-lo <= 2:
		return HoleWeak
	}
	return HoleTrash
}
