// Package points computes the badge tier a citizen holds for a given
// cumulative point total.
//
// Badge is a derived view: it must be recomputed whenever points change and
// is never stored or ranked independently of the points field.
package points

// Badge tiers, lowest to highest.
const (
	BadgeCitizen  = "citizen"
	BadgeBronze   = "bronze"
	BadgeSilver   = "silver"
	BadgeGold     = "gold"
	BadgePlatinum = "platinum"
)

// Thresholds for each tier.
const (
	bronzeMin   = 100
	silverMin   = 200
	goldMin     = 300
	platinumMin = 500
)

// Tier pairs a badge with the minimum point total that earns it.
type Tier struct {
	Badge     string
	MinPoints int
}

// Ladder returns the badge tiers, highest first.
func Ladder() []Tier {
	return []Tier{
		{Badge: BadgePlatinum, MinPoints: platinumMin},
		{Badge: BadgeGold, MinPoints: goldMin},
		{Badge: BadgeSilver, MinPoints: silverMin},
		{Badge: BadgeBronze, MinPoints: bronzeMin},
		{Badge: BadgeCitizen, MinPoints: 0},
	}
}

// Badge returns the badge for a cumulative point total.
func Badge(total int) string {
	switch {
	case total >= platinumMin:
		return BadgePlatinum
	case total >= goldMin:
		return BadgeGold
	case total >= silverMin:
		return BadgeSilver
	case total >= bronzeMin:
		return BadgeBronze
	default:
		return BadgeCitizen
	}
}
