package points

import "testing"

func TestBadge(t *testing.T) {
	tests := []struct {
		total int
		want  string
	}{
		{0, BadgeCitizen},
		{50, BadgeCitizen},
		{99, BadgeCitizen},
		{100, BadgeBronze},
		{103, BadgeBronze},
		{199, BadgeBronze},
		{200, BadgeSilver},
		{299, BadgeSilver},
		{300, BadgeGold},
		{499, BadgeGold},
		{500, BadgePlatinum},
		{10000, BadgePlatinum},
	}

	for _, tt := range tests {
		if got := Badge(tt.total); got != tt.want {
			t.Errorf("Badge(%d) = %q, want %q", tt.total, got, tt.want)
		}
	}
}

func TestBadge_NegativeTotalsStayCitizen(t *testing.T) {
	// Point totals never go negative in practice, but the function should
	// still degrade sanely.
	if got := Badge(-10); got != BadgeCitizen {
		t.Errorf("Badge(-10) = %q, want %q", got, BadgeCitizen)
	}
}
