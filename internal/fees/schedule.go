// Package fees implements the notary registration fee schedule: a tiered
// lookup from the annualized rent base to a fixed registration fee.
package fees

import (
	"fmt"
	"math"
	"sort"
)

// Tier maps a half-open interval [Lower, Upper) of the annualized rent
// base to a fixed fee. The final tier has Upper = +Inf.
type Tier struct {
	Lower float64
	Upper float64
	Fee   float64
}

// Contains reports whether base falls inside this tier.
func (t Tier) Contains(base float64) bool {
	return base >= t.Lower && base < t.Upper
}

// Schedule is an ordered, contiguous fee table partitioning [0, +Inf).
type Schedule struct {
	tiers []Tier
}

// defaultTiers is the current statutory table. Upper bounds are exclusive:
// a base of exactly 3200.00 falls in the second tier (fee 483.68).
var defaultTiers = []Tier{
	{Lower: 0, Upper: 3_200, Fee: 319.12},
	{Lower: 3_200, Upper: 8_000, Fee: 483.68},
	{Lower: 8_000, Upper: 12_000, Fee: 522.76},
	{Lower: 12_000, Upper: 16_000, Fee: 562.54},
	{Lower: 16_000, Upper: 24_000, Fee: 642.22},
	{Lower: 24_000, Upper: 32_000, Fee: 723.98},
	{Lower: 32_000, Upper: 47_000, Fee: 799.68},
	{Lower: 47_000, Upper: 63_000, Fee: 881.24},
	{Lower: 63_000, Upper: 78_000, Fee: 967.68},
	{Lower: 78_000, Upper: 118_000, Fee: 1_030.66},
	{Lower: 118_000, Upper: 160_000, Fee: 1_115.10},
	{Lower: 160_000, Upper: 235_000, Fee: 1_805.16},
	{Lower: 235_000, Upper: 350_000, Fee: 2_708.06},
	{Lower: 350_000, Upper: 530_000, Fee: 4_067.28},
	{Lower: 530_000, Upper: 800_000, Fee: 6_099.38},
	{Lower: 800_000, Upper: 1_200_000, Fee: 9_147.62},
	{Lower: 1_200_000, Upper: 1_800_000, Fee: 10_977.08},
	{Lower: 1_800_000, Upper: 2_700_000, Fee: 14_270.54},
	{Lower: 2_700_000, Upper: 4_000_000, Fee: 18_551.68},
	{Lower: 4_000_000, Upper: math.Inf(1), Fee: 24_131.20},
}

// LegacyTopFee is the top-of-scale fee used by one of the earlier pipeline
// variants, which also collapsed the 1.2M-4.0M range into a single tier.
// Kept as a named constant so the discrepancy stays visible; Default()
// uses the fully split table above.
const LegacyTopFee = 24_117.28

// Default returns the registration fee schedule, validated.
func Default() *Schedule {
	s, err := New(defaultTiers)
	if err != nil {
		// The literal table above is malformed. Unreachable unless edited.
		panic(err)
	}
	return s
}

// New builds a schedule from tiers and checks the partition invariant:
// non-empty, sorted, contiguous, starting at zero, last tier unbounded.
func New(tiers []Tier) (*Schedule, error) {
	if len(tiers) == 0 {
		return nil, fmt.Errorf("fee schedule must have at least one tier")
	}
	if tiers[0].Lower != 0 {
		return nil, fmt.Errorf("fee schedule must start at zero, got %v", tiers[0].Lower)
	}
	for i, t := range tiers {
		if t.Upper <= t.Lower {
			return nil, fmt.Errorf("tier %d is empty or inverted: [%v, %v)", i, t.Lower, t.Upper)
		}
		if t.Fee <= 0 {
			return nil, fmt.Errorf("tier %d has non-positive fee %v", i, t.Fee)
		}
		if i > 0 && t.Lower != tiers[i-1].Upper {
			return nil, fmt.Errorf("gap or overlap between tiers %d and %d: %v != %v",
				i-1, i, tiers[i-1].Upper, t.Lower)
		}
	}
	if !math.IsInf(tiers[len(tiers)-1].Upper, 1) {
		return nil, fmt.Errorf("final tier must be unbounded above")
	}

	owned := make([]Tier, len(tiers))
	copy(owned, tiers)
	return &Schedule{tiers: owned}, nil
}

// Annualize converts a monthly rent into the fee lookup base.
func Annualize(monthlyRent float64) float64 {
	return monthlyRent * 12
}

// Lookup returns the fee for a non-negative annualized rent base. Exactly
// one tier matches any valid base.
func (s *Schedule) Lookup(base float64) (float64, error) {
	if math.IsNaN(base) || base < 0 {
		return 0, fmt.Errorf("fee base must be non-negative, got %v", base)
	}

	i := sort.Search(len(s.tiers), func(i int) bool {
		return base < s.tiers[i].Upper
	})
	return s.tiers[i].Fee, nil
}

// Tiers returns a copy of the tier table.
func (s *Schedule) Tiers() []Tier {
	out := make([]Tier, len(s.tiers))
	copy(out, s.tiers)
	return out
}
