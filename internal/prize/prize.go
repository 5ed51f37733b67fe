// Package prize computes match counts and prize amounts for settled draws.
// All functions are pure; the settlement orchestrator drives them.
package prize

import (
	"fmt"

	"github.com/hhpro-max/lucky-lottery/internal/domain"
)

// TierTable maps an exact match count to a prize amount in minor units.
type TierTable map[int]int64

// BuildTierTable indexes prize tiers by match count. Duplicate match counts
// are rejected: the lookup would otherwise be order-dependent.
func BuildTierTable(tiers []domain.PrizeTier) (TierTable, error) {
	table := make(TierTable, len(tiers))
	for _, tier := range tiers {
		if _, ok := table[tier.MatchCount]; ok {
			return nil, fmt.Errorf("duplicate prize tier for match count %d", tier.MatchCount)
		}
		table[tier.MatchCount] = tier.PrizeAmount
	}
	return table, nil
}

// MatchCount counts ticket numbers that appear in the winning numbers.
// Matching is set membership: duplicates on either side are not
// multiplicity-matched, so a ticket number repeated n times scores n when
// the number was drawn.
func MatchCount(ticket, winning []int32) int {
	drawn := make(map[int32]struct{}, len(winning))
	for _, n := range winning {
		drawn[n] = struct{}{}
	}
	count := 0
	for _, n := range ticket {
		if _, ok := drawn[n]; ok {
			count++
		}
	}
	return count
}

// Evaluate computes a ticket's match count and the prize owed, if any.
// The tier table must enumerate every payable match count explicitly;
// an absent match count wins nothing.
func Evaluate(ticket, winning []int32, table TierTable) (matchCount int, amount int64, won bool) {
	matchCount = MatchCount(ticket, winning)
	amount, won = table[matchCount]
	return matchCount, amount, won
}
