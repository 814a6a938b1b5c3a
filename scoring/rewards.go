package scoring

import (
	"winnertool/types"
)

// RewardsFinder ranks validators by net lamports earned relative to the
// starting balance every participant began the tour with.
type RewardsFinder struct {
	StartingBalance uint64 // lamports
	Excluded        *ExcludedSet
}

// Compute ranks every non-excluded identity in the snapshot's vote-account
// view by net balance change, descending. Net may be negative and simply
// ranks low. An identity with no balance in the snapshot is treated as still
// holding the starting balance (net 0), not as an error.
func (f *RewardsFinder) Compute(snap *types.Snapshot) *Report {
	winners := make([]Winner, 0, len(snap.VoteAccounts))
	for id := range snap.VoteAccounts {
		if f.Excluded.Contains(id) {
			continue
		}
		var net int64
		if balance, ok := snap.Balances[id]; ok {
			net = int64(balance) - int64(f.StartingBalance)
		}
		winners = append(winners, Winner{Identity: id, Score: float64(net)})
	}
	sortWinners(winners, false)
	return &Report{Category: CategoryRewards, Winners: winners}
}
