package scoring

import (
	"github.com/gagliardetto/solana-go"

	"winnertool/ledger"
	"winnertool/logger"
	"winnertool/types"
)

// AvailabilityFinder ranks validators by the fraction of their assigned
// leader slots that were actually produced, normalized against the baseline
// validator's own fraction so an environment-wide outage that also hit the
// baseline does not penalize candidates.
type AvailabilityFinder struct {
	Baseline solana.PublicKey
	Excluded *ExcludedSet
}

// Compute walks the leader schedule up to the snapshot slot, counts assigned
// and produced slots per identity, and ranks the baseline-normalized ratio
// descending. When the baseline produced nothing its fraction cannot
// normalize, so the raw fraction is reported instead. Identities assigned
// zero slots have undefined availability and are omitted.
func (f *AvailabilityFinder) Compute(snap *types.Snapshot, store ledger.BlockStore, cache *types.LeaderScheduleCache) *Report {
	report := &Report{Category: CategoryAvailability}
	if cache == nil || cache.Len() == 0 {
		return report
	}

	assigned := make(map[solana.PublicKey]uint64)
	produced := make(map[solana.PublicKey]uint64)

	first, last := cache.Bounds()
	if snap.Slot < last {
		last = snap.Slot
	}
	for slot := first; slot <= last; slot++ {
		leader, ok := cache.Leader(slot)
		if !ok {
			continue
		}
		assigned[leader]++
		has, err := store.HasBlock(slot)
		if err != nil {
			logger.ScoreLogger.Warn("Failed to probe block, counting slot as missed", "slot", slot, "err", err)
			continue
		}
		if has {
			produced[leader]++
		}
	}

	fraction := func(id solana.PublicKey) float64 {
		if assigned[id] == 0 {
			return 0
		}
		return float64(produced[id]) / float64(assigned[id])
	}
	baselineFraction := fraction(f.Baseline)

	winners := make([]Winner, 0, len(assigned))
	for id := range assigned {
		if f.Excluded.Contains(id) {
			continue
		}
		score := fraction(id)
		if baselineFraction > 0 {
			score /= baselineFraction
		}
		winners = append(winners, Winner{Identity: id, Score: score})
	}
	sortWinners(winners, false)
	report.Winners = winners
	return report
}
