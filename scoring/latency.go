package scoring

import (
	"github.com/gagliardetto/solana-go"

	"winnertool/types"
)

// LatencyFinder ranks validators by how quickly their votes confirm slots
// relative to the baseline validator's confirmation of the same slot.
type LatencyFinder struct {
	Baseline solana.PublicKey
	Excluded *ExcludedSet
}

// Compute scores each identity by the entry-index offset between its
// confirmation of a slot and the baseline's confirmation of that slot,
// reduced to the mean offset across all shared slots. Mean is the chosen
// aggregation: every shared confirmation keeps its weight and only a running
// sum and count are needed per identity. Identities that share no confirmed
// slot with the baseline have no defined score and are omitted. Lower is
// faster, so the report orders ascending.
func (f *LatencyFinder) Compute(record types.VoterRecord, segments types.SlotVoterSegments) *Report {
	baselineAt := make(map[uint64]uint64, len(segments))
	for slot, segs := range segments {
		for _, s := range segs {
			if s.Voter == f.Baseline {
				baselineAt[slot] = s.EntryIndex
				break
			}
		}
	}

	winners := make([]Winner, 0, len(record))
	for voter, entries := range record {
		if f.Excluded.Contains(voter) {
			continue
		}
		var offsetSum int64
		var shared int64
		for _, e := range entries {
			base, ok := baselineAt[e.SlotConfirmed]
			if !ok {
				continue
			}
			offsetSum += int64(e.EntryIndex) - int64(base)
			shared++
		}
		if shared == 0 {
			continue
		}
		winners = append(winners, Winner{Identity: voter, Score: float64(offsetSum) / float64(shared)})
	}
	sortWinners(winners, true)
	return &Report{Category: CategoryLatency, Winners: winners}
}
