package scoring

import (
	"bytes"
	"sort"

	"github.com/gagliardetto/solana-go"

	"winnertool/types"
)

// VoteObserver consumes one callback invocation per replayed entry and
// accumulates the per-identity vote history plus the per-slot confirmation
// ledger. It has no knowledge of rankings.
//
// OnEntry must only be invoked from the single replay worker. Once replay
// returns, the accumulated state is frozen and safe for concurrent readers.
type VoteObserver struct {
	entryIndex    uint64
	lastConfirmed map[solana.PublicKey]uint64
	record        types.VoterRecord
	segments      types.SlotVoterSegments
}

func NewVoteObserver() *VoteObserver {
	return &VoteObserver{
		lastConfirmed: make(map[solana.PublicKey]uint64),
		record:        make(types.VoterRecord),
		segments:      make(types.SlotVoterSegments),
	}
}

// OnEntry records, for every identity whose most recently confirmed slot moved
// since the previous entry, one vote-record entry and one voter segment keyed
// by the newly confirmed slot. The last confirmed slot per identity is the
// de-duplication key: re-observing an unchanged confirmation is silent.
// Identities absent from the vote-accounts view are simply not recorded.
func (o *VoteObserver) OnEntry(slot uint64, voteAccounts types.VoteAccountsView) {
	// Walk voters in identity byte order so the recorded sequences do not
	// depend on map iteration order.
	voters := make([]solana.PublicKey, 0, len(voteAccounts))
	for voter := range voteAccounts {
		voters = append(voters, voter)
	}
	sort.Slice(voters, func(i, j int) bool {
		return bytes.Compare(voters[i][:], voters[j][:]) < 0
	})

	for _, voter := range voters {
		confirmed := voteAccounts[voter]
		if last, seen := o.lastConfirmed[voter]; seen && last == confirmed {
			continue
		}
		o.lastConfirmed[voter] = confirmed
		o.record[voter] = append(o.record[voter], types.VoteRecordEntry{
			SlotConfirmed: confirmed,
			EntryIndex:    o.entryIndex,
		})
		o.segments[confirmed] = append(o.segments[confirmed], types.VoterSegment{
			Voter:      voter,
			EntryIndex: o.entryIndex,
		})
	}
	o.entryIndex++
}

// Freeze hands the accumulated containers to the read phase. The observer
// must not receive further OnEntry calls afterwards.
func (o *VoteObserver) Freeze() (types.VoterRecord, types.SlotVoterSegments) {
	return o.record, o.segments
}

// Entries returns the number of callback invocations observed so far.
func (o *VoteObserver) Entries() uint64 {
	return o.entryIndex
}
