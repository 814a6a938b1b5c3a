package types

import (
	"github.com/gagliardetto/solana-go"
)

// VoteRecordEntry records that a validator's vote landed such that it confirms
// SlotConfirmed, observed at the EntryIndex-th replayed entry.
type VoteRecordEntry struct {
	SlotConfirmed uint64
	EntryIndex    uint64
}

// VoterRecord maps a validator identity to its confirmations in observation order.
// Append-only while the ledger replays, read-only afterwards.
type VoterRecord map[solana.PublicKey][]VoteRecordEntry

// VoterSegment is a single validator's confirmation of one slot.
type VoterSegment struct {
	Voter      solana.PublicKey
	EntryIndex uint64
}

// SlotVoterSegments maps a slot to every confirmation of it, in observation order.
type SlotVoterSegments map[uint64][]VoterSegment

// VoteAccountsView maps a validator identity to the most recently confirmed
// slot of its vote account, as of a single replayed entry.
type VoteAccountsView map[solana.PublicKey]uint64

// Vote is one vote landing inside a ledger entry.
type Vote struct {
	Voter         solana.PublicKey
	SlotConfirmed uint64
}

// Entry is the unit the replay engine invokes the per-entry callback for.
// An entry may carry zero votes; a slot may hold several entries.
type Entry struct {
	Votes []Vote
}
