package types

import (
	"github.com/gagliardetto/solana-go"
)

// Snapshot is the final account state at the configured stopping point:
// lamport balances and the vote-account view after the last replayed entry.
type Snapshot struct {
	Slot         uint64
	Balances     map[solana.PublicKey]uint64
	VoteAccounts VoteAccountsView
}
