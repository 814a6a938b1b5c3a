package types

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// SlotLeader represents a mapping of a slot to its leader (validator)
type SlotLeader struct {
	Slot   uint64 `ch:"slot"`
	Leader string `ch:"leader"`
}

type SlotLeaders []*SlotLeader

// LeaderScheduleCache holds the leader assignment for a contiguous slot range.
// Built once by the replay engine, read-only afterwards.
type LeaderScheduleCache struct {
	first, last uint64
	leaders     map[uint64]solana.PublicKey
}

// NewLeaderScheduleCache parses the base58 leader strings of a slot-leader
// listing into a cache. The listing may be sparse; missing slots simply have
// no assigned leader.
func NewLeaderScheduleCache(leaders SlotLeaders) (*LeaderScheduleCache, error) {
	c := &LeaderScheduleCache{leaders: make(map[uint64]solana.PublicKey, len(leaders))}
	for _, l := range leaders {
		pk, err := solana.PublicKeyFromBase58(l.Leader)
		if err != nil {
			return nil, fmt.Errorf("invalid leader %q at slot %d: %w", l.Leader, l.Slot, err)
		}
		if len(c.leaders) == 0 || l.Slot < c.first {
			c.first = l.Slot
		}
		if l.Slot > c.last {
			c.last = l.Slot
		}
		c.leaders[l.Slot] = pk
	}
	return c, nil
}

// Leader returns the identity assigned to produce the given slot.
func (c *LeaderScheduleCache) Leader(slot uint64) (solana.PublicKey, bool) {
	pk, ok := c.leaders[slot]
	return pk, ok
}

// Bounds returns the first and last slot covered by the cache.
func (c *LeaderScheduleCache) Bounds() (uint64, uint64) {
	return c.first, c.last
}

func (c *LeaderScheduleCache) Len() int {
	return len(c.leaders)
}
