package config

import "time"

// Path config
const (
	LogPath    = "./logs/"
	ConfigPath = "./"
)

// Network config
const (
	DefaultRetryTimes    = 3
	DefaultRetryInterval = 50 * time.Millisecond
	DefaultTimeout       = 20 * time.Second
)

// Replay config
const (
	// Slot leaders are fetched in batches while building the full-range
	// leader cache. The RPC caps getSlotLeaders at 5000 per request.
	SOL_FETCH_SLOT_LEADER_LIMIT = 5000

	// getBlocks range per request while probing which slots were produced
	SOL_FETCH_BLOCKS_CHUNK = 2000

	// Pause between consecutive RPC batches to stay under rate limits
	SOL_FETCH_SHORT_INTERVAL = 400 * time.Millisecond
)

// Scoring config
const (
	// Starting balance of every validator at the beginning of the tour, in SOL.
	STARTING_BALANCE_SOL = 1000
)
