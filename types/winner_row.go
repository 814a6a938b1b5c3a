package types

import "time"

// WinnerRow is one ranked report entry in storage form.
type WinnerRow struct {
	Category string    `ch:"category"`
	Rank     uint32    `ch:"rank"`
	Identity string    `ch:"identity"`
	Score    float64   `ch:"score"`
	RunAt    time.Time `ch:"runAt"`
}

type WinnerRows []*WinnerRow
