package db

import (
	"winnertool/types"
)

type Database interface {
	Close() error
	EnsureDatabaseExists() error
	CreateTables() error
	DropTables() error

	Exec(query string, args ...any) error
	InsertSlotLeaders(leaders types.SlotLeaders) error
	InsertWinnerRows(rows types.WinnerRows) error

	QueryLastSlotLeader() (uint64, error)
}
