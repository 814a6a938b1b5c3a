package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/spf13/viper"

	"winnertool/logger"
	"winnertool/types"
)

type ClickhouseDB struct {
	conn driver.Conn
}

func NewClickhouse() Database {
	opts := &clickhouse.Options{
		Addr: []string{viper.GetString("CLICKHOUSE_ADDR")},
		Auth: clickhouse.Auth{
			Database: viper.GetString("CLICKHOUSE_DATABASE"),
			Username: viper.GetString("CLICKHOUSE_USERNAME"),
			Password: viper.GetString("CLICKHOUSE_PASSWORD"),
		},
		DialTimeout:  5 * time.Second,
		Compression:  &clickhouse.Compression{Method: clickhouse.CompressionLZ4},
		MaxOpenConns: 10,
	}

	conn, err := clickhouse.Open(opts)
	if err != nil {
		slog.Error("Failed to connect to ClickHouse", "error", err)
	}

	return &ClickhouseDB{conn: conn}
}

// Database interface implementation
func (d *ClickhouseDB) Close() error {
	return d.conn.Close()
}

func (d *ClickhouseDB) EnsureDatabaseExists() error {
	query := `CREATE DATABASE IF NOT EXISTS winnertool`
	if err := d.conn.Exec(context.Background(), query); err != nil {
		return fmt.Errorf("failed to ensure database exists: %w", err)
	}
	logger.GlobalLogger.Info("Database ensured to exist", "database", "winnertool")
	return nil
}

func (d *ClickhouseDB) CreateTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS winnertool.slot_leaders
		(
			slot UInt64,
			leader String
		)
		ENGINE = ReplacingMergeTree
		PRIMARY KEY slot
		ORDER BY slot
		SETTINGS index_granularity = 8192`,

		`CREATE TABLE IF NOT EXISTS winnertool.winner_reports
		(
			category String,
			rank UInt32,
			identity String,
			score Float64,
			runAt DateTime
		)
		ENGINE = MergeTree
		ORDER BY (runAt, category, rank)
		SETTINGS index_granularity = 8192`,
	}

	for _, q := range queries {
		if err := d.conn.Exec(context.Background(), q); err != nil {
			return err
		}
		logger.GlobalLogger.Info("Check or create table in DB", "query", q)
	}
	return nil
}

func (d *ClickhouseDB) DropTables() error {
	rows, err := d.conn.Query(context.Background(), "SHOW TABLES FROM winnertool")
	if err != nil {
		return fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return fmt.Errorf("failed to scan table name: %w", err)
		}
		tables = append(tables, t)
	}

	for _, t := range tables {
		q := fmt.Sprintf("DROP TABLE IF EXISTS winnertool.%s", t)
		if err := d.conn.Exec(context.Background(), q); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", t, err)
		}
	}

	return nil
}

func (d *ClickhouseDB) Exec(query string, args ...any) error {
	if err := d.conn.Exec(context.Background(), query, args...); err != nil {
		return err
	}
	return nil
}

func (d *ClickhouseDB) InsertSlotLeaders(leaders types.SlotLeaders) error {
	if len(leaders) == 0 {
		return nil
	}
	batch, err := d.conn.PrepareBatch(context.Background(), "INSERT INTO winnertool.slot_leaders")
	if err != nil {
		return err
	}
	for _, leader := range leaders {
		if err := batch.AppendStruct(leader); err != nil {
			return err
		}
	}
	return batch.Send()
}

func (d *ClickhouseDB) InsertWinnerRows(rows types.WinnerRows) error {
	if len(rows) == 0 {
		return nil
	}
	batch, err := d.conn.PrepareBatch(context.Background(), "INSERT INTO winnertool.winner_reports")
	if err != nil {
		return err
	}
	for _, row := range rows {
		if err := batch.AppendStruct(row); err != nil {
			return err
		}
	}
	return batch.Send()
}

func (d *ClickhouseDB) QueryLastSlotLeader() (uint64, error) {
	row := d.conn.QueryRow(context.Background(), "SELECT MAX(slot) FROM winnertool.slot_leaders")
	var slot uint64
	if err := row.Scan(&slot); err != nil {
		return 0, fmt.Errorf("query last slot leader failed: %w", err)
	}
	return slot, nil
}
