package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

func initDB(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS telemetry (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		roll REAL,
		pitch REAL,
		heading REAL,
		gear_percent REAL,
		gear_down INTEGER,
		parking_brake INTEGER,
		autopilot INTEGER,
		eng1_n1 REAL,
		eng2_n1 REAL,
		eng3_n1 REAL,
		eng4_n1 REAL,
		throttle1 REAL,
		throttle2 REAL,
		throttle3 REAL,
		throttle4 REAL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	return db, nil
}
