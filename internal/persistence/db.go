// Package persistence provides SQLite storage for simulation outputs.
// Runs are keyed by UUID; per-agent and network-level timeseries are written
// after the run completes, never from inside the step path.
package persistence

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/greensim/internal/agents"
	"github.com/talgya/greensim/internal/config"
	"github.com/talgya/greensim/internal/network"
)

// DB wraps a SQLite connection for run output storage.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		config_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS agent_series (
		run_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		agent_id INTEGER NOT NULL,
		identity REAL NOT NULL,
		av_behaviour REAL NOT NULL,
		emissions_flow REAL NOT NULL,
		attitudes_json TEXT NOT NULL,
		values_json TEXT NOT NULL,
		thresholds_json TEXT NOT NULL,
		ta_json TEXT NOT NULL,
		PRIMARY KEY (run_id, tick, agent_id)
	);

	CREATE TABLE IF NOT EXISTS network_series (
		run_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		mean_identity REAL NOT NULL,
		total_emissions REAL NOT NULL,
		green_fraction REAL NOT NULL,
		PRIMARY KEY (run_id, tick)
	);

	CREATE INDEX IF NOT EXISTS idx_agent_series_run ON agent_series(run_id, agent_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// CreateRun registers a run and returns its id.
func (db *DB) CreateRun(cfg config.Config) (string, error) {
	id := uuid.NewString()

	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}

	_, err = db.conn.Exec(
		"INSERT INTO runs (id, created_at, config_json) VALUES (?, ?, ?)",
		id, time.Now().UTC().Format(time.RFC3339), string(cfgJSON),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// SaveAgentHistory writes one agent's recorded timeseries.
func (db *DB) SaveAgentHistory(runID string, agentID int, h *agents.History) error {
	if h == nil || h.Len() == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(`INSERT INTO agent_series
		(run_id, tick, agent_id, identity, av_behaviour, emissions_flow,
		 attitudes_json, values_json, thresholds_json, ta_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := 0; i < h.Len(); i++ {
		attJSON, _ := json.Marshal(h.Attitudes[i])
		valJSON, _ := json.Marshal(h.Values[i])
		thrJSON, _ := json.Marshal(h.Thresholds[i])
		taJSON, _ := json.Marshal(h.TA[i])

		_, err := stmt.Exec(
			runID, h.Ticks[i], agentID,
			h.Identity[i], h.AvBehaviour[i], h.EmissionsFlow[i],
			string(attJSON), string(valJSON), string(thrJSON), string(taJSON),
		)
		if err != nil {
			return fmt.Errorf("insert agent %d tick %d: %w", agentID, h.Ticks[i], err)
		}
	}

	return tx.Commit()
}

// SaveNetworkSeries writes the per-tick aggregate statistics.
func (db *DB) SaveNetworkSeries(runID string, stats []network.TickStats) error {
	if len(stats) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, st := range stats {
		_, err := tx.Exec(
			`INSERT INTO network_series (run_id, tick, mean_identity, total_emissions, green_fraction)
			 VALUES (?, ?, ?, ?, ?)`,
			runID, st.Tick, st.MeanIdentity, st.TotalEmissions, st.GreenFraction,
		)
		if err != nil {
			return fmt.Errorf("insert tick %d: %w", st.Tick, err)
		}
	}

	return tx.Commit()
}

// SaveRun persists everything a completed simulation produced.
func (db *DB) SaveRun(n *network.Network) (string, error) {
	runID, err := db.CreateRun(n.Config())
	if err != nil {
		return "", err
	}

	for _, ind := range n.Agents {
		if err := db.SaveAgentHistory(runID, ind.ID, ind.History()); err != nil {
			return "", fmt.Errorf("save agent %d: %w", ind.ID, err)
		}
	}

	if err := db.SaveNetworkSeries(runID, n.Stats); err != nil {
		return "", fmt.Errorf("save network series: %w", err)
	}

	return runID, nil
}

// LoadNetworkSeries reads back the aggregate timeseries for a run.
func (db *DB) LoadNetworkSeries(runID string) ([]network.TickStats, error) {
	var stats []network.TickStats
	err := db.conn.Select(&stats,
		"SELECT tick, mean_identity, total_emissions, green_fraction FROM network_series WHERE run_id = ? ORDER BY tick",
		runID,
	)
	return stats, err
}

// AgentSeriesCount returns the number of stored rows for one run.
func (db *DB) AgentSeriesCount(runID string) (int, error) {
	var count int
	err := db.conn.Get(&count, "SELECT COUNT(*) FROM agent_series WHERE run_id = ?", runID)
	return count, err
}
