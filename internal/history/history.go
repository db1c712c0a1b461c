package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/studiowebux/cloudterm/internal/types"
)

// Manager records executed terminal commands in a SQLite database.
type Manager struct {
	db *sql.DB
}

// NewManager opens (or creates) the history database at dbPath.
func NewManager(dbPath string) (*Manager, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}

	m := &Manager{db: db}
	if err := m.initSchema(); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Manager) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS commands (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME NOT NULL,
		command TEXT NOT NULL,
		target TEXT NOT NULL,
		output TEXT,
		is_error INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_commands_timestamp ON commands(timestamp DESC);
	`

	_, err := m.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to initialize history schema: %w", err)
	}

	return nil
}

// Record saves one executed command.
func (m *Manager) Record(record types.CommandRecord) error {
	query := `
		INSERT INTO commands (timestamp, command, target, output, is_error)
		VALUES (?, ?, ?, ?, ?)
	`

	ts := record.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	timestampStr := ts.Local().Format("2006-01-02 15:04:05")

	isError := 0
	if record.IsError {
		isError = 1
	}

	_, err := m.db.Exec(query, timestampStr, record.Command, record.Target, record.Output, isError)
	if err != nil {
		return fmt.Errorf("failed to save command record: %w", err)
	}

	return nil
}

// List returns the most recent commands, newest first. A non-positive
// limit returns everything.
func (m *Manager) List(limit int) ([]types.CommandRecord, error) {
	query := `
		SELECT id, timestamp, command, target, COALESCE(output, ''), is_error
		FROM commands
		ORDER BY timestamp DESC, id DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := m.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load command history: %w", err)
	}
	defer rows.Close()

	var records []types.CommandRecord
	for rows.Next() {
		var record types.CommandRecord
		var timestamp string
		var isError int

		if err := rows.Scan(&record.ID, &timestamp, &record.Command, &record.Target, &record.Output, &isError); err != nil {
			return nil, fmt.Errorf("failed to scan command record: %w", err)
		}

		parsed, err := time.ParseInLocation("2006-01-02 15:04:05", timestamp, time.Local)
		if err != nil {
			parsed, err = time.Parse(time.RFC3339, timestamp)
			if err != nil {
				parsed = time.Now()
			}
		}
		record.Timestamp = parsed
		record.IsError = isError != 0

		records = append(records, record)
	}

	return records, rows.Err()
}

// Count returns the number of stored commands.
func (m *Manager) Count() (int, error) {
	var count int
	err := m.db.QueryRow("SELECT COUNT(*) FROM commands").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count command history: %w", err)
	}
	return count, nil
}

// Clear deletes all stored commands.
func (m *Manager) Clear() error {
	_, err := m.db.Exec("DELETE FROM commands")
	if err != nil {
		return fmt.Errorf("failed to clear command history: %w", err)
	}
	return nil
}

// Close closes the database handle.
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
