package state

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/maestro-ai/maestro/pkg/models"

	_ "modernc.org/sqlite"
)

// DB wraps an SQLite database connection with maestro-specific operations.
type DB struct {
	conn *sql.DB
	path string
	mu   sync.RWMutex
}

var _ Store = (*DB)(nil)

// ProjectDBPath returns the path to the project-local database.
func ProjectDBPath(projectRoot string) string {
	return filepath.Join(projectRoot, ".maestro", "history.db")
}

// Open opens an SQLite database at the given path.
// It creates the parent directories if they don't exist.
// WAL mode is enabled for concurrent reads.
func Open(path string) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	db := &DB{
		conn: conn,
		path: path,
	}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.conn.Close()
}

// Path returns the path to the database file.
func (db *DB) Path() string {
	return db.path
}

// migrate applies all pending schema migrations.
func (db *DB) migrate() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_version table: %w", err)
	}

	var currentVersion int
	row := db.conn.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("get schema version: %w", err)
	}

	migrations := []struct {
		version int
		sql     string
	}{
		{1, migrationV1Runs},
		{2, migrationV2Tasks},
		{3, migrationV3Results},
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}

		tx, err := db.conn.Begin()
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}

		if _, err := tx.Exec(m.sql); err != nil {
			tx.Rollback()
			return fmt.Errorf("apply migration v%d: %w", m.version, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", m.version); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration v%d: %w", m.version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration v%d: %w", m.version, err)
		}
	}

	return nil
}

const migrationV1Runs = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	task TEXT NOT NULL,
	answer TEXT,
	status TEXT NOT NULL DEFAULT 'running',
	tasks_dispatched INTEGER NOT NULL DEFAULT 0,
	started_at DATETIME NOT NULL,
	finished_at DATETIME,
	error TEXT
);

CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
`

const migrationV2Tasks = `
CREATE TABLE IF NOT EXISTS tasks (
	id TEXT PRIMARY KEY,
	run_id TEXT NOT NULL,
	parent_id TEXT,
	description TEXT NOT NULL,
	depth INTEGER NOT NULL DEFAULT 0,
	status TEXT NOT NULL DEFAULT 'pending',
	created_at DATETIME NOT NULL,
	completed_at DATETIME,
	error TEXT
);

CREATE INDEX IF NOT EXISTS idx_tasks_run_id ON tasks(run_id);
CREATE INDEX IF NOT EXISTS idx_tasks_parent_id ON tasks(parent_id);
`

const migrationV3Results = `
CREATE TABLE IF NOT EXISTS results (
	task_id TEXT PRIMARY KEY,
	run_id TEXT NOT NULL,
	role TEXT NOT NULL,
	output TEXT,
	error TEXT
);

CREATE INDEX IF NOT EXISTS idx_results_run_id ON results(run_id);
`

// SaveRun inserts or updates a run record.
func (db *DB) SaveRun(run Run) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	_, err := db.conn.Exec(`
		INSERT INTO runs (id, task, answer, status, tasks_dispatched, started_at, finished_at, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			answer = excluded.answer,
			status = excluded.status,
			tasks_dispatched = excluded.tasks_dispatched,
			finished_at = excluded.finished_at,
			error = excluded.error
	`, run.ID, run.Task, run.Answer, string(run.Status), run.TasksDispatched,
		run.StartedAt, run.FinishedAt, run.Error)
	if err != nil {
		return fmt.Errorf("save run %s: %w", run.ID, err)
	}
	return nil
}

// SaveTask records a task belonging to a run.
func (db *DB) SaveTask(runID string, task models.Task) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	_, err := db.conn.Exec(`
		INSERT INTO tasks (id, run_id, parent_id, description, depth, status, created_at, completed_at, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			completed_at = excluded.completed_at,
			error = excluded.error
	`, task.ID, runID, task.ParentID, task.Description, task.Depth,
		string(task.Status), task.CreatedAt, task.CompletedAt, task.Error)
	if err != nil {
		return fmt.Errorf("save task %s: %w", task.ID, err)
	}
	return nil
}

// SaveResult records the outcome of a task.
func (db *DB) SaveResult(runID string, result models.Result) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	var errMsg string
	if result.Err != nil {
		errMsg = result.Err.Error()
	}

	_, err := db.conn.Exec(`
		INSERT INTO results (task_id, run_id, role, output, error)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(task_id) DO UPDATE SET
			role = excluded.role,
			output = excluded.output,
			error = excluded.error
	`, result.TaskID, runID, result.Role, result.Output, errMsg)
	if err != nil {
		return fmt.Errorf("save result for task %s: %w", result.TaskID, err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (db *DB) RecentRuns(limit int) ([]Run, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if limit <= 0 {
		limit = 10
	}

	rows, err := db.conn.Query(`
		SELECT id, task, COALESCE(answer, ''), status, tasks_dispatched, started_at, finished_at, COALESCE(error, '')
		FROM runs ORDER BY started_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var status string
		var finishedAt sql.NullTime
		if err := rows.Scan(&run.ID, &run.Task, &run.Answer, &status,
			&run.TasksDispatched, &run.StartedAt, &finishedAt, &run.Error); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.Status = models.TaskStatus(status)
		if finishedAt.Valid {
			t := finishedAt.Time
			run.FinishedAt = &t
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// TasksForRun returns the task tree of a run ordered by creation time.
func (db *DB) TasksForRun(runID string) ([]models.Task, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	rows, err := db.conn.Query(`
		SELECT id, COALESCE(parent_id, ''), description, depth, status, created_at, completed_at, COALESCE(error, '')
		FROM tasks WHERE run_id = ? ORDER BY created_at
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var task models.Task
		var status string
		var completedAt sql.NullTime
		if err := rows.Scan(&task.ID, &task.ParentID, &task.Description, &task.Depth,
			&status, &task.CreatedAt, &completedAt, &task.Error); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		task.Status = models.TaskStatus(status)
		if completedAt.Valid {
			t := completedAt.Time
			task.CompletedAt = &t
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}
