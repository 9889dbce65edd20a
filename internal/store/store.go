// Package store is a durable session journal for the VM's event stream:
// every event a host subscribes to is also appended to a SQL-backed
// table so execution can be audited or replayed after the process
// exits. Driver selection by DSN scheme is grounded on the teacher's
// internal/database/database.go Connect(id, dbType, ...) switch.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"axion/internal/events"
)

// Store journals VM events and snapshot payloads to a SQL database. It
// implements events.Callback so it can be installed directly via
// (*vm.VM).SetEventCallback, or chained alongside another sink.
type Store struct {
	db     *sql.DB
	driver string
}

// Open parses dsn's scheme (sqlite://, sqlite3://, mysql://,
// postgres://, sqlserver://) to select a registered driver, matching
// the teacher's dbType switch but inferred from the DSN itself rather
// than a separate parameter — there's exactly one connection string to
// carry here, so a prefix is a perfectly good place to put it.
func Open(dsn string) (*Store, error) {
	scheme, rest, ok := strings.Cut(dsn, "://")
	if !ok {
		return nil, fmt.Errorf("store: dsn %q has no scheme", dsn)
	}

	var driver string
	switch strings.ToLower(scheme) {
	case "sqlite":
		driver = "sqlite" // modernc.org/sqlite, pure Go, no cgo requirement
	case "sqlite3":
		driver = "sqlite3" // mattn/go-sqlite3, cgo, for hosts that prefer it
	case "mysql":
		driver = "mysql"
	case "postgres", "postgresql":
		driver = "postgres"
	case "sqlserver", "mssql":
		driver = "sqlserver"
	default:
		return nil, fmt.Errorf("store: unsupported dsn scheme %q", scheme)
	}

	db, err := sql.Open(driver, rest)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{db: db, driver: driver}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS vm_events (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id  TEXT NOT NULL,
			kind        TEXT NOT NULL,
			ip          INTEGER,
			opcode      INTEGER,
			tier_after  TEXT,
			entropy     REAL,
			tier_from   TEXT,
			tier_to     TEXT,
			reason      TEXT,
			depth       INTEGER,
			stack_size  INTEGER,
			halt_reason TEXT,
			err_text    TEXT,
			recorded_at TEXT NOT NULL
		)
	`)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
		CREATE TABLE IF NOT EXISTS vm_snapshots (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id  TEXT NOT NULL,
			tier        TEXT NOT NULL,
			depth       INTEGER NOT NULL,
			ip          INTEGER NOT NULL,
			stack_json  TEXT NOT NULL,
			recorded_at TEXT NOT NULL
		)
	`)
	return err
}

// OnEvent implements events.Callback. A write failure is swallowed —
// the journal is an observability sink, not part of the VM's
// correctness contract, so a broken database must never halt a VM.
func (s *Store) OnEvent(e events.Event) {
	var errText string
	if e.Err != nil {
		errText = e.Err.Error()
	}
	query := s.rebind(`
		INSERT INTO vm_events
			(session_id, kind, ip, opcode, tier_after, entropy, tier_from, tier_to, reason, depth, stack_size, halt_reason, err_text, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, _ = s.db.ExecContext(context.Background(), query,
		e.SessionID, e.Kind.String(), e.IP, e.Opcode, e.TierAfter, e.Entropy,
		e.TierFrom, e.TierTo, e.Reason, e.Depth, e.StackSize, e.HaltReason, errText,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
}

// SnapshotRecord is the durable projection of a VM snapshot, suitable
// for replay tooling outside this process.
type SnapshotRecord struct {
	SessionID string
	Tier      string
	Depth     int
	IP        int
	Stack     []StackEntry
}

// StackEntry is the JSON-serializable projection of one operand.Operand.
type StackEntry struct {
	Tag   string `json:"tag"`
	Value string `json:"value"`
}

// SaveSnapshot persists a snapshot's stack contents alongside tier,
// depth, and ip so a host can reconstruct VM state after the process
// that took it has exited.
func (s *Store) SaveSnapshot(ctx context.Context, rec SnapshotRecord) error {
	payload, err := json.Marshal(rec.Stack)
	if err != nil {
		return err
	}
	query := s.rebind(`
		INSERT INTO vm_snapshots (session_id, tier, depth, ip, stack_json, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	_, err = s.db.ExecContext(ctx, query, rec.SessionID, rec.Tier, rec.Depth, rec.IP, string(payload), time.Now().UTC().Format(time.RFC3339Nano))
	return err
}

// rebind rewrites ?-style placeholders into the bind syntax the
// selected driver actually accepts ($N for postgres, @pN for
// sqlserver); sqlite/mysql take ? natively.
func (s *Store) rebind(query string) string {
	switch s.driver {
	case "postgres":
		n := 0
		return replacePlaceholders(query, func() string {
			n++
			return fmt.Sprintf("$%d", n)
		})
	case "sqlserver":
		n := 0
		return replacePlaceholders(query, func() string {
			n++
			return fmt.Sprintf("@p%d", n)
		})
	default:
		return query
	}
}

func replacePlaceholders(query string, next func() string) string {
	var sb strings.Builder
	for _, r := range query {
		if r == '?' {
			sb.WriteString(next())
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

var _ events.Callback = (*Store)(nil)
