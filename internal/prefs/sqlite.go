package prefs

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/hronline/attendance-store/pkg/prefs"
)

// SQLiteStore is the durable preferences engine. Unlike MemStore it writes
// through synchronously, so there is nothing to flush on shutdown.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS prefs (
		owner TEXT NOT NULL,
		ns    TEXT NOT NULL,
		key   TEXT NOT NULL,
		value TEXT NOT NULL,
		PRIMARY KEY (owner, ns, key)
	);
	CREATE INDEX IF NOT EXISTS idx_prefs_ns ON prefs(ns);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Get(ownerID, namespace, key string) (string, error) {
	var value string
	err := s.db.QueryRow(
		`SELECT value FROM prefs WHERE owner = ? AND ns = ? AND key = ?`,
		ownerID, namespace, key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", prefs.ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get %s/%s/%s: %w", ownerID, namespace, key, err)
	}
	return value, nil
}

func (s *SQLiteStore) Put(ownerID, namespace, key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO prefs (owner, ns, key, value) VALUES (?, ?, ?, ?)
		 ON CONFLICT (owner, ns, key) DO UPDATE SET value = excluded.value`,
		ownerID, namespace, key, value,
	)
	if err != nil {
		return fmt.Errorf("put %s/%s/%s: %w", ownerID, namespace, key, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ownerID, namespace, key string) error {
	_, err := s.db.Exec(
		`DELETE FROM prefs WHERE owner = ? AND ns = ? AND key = ?`,
		ownerID, namespace, key,
	)
	if err != nil {
		return fmt.Errorf("delete %s/%s/%s: %w", ownerID, namespace, key, err)
	}
	return nil
}

func (s *SQLiteStore) Owners() ([]string, error) {
	return s.listColumn(`SELECT DISTINCT owner FROM prefs ORDER BY owner`)
}

func (s *SQLiteStore) Namespaces(ownerID string) ([]string, error) {
	return s.listColumn(`SELECT DISTINCT ns FROM prefs WHERE owner = ? ORDER BY ns`, ownerID)
}

func (s *SQLiteStore) listColumn(query string, args ...any) ([]string, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

func (s *SQLiteStore) NamespaceStore(ownerID, namespace string) (map[string]string, error) {
	rows, err := s.db.Query(
		`SELECT key, value FROM prefs WHERE owner = ? AND ns = ?`, ownerID, namespace)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, prefs.ErrNamespaceNotFound
	}
	return out, nil
}

func (s *SQLiteStore) DumpNamespace(namespace string) (map[string]map[string]string, error) {
	rows, err := s.db.Query(
		`SELECT owner, key, value FROM prefs WHERE ns = ?`, namespace)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]map[string]string)
	for rows.Next() {
		var owner, k, v string
		if err := rows.Scan(&owner, &k, &v); err != nil {
			return nil, err
		}
		if out[owner] == nil {
			out[owner] = make(map[string]string)
		}
		out[owner][k] = v
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Move(srcOwner, dstOwner, namespace, key string) error {
	val, err := s.Get(srcOwner, namespace, key)
	if err != nil {
		return err
	}
	if err := s.Put(dstOwner, namespace, key, val); err != nil {
		return err
	}
	return s.Delete(srcOwner, namespace, key)
}

func (s *SQLiteStore) Scope(ownerID, namespace string) prefs.NamespaceScope {
	return prefs.NewScope(s, ownerID, namespace)
}
