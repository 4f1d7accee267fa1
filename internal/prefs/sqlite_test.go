package prefs

import (
	"path/filepath"
	"testing"

	"github.com/hronline/attendance-store/pkg/prefs"
)

func openTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "prefs.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLite_GetPutDelete(t *testing.T) {
	s := openTestSQLite(t)

	if err := s.Put("emp-1", "attendance_prefs", "attendance_list", "v1"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	got, err := s.Get("emp-1", "attendance_prefs", "attendance_list")
	if err != nil || got != "v1" {
		t.Fatalf("Get: expected v1, got %q err %v", got, err)
	}

	// Upsert overwrites.
	if err := s.Put("emp-1", "attendance_prefs", "attendance_list", "v2"); err != nil {
		t.Fatalf("Put (update) failed: %v", err)
	}
	if got, _ = s.Get("emp-1", "attendance_prefs", "attendance_list"); got != "v2" {
		t.Errorf("Expected v2 after upsert, got %q", got)
	}

	if _, err = s.Get("emp-1", "attendance_prefs", "missing"); err != prefs.ErrKeyNotFound {
		t.Errorf("Expected ErrKeyNotFound, got %v", err)
	}

	if err := s.Delete("emp-1", "attendance_prefs", "attendance_list"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err = s.Get("emp-1", "attendance_prefs", "attendance_list"); err != prefs.ErrKeyNotFound {
		t.Errorf("Expected ErrKeyNotFound after delete, got %v", err)
	}
}

func TestSQLite_Enumeration(t *testing.T) {
	s := openTestSQLite(t)
	s.Put("emp-1", "attendance_prefs", "attendance_list", "v1")
	s.Put("emp-1", "employee_prefs", "profile", "{}")
	s.Put("emp-2", "attendance_prefs", "attendance_list", "v2")

	owners, err := s.Owners()
	if err != nil || len(owners) != 2 {
		t.Errorf("Expected 2 owners, got %v err %v", owners, err)
	}

	namespaces, err := s.Namespaces("emp-1")
	if err != nil || len(namespaces) != 2 {
		t.Errorf("Expected 2 namespaces, got %v err %v", namespaces, err)
	}

	store, err := s.NamespaceStore("emp-1", "attendance_prefs")
	if err != nil || store["attendance_list"] != "v1" {
		t.Errorf("NamespaceStore mismatch: %v err %v", store, err)
	}
	if _, err = s.NamespaceStore("emp-1", "empty_ns"); err != prefs.ErrNamespaceNotFound {
		t.Errorf("Expected ErrNamespaceNotFound, got %v", err)
	}

	dump, err := s.DumpNamespace("attendance_prefs")
	if err != nil || len(dump) != 2 {
		t.Errorf("DumpNamespace mismatch: %v err %v", dump, err)
	}
}

func TestSQLite_MoveAndScope(t *testing.T) {
	s := openTestSQLite(t)
	s.Put("emp-old", "attendance_prefs", "attendance_list", "v1")

	if err := s.Move("emp-old", "emp-new", "attendance_prefs", "attendance_list"); err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if got, _ := s.Get("emp-new", "attendance_prefs", "attendance_list"); got != "v1" {
		t.Errorf("Expected v1 at destination, got %q", got)
	}
	if _, err := s.Get("emp-old", "attendance_prefs", "attendance_list"); err != prefs.ErrKeyNotFound {
		t.Errorf("Expected source cleared, got %v", err)
	}

	scope := s.Scope("emp-new", "attendance_prefs")
	if got, _ := scope.Get("attendance_list"); got != "v1" {
		t.Errorf("Scope Get mismatch: %q", got)
	}
}

func TestSQLite_ReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "prefs.db")

	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	s.Put("emp-1", "attendance_prefs", "attendance_list", "survives")
	s.Close()

	s2, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer s2.Close()

	got, err := s2.Get("emp-1", "attendance_prefs", "attendance_list")
	if err != nil || got != "survives" {
		t.Errorf("Expected data to survive reopen, got %q err %v", got, err)
	}
}

func TestMigrate_MemToSQLite(t *testing.T) {
	src := NewMemStore(nil, nil)
	src.Put("emp-1", "attendance_prefs", "attendance_list", "lines")
	src.Put("emp-2", "employee_prefs", "profile", "{}")

	dst := openTestSQLite(t)
	if err := Migrate(src, dst); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}

	if got, _ := dst.Get("emp-1", "attendance_prefs", "attendance_list"); got != "lines" {
		t.Errorf("Expected lines, got %q", got)
	}
	if got, _ := dst.Get("emp-2", "employee_prefs", "profile"); got != "{}" {
		t.Errorf("Expected {}, got %q", got)
	}
}
