package sdk

import (
	"os"
	"path/filepath"

	enginestore "github.com/hronline/attendance-store/internal/prefs"
	"github.com/hronline/attendance-store/pkg/prefs"
)

// New initializes a preferences store based on the environment and returns
// the interface, so callers don't care whether it is local or remote.
//
// ATTENDANCE_STORE_ADDR selects a remote daemon; otherwise an embedded
// engine is used, sqlite-backed when ATTENDANCE_BACKEND=sqlite, JSON files
// in dataDir otherwise.
func New(dataDir string) (prefs.Store, error) {
	if remoteAddr := os.Getenv("ATTENDANCE_STORE_ADDR"); remoteAddr != "" {
		client, err := Connect(remoteAddr)
		if err == nil {
			return client, nil
		}
		// Connection failed; fall through to embedded mode.
	}

	if os.Getenv("ATTENDANCE_BACKEND") == "sqlite" {
		return enginestore.NewSQLiteStore(filepath.Join(dataDir, "prefs.db"))
	}

	p, err := enginestore.NewPersistence(dataDir)
	if err != nil {
		return nil, err
	}
	allData, err := p.LoadAll()
	if err != nil {
		return nil, err
	}
	return enginestore.NewMemStore(allData, p), nil
}
