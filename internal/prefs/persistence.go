package prefs

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Persistence handles the disk I/O for the MemStore. Each owner's namespaces
// land in one JSON file.
type Persistence struct {
	DataDir string
	mu      sync.Mutex // Protects concurrent writes to the filesystem
}

// NewPersistence initializes a persistence handler, creating the data
// directory if needed.
func NewPersistence(dir string) (*Persistence, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Persistence{DataDir: dir}, nil
}

// SaveOwner writes a single owner's data to a JSON file atomically: write a
// temp file, then rename. A crash leaves either the old file or the new one,
// never a torn write.
func (p *Persistence) SaveOwner(ownerID string, data map[string]map[string]string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	filePath := filepath.Join(p.DataDir, fmt.Sprintf("%s.json", ownerID))
	tempPath := filePath + ".tmp"

	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(tempPath, bytes, 0o644); err != nil {
		return err
	}
	return os.Rename(tempPath, filePath)
}

// LoadAll returns all owner data found in the data directory. Unreadable or
// corrupted files are skipped with a warning rather than failing startup.
func (p *Persistence) LoadAll() (map[string]map[string]map[string]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	allData := make(map[string]map[string]map[string]string)

	files, err := os.ReadDir(p.DataDir)
	if err != nil {
		return nil, err
	}

	for _, file := range files {
		if filepath.Ext(file.Name()) != ".json" {
			continue
		}
		ownerID := strings.TrimSuffix(file.Name(), ".json")

		content, err := os.ReadFile(filepath.Join(p.DataDir, file.Name()))
		if err != nil {
			log.Printf("Warning: could not read owner file %s: %v", file.Name(), err)
			continue
		}

		var ownerData map[string]map[string]string
		if err := json.Unmarshal(content, &ownerData); err != nil {
			log.Printf("Warning: could not unmarshal owner data from %s: %v", file.Name(), err)
			continue
		}
		allData[ownerID] = ownerData
	}
	return allData, nil
}
