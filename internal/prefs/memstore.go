// Package prefs implements the host preference-store engines: an in-memory
// map with background JSON persistence, and a sqlite-backed variant.
package prefs

import (
	"sync"

	"github.com/hronline/attendance-store/pkg/prefs"
)

// MemStore is the in-memory preferences engine.
type MemStore struct {
	mu sync.RWMutex
	// Structure: [ownerID][namespace][key]value
	data      map[string]map[string]map[string]string
	persister *Persistence
	wg        sync.WaitGroup
}

// NewMemStore initializes an engine from existing data (from LoadAll) and an
// optional persister. Both may be nil.
func NewMemStore(initialData map[string]map[string]map[string]string, p *Persistence) *MemStore {
	if initialData == nil {
		initialData = make(map[string]map[string]map[string]string)
	}
	return &MemStore{
		data:      initialData,
		persister: p,
	}
}

// Wait blocks until all background persistence tasks have completed.
func (m *MemStore) Wait() {
	m.wg.Wait()
}

func (m *MemStore) Get(ownerID, namespace, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	owner, ok := m.data[ownerID]
	if !ok {
		return "", prefs.ErrOwnerNotFound
	}

	ns, ok := owner[namespace]
	if !ok {
		return "", prefs.ErrNamespaceNotFound
	}

	val, ok := ns[key]
	if !ok {
		return "", prefs.ErrKeyNotFound
	}
	return val, nil
}

func (m *MemStore) Put(ownerID, namespace, key, value string) error {
	m.mu.Lock()
	if m.data[ownerID] == nil {
		m.data[ownerID] = make(map[string]map[string]string)
	}
	if m.data[ownerID][namespace] == nil {
		m.data[ownerID][namespace] = make(map[string]string)
	}
	m.data[ownerID][namespace][key] = value

	// Deep copy the owner's state so the background save reads stable data.
	snapshot := m.copyOwnerData(ownerID)
	m.mu.Unlock()

	m.persistAsync(ownerID, snapshot)
	return nil
}

func (m *MemStore) Delete(ownerID, namespace, key string) error {
	m.mu.Lock()
	if owner, ok := m.data[ownerID]; ok {
		if ns, ok := owner[namespace]; ok {
			delete(ns, key)
		}
	}
	snapshot := m.copyOwnerData(ownerID)
	m.mu.Unlock()

	m.persistAsync(ownerID, snapshot)
	return nil
}

func (m *MemStore) persistAsync(ownerID string, snapshot map[string]map[string]string) {
	if m.persister == nil {
		return
	}
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.persister.SaveOwner(ownerID, snapshot)
	}()
}

// copyOwnerData creates a deep copy of an owner's data.
// It MUST be called while holding m.mu.
func (m *MemStore) copyOwnerData(ownerID string) map[string]map[string]string {
	original, ok := m.data[ownerID]
	if !ok {
		return nil
	}

	ownerCopy := make(map[string]map[string]string, len(original))
	for namespace, nsData := range original {
		nsCopy := make(map[string]string, len(nsData))
		for k, v := range nsData {
			nsCopy[k] = v
		}
		ownerCopy[namespace] = nsCopy
	}
	return ownerCopy
}

func (m *MemStore) Owners() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var list []string
	for id := range m.data {
		list = append(list, id)
	}
	return list, nil
}

func (m *MemStore) Namespaces(ownerID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var list []string
	if namespaces, ok := m.data[ownerID]; ok {
		for ns := range namespaces {
			list = append(list, ns)
		}
	}
	return list, nil
}

func (m *MemStore) NamespaceStore(ownerID, namespace string) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if owner, ok := m.data[ownerID]; ok {
		if ns, ok := owner[namespace]; ok {
			// Return a copy to prevent external mutation of the internal map.
			out := make(map[string]string, len(ns))
			for k, v := range ns {
				out[k] = v
			}
			return out, nil
		}
	}
	return nil, prefs.ErrNamespaceNotFound
}

func (m *MemStore) DumpNamespace(namespace string) (map[string]map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]map[string]string)
	for ownerID, owner := range m.data {
		if ns, ok := owner[namespace]; ok {
			nsCopy := make(map[string]string, len(ns))
			for k, v := range ns {
				nsCopy[k] = v
			}
			out[ownerID] = nsCopy
		}
	}
	return out, nil
}

func (m *MemStore) Move(srcOwner, dstOwner, namespace, key string) error {
	val, err := m.Get(srcOwner, namespace, key)
	if err != nil {
		return err
	}
	if err := m.Put(dstOwner, namespace, key, val); err != nil {
		return err
	}
	return m.Delete(srcOwner, namespace, key)
}

func (m *MemStore) Scope(ownerID, namespace string) prefs.NamespaceScope {
	return prefs.NewScope(m, ownerID, namespace)
}
