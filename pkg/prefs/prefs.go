// Package prefs defines the host key/value preferences contract for the
// attendance platform. Values are plain strings, addressed by an owner
// (typically an employee ID), a namespace, and a key, the same shape the
// mobile client's shared-preferences bag exposes.
package prefs

import "errors"

var (
	// ErrOwnerNotFound is returned when a requested owner has no data.
	ErrOwnerNotFound = errors.New("owner not found")
	// ErrNamespaceNotFound is returned when a requested namespace does not exist within an owner.
	ErrNamespaceNotFound = errors.New("namespace not found")
	// ErrKeyNotFound is returned when a requested key does not exist within a namespace.
	ErrKeyNotFound = errors.New("key not found")
)

// SystemOwner is the reserved ID for global/system-level data.
const SystemOwner = "_system"

// --- Functional Interfaces (Interface Segregation) ---

// Reader defines the basic read operation for the store.
type Reader interface {
	Get(ownerID, namespace, key string) (string, error)
}

// Writer defines the basic write and delete operations for the store.
type Writer interface {
	Put(ownerID, namespace, key, value string) error
	Delete(ownerID, namespace, key string) error
}

// Enumerator allows discovering owners and their namespaces.
type Enumerator interface {
	Owners() ([]string, error)
	Namespaces(ownerID string) ([]string, error)
}

// Exporter allows retrieving bulk data.
type Exporter interface {
	// NamespaceStore returns all keys and values for one owner and namespace.
	NamespaceStore(ownerID, namespace string) (map[string]string, error)
	// DumpNamespace retrieves a namespace across ALL owners, keyed by owner ID.
	DumpNamespace(namespace string) (map[string]map[string]string, error)
}

// Mover handles higher-level data operations like transfers between owners.
type Mover interface {
	// Move transfers a key and its value from a source owner to a destination
	// owner, e.g. when an employee is re-badged under a new ID.
	Move(srcOwner, dstOwner, namespace, key string) error
}

// --- Composite Interfaces ---

// Store is the primary interface for interacting with the preferences store.
// Both the embedded engines and the remote network client implement this contract.
type Store interface {
	Reader
	Writer
	Enumerator
	Exporter
	Mover

	// Scope returns a NamespaceScope that simplifies operations by "pinning"
	// an owner and a namespace.
	Scope(ownerID, namespace string) NamespaceScope
}

// Bag is the two-method view a single consumer needs: one namespace's keys.
// The attendance record store runs entirely against this interface.
type Bag interface {
	Get(key string) (string, error)
	Put(key, value string) error
}

// NamespaceScope provides a simplified, scoped interface for one owner and namespace.
type NamespaceScope interface {
	Bag
	Delete(key string) error
	// Vault returns a scope that encrypts values at rest with the given master key.
	Vault(masterKey []byte) VaultScope
}

// VaultScope stores values AES-GCM encrypted under the scope's namespace.
type VaultScope interface {
	Bag
}
