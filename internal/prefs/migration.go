package prefs

import (
	"fmt"

	"github.com/hronline/attendance-store/pkg/prefs"
)

// Migrate copies every owner/namespace/key from a source store to a
// destination store. This works for:
// - Embedded -> Remote (moving an installation onto a daemon)
// - Remote -> Embedded (backup / offline)
// - JSON files -> SQLite (backend switch)
func Migrate(src prefs.Store, dst prefs.Store) error {
	owners, err := src.Owners()
	if err != nil {
		return fmt.Errorf("failed to list owners: %w", err)
	}

	for _, ownerID := range owners {
		namespaces, err := src.Namespaces(ownerID)
		if err != nil {
			return fmt.Errorf("failed to list namespaces for owner %s: %w", ownerID, err)
		}

		for _, ns := range namespaces {
			data, err := src.NamespaceStore(ownerID, ns)
			if err != nil {
				return fmt.Errorf("failed to dump namespace %s for owner %s: %w", ns, ownerID, err)
			}

			for k, v := range data {
				if err := dst.Put(ownerID, ns, k, v); err != nil {
					return fmt.Errorf("failed to put key %s in destination: %w", k, err)
				}
			}
		}
	}
	return nil
}
