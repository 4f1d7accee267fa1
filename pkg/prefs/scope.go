package prefs

import "github.com/hronline/attendance-store/internal/vault"

// NewScope pins an owner and namespace on any Store implementation.
// Engine implementations and the remote SDK client both hand this out.
func NewScope(s Store, ownerID, namespace string) NamespaceScope {
	return &storeScope{store: s, ownerID: ownerID, namespace: namespace}
}

type storeScope struct {
	store     Store
	ownerID   string
	namespace string
}

func (a *storeScope) Get(key string) (string, error) {
	return a.store.Get(a.ownerID, a.namespace, key)
}

func (a *storeScope) Put(key, value string) error {
	return a.store.Put(a.ownerID, a.namespace, key, value)
}

func (a *storeScope) Delete(key string) error {
	return a.store.Delete(a.ownerID, a.namespace, key)
}

func (a *storeScope) Vault(masterKey []byte) VaultScope {
	return &vaultScope{scope: a, masterKey: masterKey}
}

// vaultScope encrypts values before they reach the underlying store and
// decrypts them on the way out, so punch locations never sit on disk in
// the clear when an installation opts in.
type vaultScope struct {
	scope     *storeScope
	masterKey []byte
}

func (v *vaultScope) Put(key, plaintext string) error {
	ciphertext, err := vault.Encrypt(plaintext, v.masterKey)
	if err != nil {
		return err
	}
	return v.scope.Put(key, ciphertext)
}

func (v *vaultScope) Get(key string) (string, error) {
	ciphertext, err := v.scope.Get(key)
	if err != nil {
		return "", err
	}
	return vault.Decrypt(ciphertext, v.masterKey)
}
