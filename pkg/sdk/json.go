package sdk

import (
	"encoding/json"

	"github.com/hronline/attendance-store/pkg/prefs"
)

// GetJSON reads a preferences value and unmarshals it into T. Used for
// structured documents like the employee profile, which sit next to the flat
// attendance list in the same store.
func GetJSON[T any](s prefs.Reader, ownerID, namespace, key string) (T, error) {
	var target T
	raw, err := s.Get(ownerID, namespace, key)
	if err != nil {
		return target, err
	}
	err = json.Unmarshal([]byte(raw), &target)
	return target, err
}

// PutJSON marshals v and stores it as a preferences value.
func PutJSON[T any](s prefs.Writer, ownerID, namespace, key string, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Put(ownerID, namespace, key, string(raw))
}
