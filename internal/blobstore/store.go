// internal/blobstore/store.go
package blobstore

import "context"

// Well-known snapshot keys. Every collection is persisted as a single
// UTF-8 blob under a fixed key, last write wins.
const (
	KeyProperties       = "properties"
	KeyMembers          = "members"
	KeyActivePropertyID = "activePropertyId"
	KeyWizardState      = "wizardState"
	KeyCredentials      = "credentials"
)

// Store is a string-keyed blob store. Implementations must be safe for
// concurrent use.
type Store interface {
	// Save writes the value under key, replacing any previous value.
	Save(ctx context.Context, key, value string) error
	// Load returns the value for key. ok is false when the key has
	// never been written; that is not an error.
	Load(ctx context.Context, key string) (value string, ok bool, err error)
	// Delete removes the key. Deleting an absent key is a no-op.
	Delete(ctx context.Context, key string) error
}
