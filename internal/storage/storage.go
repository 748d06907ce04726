package storage

// Persistence keys. Every collection is stored whole under a single key so a
// write is always a complete, consistent snapshot of that collection.
const (
	KeyUsers       = "users"
	KeyRooms       = "chatRooms"
	KeyMessages    = "messages"
	KeyCurrentUser = "currentUser"
	KeyAdminConfig = "adminConfig"

	sessionPrefix = "session:"
)

// SessionKey returns the per-username saved-identity key.
func SessionKey(username string) string {
	return sessionPrefix + username
}

// Store is the injected key-value capability the engine persists through.
// Implementations must be synchronous: when Set returns nil the value is
// durable.
type Store interface {
	// Get returns the stored value and whether the key exists.
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Close() error
}
