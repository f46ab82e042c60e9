package store

// PreferenceStore persists user preferences as plain string values
type PreferenceStore interface {
	// Get returns the value stored under key, found is false when nothing was stored
	Get(key string) (value string, found bool, err error)
	Set(key, value string) error
}
