package driven

// ConfigStore holds application configuration as raw values.
// Keys are dot-separated paths into the config file ("embedding.model").
// Typed interpretation belongs to the settings service.
type ConfigStore interface {
	// Get retrieves a raw value and whether the key exists.
	Get(key string) (any, bool)

	// Set stores a value. File-backed stores persist immediately.
	Set(key string, value any) error

	// Save persists the current configuration.
	Save() error

	// Load re-reads configuration from storage.
	Load() error

	// Path returns where the configuration lives.
	Path() string
}
