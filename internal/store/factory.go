package store

import "fmt"

// BackendType selects the physical record store.
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

func (bt BackendType) String() string { return string(bt) }

// IsValid reports whether the backend type is known.
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// OpenFunc creates a backend from its configuration. Implementations
// register themselves to keep this package free of driver imports.
type OpenFunc func(cfg Config) (Backend, error)

// Config holds what the concrete backends need to open.
type Config struct {
	Type BackendType

	// SQLite specific
	SQLitePath string
}

var openers = map[BackendType]OpenFunc{}

// Register installs the opener for a backend type. Called from the concrete
// packages' init functions.
func Register(bt BackendType, open OpenFunc) {
	openers[bt] = open
}

// Open creates the backend selected by cfg.Type.
func Open(cfg Config) (Backend, error) {
	if !cfg.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", cfg.Type)
	}
	open, ok := openers[cfg.Type]
	if !ok {
		return nil, fmt.Errorf("backend %s not compiled in", cfg.Type)
	}
	return open(cfg)
}
