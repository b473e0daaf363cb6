package storage

import "time"

// CollectionOptions carries the schema-derived behavior the engine applies
// per collection: timestamp stamping and unique-field enforcement.
type CollectionOptions struct {
	Timestamps   bool
	UniqueFields []string
}

type Option func(*Engine)

// WithCollection registers schema-derived options for a collection.
func WithCollection(name string, opts CollectionOptions) Option {
	return func(engine *Engine) {
		engine.collOptions[name] = opts
	}
}

// WithDataFile sets the snapshot file used by SaveToFile/LoadFromFile when
// called without an explicit path, and by the background save worker.
func WithDataFile(path string) Option {
	return func(engine *Engine) {
		engine.dataFile = path
	}
}

// WithBackgroundSave enables periodic snapshot saves at the given interval.
// The worker only runs after StartBackgroundWorkers.
func WithBackgroundSave(interval time.Duration) Option {
	return func(engine *Engine) {
		engine.backgroundSave = true
		engine.saveInterval = interval
	}
}
