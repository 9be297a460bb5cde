package config

import "time"

// Configer is the read side of the console's configuration. Keys are the
// VMC_* environment style names regardless of which backend holds them.
type Configer interface {
	LoadFromPath(path string) error
	Load() error
	GetKey(key string) string
	MustGetKey(key string) string
	GetKeyWithDefault(key, defaultValue string) string
	GetIntKey(key string) int
	MustGetIntKey(key string) int
	GetIntKeyWithDefault(key string, defaultValue int) int
	GetBoolKeyWithDefault(key string, defaultValue bool) bool
	GetDurationKeyWithDefault(key string, defaultValue time.Duration) time.Duration
}
