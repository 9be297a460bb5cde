package config

import (
	"strconv"
	"time"

	"github.com/apex/log"
)

// keySource is the single lookup every backend has to provide. The typed
// accessors are shared on top of it.
type keySource func(key string) string

func (get keySource) mustString(key string) string {
	val := get(key)
	if val == "" {
		log.Fatalf("No such required config key: '%s'", key)
	}

	return val
}

func (get keySource) withDefault(key, defaultValue string) string {
	if val := get(key); val != "" {
		return val
	}

	return defaultValue
}

func (get keySource) intOr(key string, defaultValue int) int {
	intVal, err := strconv.Atoi(get(key))
	if err != nil {
		return defaultValue
	}

	return intVal
}

func (get keySource) mustInt(key string) int {
	intVal, err := strconv.Atoi(get(key))
	if err != nil {
		log.Fatalf("Required config key either doesn't exist or isn't an int: '%s': %s", key, err)
	}

	return intVal
}

func (get keySource) boolOr(key string, defaultValue bool) bool {
	b, err := strconv.ParseBool(get(key))
	if err != nil {
		return defaultValue
	}

	return b
}

// durationOr accepts either a Go duration ("30s") or a bare number of seconds.
func (get keySource) durationOr(key string, defaultValue time.Duration) time.Duration {
	val := get(key)
	if val == "" {
		return defaultValue
	}

	if d, err := time.ParseDuration(val); err == nil {
		return d
	}

	if secs, err := strconv.Atoi(val); err == nil {
		return time.Duration(secs) * time.Second
	}

	return defaultValue
}
