package config

import (
	"fmt"
	"sync"
	"time"
)

// MapConfig is a fixed set of values, mostly used by tests.
type MapConfig struct {
	configValues sync.Map
}

func NewMapConfig(entries map[string]string) *MapConfig {
	c := &MapConfig{}

	for key, entry := range entries {
		c.configValues.Store(key, entry)
	}

	return c
}

func (c *MapConfig) Set(key, value string) {
	c.configValues.Store(key, value)
}

func (c *MapConfig) LoadFromPath(_ string) error {
	return fmt.Errorf("LoadFromPath not supported for MapConfig")
}

func (c *MapConfig) Load() error {
	return nil
}

func (c *MapConfig) GetKey(key string) string {
	v, ok := c.configValues.Load(key)
	if !ok || v == nil {
		return ""
	}

	s, _ := v.(string)
	return s
}

func (c *MapConfig) source() keySource { return c.GetKey }

func (c *MapConfig) MustGetKey(key string) string { return c.source().mustString(key) }

func (c *MapConfig) GetKeyWithDefault(key, defaultValue string) string {
	return c.source().withDefault(key, defaultValue)
}

func (c *MapConfig) GetIntKey(key string) int { return c.source().intOr(key, 0) }

func (c *MapConfig) MustGetIntKey(key string) int { return c.source().mustInt(key) }

func (c *MapConfig) GetIntKeyWithDefault(key string, defaultValue int) int {
	return c.source().intOr(key, defaultValue)
}

func (c *MapConfig) GetBoolKeyWithDefault(key string, defaultValue bool) bool {
	return c.source().boolOr(key, defaultValue)
}

func (c *MapConfig) GetDurationKeyWithDefault(key string, defaultValue time.Duration) time.Duration {
	return c.source().durationOr(key, defaultValue)
}
