package config

import (
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// ViperConfig reads a yaml/toml/json settings file. Environment variables
// with the same key take precedence over the file.
type ViperConfig struct {
	v    *viper.Viper
	path string
}

func NewViperConfig(path string) *ViperConfig {
	v := viper.New()
	v.AutomaticEnv()
	return &ViperConfig{v: v, path: path}
}

func (c *ViperConfig) LoadFromPath(path string) error {
	c.path = path
	return c.Load()
}

func (c *ViperConfig) Load() error {
	path, err := homedir.Expand(c.path)
	if err != nil {
		return err
	}

	c.v.SetConfigFile(path)
	return c.v.ReadInConfig()
}

func (c *ViperConfig) GetKey(key string) string {
	return c.v.GetString(key)
}

func (c *ViperConfig) source() keySource { return c.GetKey }

func (c *ViperConfig) MustGetKey(key string) string { return c.source().mustString(key) }

func (c *ViperConfig) GetKeyWithDefault(key, defaultValue string) string {
	return c.source().withDefault(key, defaultValue)
}

func (c *ViperConfig) GetIntKey(key string) int { return c.source().intOr(key, 0) }

func (c *ViperConfig) MustGetIntKey(key string) int { return c.source().mustInt(key) }

func (c *ViperConfig) GetIntKeyWithDefault(key string, defaultValue int) int {
	return c.source().intOr(key, defaultValue)
}

func (c *ViperConfig) GetBoolKeyWithDefault(key string, defaultValue bool) bool {
	return c.source().boolOr(key, defaultValue)
}

func (c *ViperConfig) GetDurationKeyWithDefault(key string, defaultValue time.Duration) time.Duration {
	return c.source().durationOr(key, defaultValue)
}
