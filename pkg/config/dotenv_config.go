package config

import (
	"os"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/subosito/gotenv"
)

// DefaultDotenvPath is where vmconsoled and vmctl look for settings when
// no --config flag is given.
const DefaultDotenvPath = "~/.vmconsole.env"

// DotenvConfig loads a .env file into the process environment and then
// answers lookups from the environment, so exported variables override
// nothing but are visible alongside the file's values.
type DotenvConfig struct {
	DotenvPath string
}

func NewDotenvConfig(path string) *DotenvConfig {
	return &DotenvConfig{DotenvPath: path}
}

func (c *DotenvConfig) LoadFromPath(path string) error {
	c.DotenvPath = path
	return c.Load()
}

func (c *DotenvConfig) Load() error {
	path, err := homedir.Expand(c.DotenvPath)
	if err != nil {
		return err
	}

	return gotenv.Load(path)
}

func (c *DotenvConfig) GetKey(key string) string {
	return os.Getenv(key)
}

func (c *DotenvConfig) source() keySource { return c.GetKey }

func (c *DotenvConfig) MustGetKey(key string) string { return c.source().mustString(key) }

func (c *DotenvConfig) GetKeyWithDefault(key, defaultValue string) string {
	return c.source().withDefault(key, defaultValue)
}

func (c *DotenvConfig) GetIntKey(key string) int { return c.source().intOr(key, 0) }

func (c *DotenvConfig) MustGetIntKey(key string) int { return c.source().mustInt(key) }

func (c *DotenvConfig) GetIntKeyWithDefault(key string, defaultValue int) int {
	return c.source().intOr(key, defaultValue)
}

func (c *DotenvConfig) GetBoolKeyWithDefault(key string, defaultValue bool) bool {
	return c.source().boolOr(key, defaultValue)
}

func (c *DotenvConfig) GetDurationKeyWithDefault(key string, defaultValue time.Duration) time.Duration {
	return c.source().durationOr(key, defaultValue)
}
