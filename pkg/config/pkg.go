package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/apex/log"
)

var configer Configer = &DotenvConfig{DotenvPath: DefaultDotenvPath}

func SetConfig(c Configer) {
	configer = c
}

func GetConfig() Configer {
	return configer
}

// New picks a backend from the file extension: .env files go through
// gotenv, anything else viper understands goes through viper.
func New(path string) Configer {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".toml", ".json":
		return NewViperConfig(path)
	default:
		return NewDotenvConfig(path)
	}
}

// MustLoad installs the backend for path as the package config and loads it.
// A missing default dotenv file is not an error; the environment alone may
// carry everything.
func MustLoad(path string) Configer {
	if path == "" {
		path = DefaultDotenvPath
	}

	c := New(path)
	if err := c.Load(); err != nil {
		if path != DefaultDotenvPath {
			log.Fatalf("Unable to load config %s: %s", path, err)
		}
		log.Debugf("No config at %s, using environment only", path)
	}

	SetConfig(c)
	return c
}

// MustLoadFromDotenv loads ~/.vmconsole.env, or the file named by VMC_CONFIG.
func MustLoadFromDotenv() Configer {
	return MustLoad(os.Getenv("VMC_CONFIG"))
}

func LoadFromPath(path string) error {
	return configer.LoadFromPath(path)
}

func Load() error {
	return configer.Load()
}

func GetKey(key string) string {
	return configer.GetKey(key)
}

func MustGetKey(key string) string {
	return configer.MustGetKey(key)
}

func GetKeyWithDefault(key, defaultValue string) string {
	return configer.GetKeyWithDefault(key, defaultValue)
}

func GetIntKey(key string) int {
	return configer.GetIntKey(key)
}

func MustGetIntKey(key string) int {
	return configer.MustGetIntKey(key)
}

func GetIntKeyWithDefault(key string, defaultValue int) int {
	return configer.GetIntKeyWithDefault(key, defaultValue)
}

func GetBoolKeyWithDefault(key string, defaultValue bool) bool {
	return configer.GetBoolKeyWithDefault(key, defaultValue)
}

func GetDurationKeyWithDefault(key string, defaultValue time.Duration) time.Duration {
	return configer.GetDurationKeyWithDefault(key, defaultValue)
}
