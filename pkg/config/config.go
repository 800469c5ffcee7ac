package config

import (
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/reviewdesk/reviewkit/pkg/logging"
)

var logger = logging.Component("pkg/config")

type Config map[string]string

// Parse reads dotenv formatted KEY=VALUE pairs. Comments, quoting and the
// "export" prefix follow godotenv rules.
func Parse(r io.Reader) (Config, error) {
	values, err := godotenv.Parse(r)
	if err != nil {
		return nil, err
	}
	return Config(values), nil
}

// LoadFile parses the file at path. A missing file yields an empty Config.
func LoadFile(path string) (Config, error) {
	logger.Debugf("Loading config from %s", path)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(Config), nil
		}
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

func (c Config) Merge(other Config) {
	for k, v := range other {
		c[k] = v
	}
}

func (c Config) Get(key string, defaultValue string) string {
	if v, ok := c[key]; ok {
		return v
	}
	return defaultValue
}

// Lookup reports whether key is present with a non-empty value.
func (c Config) Lookup(key string) (string, bool) {
	v, ok := c[key]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// MergeConfigs merges configs with the first argument taking precedence.
func MergeConfigs(priority ...Config) Config {
	res := make(Config)
	for i := len(priority) - 1; i >= 0; i-- {
		res.Merge(priority[i])
	}
	return res
}

// FromEnviron builds a Config from KEY=VALUE entries. A key ending in "_"
// selects every variable with that prefix; any other key must match exactly.
func FromEnviron(environ []string, keys ...string) Config {
	res := make(Config)
	for _, env := range environ {
		parts := strings.SplitN(env, "=", 2)
		if len(parts) != 2 {
			continue
		}
		if matchesKey(parts[0], keys) {
			res[parts[0]] = parts[1]
		}
	}
	return res
}

func GetEnvConfig(keys ...string) Config {
	return FromEnviron(os.Environ(), keys...)
}

func matchesKey(name string, keys []string) bool {
	for _, k := range keys {
		if name == k {
			return true
		}
		if strings.HasSuffix(k, "_") && strings.HasPrefix(name, k) {
			return true
		}
	}
	return false
}
