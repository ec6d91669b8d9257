// Package env loads KEY=VALUE pairs from a .env file into the process
// environment, so RPC_URL and the ZK_FEE_* settings can live in an
// uncommitted file next to the binary.
package env

import (
	"os"
	"strings"

	"github.com/pkg/errors"
)

// DefaultFile is read by Load when no path is given.
const DefaultFile = ".env"

// Load reads path (DefaultFile when empty) and sets every variable that is
// not already present in the environment. A missing file is not an error.
// It returns the number of variables set.
//
// File format: one KEY=VALUE per line, blank lines and lines starting with #
// ignored, an optional "export " prefix, values optionally wrapped in single
// or double quotes.
func Load(path string) (int, error) {
	if path == "" {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, errors.WithMessagef(err, "read %s", path)
	}

	loaded := 0
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		key, value, ok := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return loaded, errors.Errorf("%s:%d: expected KEY=VALUE", path, i+1)
		}
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return loaded, errors.WithMessagef(err, "set %s", key)
		}
		loaded++
	}
	return loaded, nil
}
