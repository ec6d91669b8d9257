// Package reports writes timestamped JSON report files.
//
// The profiler uses it when --report is set. Files land in the "reports/"
// directory of the working directory unless another directory is given.
package reports

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

// DefaultDir is the directory reports are written to.
const DefaultDir = "reports"

// WriteJSON pretty-prints data into dir/{prefix}-{YYYYMMDD-HHMMSS}.json and
// returns the path written. An empty dir means DefaultDir.
func WriteJSON(data any, dir, prefix string, now time.Time) (string, error) {
	if prefix == "" {
		prefix = "report"
	}
	if dir == "" {
		dir = DefaultDir
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "create reports directory")
	}

	ts := now.UTC().Format("20060102-150405")
	path := filepath.Join(dir, fmt.Sprintf("%s-%s.json", prefix, ts))

	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "marshal JSON")
	}

	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
		return "", errors.Wrap(err, "write report")
	}

	return path, nil
}
