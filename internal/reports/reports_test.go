package reports

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "reports")
	now := time.Date(2026, 3, 4, 5, 6, 7, 0, time.FixedZone("CET", 3600))

	path, err := WriteJSON(map[string]int{"blocks": 60}, dir, "zk-fee-profile", now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "zk-fee-profile-20260304-040607.json"), path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var got map[string]int
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, 60, got["blocks"])
}

func TestWriteJSONDefaultPrefix(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteJSON([]string{}, dir, "", time.Unix(0, 0))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "report-19700101-000000.json"), path)
}

func TestWriteJSONMarshalError(t *testing.T) {
	_, err := WriteJSON(make(chan int), t.TempDir(), "bad", time.Now())
	assert.Error(t, err)
}
