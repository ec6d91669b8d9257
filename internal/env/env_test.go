package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := `# profiler settings
RPC_URL="https://rpc.example.org/v1/key=abc"
export ZK_FEE_TEST_STEP=4

ZK_FEE_TEST_BLOCKS='60'
ZK_FEE_TEST_PRESET=from-file
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("RPC_URL", "")
	os.Unsetenv("RPC_URL")
	t.Setenv("ZK_FEE_TEST_STEP", "")
	os.Unsetenv("ZK_FEE_TEST_STEP")
	t.Setenv("ZK_FEE_TEST_BLOCKS", "")
	os.Unsetenv("ZK_FEE_TEST_BLOCKS")
	t.Setenv("ZK_FEE_TEST_PRESET", "from-env")

	n, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	assert.Equal(t, "https://rpc.example.org/v1/key=abc", os.Getenv("RPC_URL"))
	assert.Equal(t, "4", os.Getenv("ZK_FEE_TEST_STEP"))
	assert.Equal(t, "60", os.Getenv("ZK_FEE_TEST_BLOCKS"))
	assert.Equal(t, "from-env", os.Getenv("ZK_FEE_TEST_PRESET"), "existing variables win")
}

func TestLoadMissingFile(t *testing.T) {
	n, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestLoadMalformedLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("JUST_A_KEY\n"), 0o600))

	_, err := Load(path)
	assert.ErrorContains(t, err, ":1: expected KEY=VALUE")
}
