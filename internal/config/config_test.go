package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ktstephano-labs/vm32/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "vm32.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadParsesRegions(t *testing.T) {
	path := writeConfig(t, `
[[region]]
name = "ram0"
kind = "ram"
base = 0
size_bytes = 4096
`)

	m, err := config.Load(path)
	require.NoError(t, err)
	require.Len(t, m.Region, 1)
	require.Equal(t, "ram0", m.Region[0].Name)
	require.Equal(t, uint32(4096), m.Region[0].SizeByte)
}

func TestLoadRejectsMisalignedBase(t *testing.T) {
	path := writeConfig(t, `
[[region]]
name = "bad"
kind = "ram"
base = 2
size_bytes = 256
`)

	_, err := config.Load(path)
	require.Error(t, err)
}

func TestLoadRejectsZeroSize(t *testing.T) {
	path := writeConfig(t, `
[[region]]
name = "bad"
kind = "ram"
base = 0
size_bytes = 0
`)

	_, err := config.Load(path)
	require.Error(t, err)
}
