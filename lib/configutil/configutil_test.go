package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	EmailAddress string            `json:"email_address"`
	Timeout      int               `json:"timeout"`
	Headers      map[string]string `json:"headers"`
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(contents), 0600))
}

func TestReadConfigMergesLocalOverrides(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "vws-web.json5"), `{
		// comments are allowed
		email_address: "user@example.com",
		timeout: 10,
	}`)
	writeFile(t, filepath.Join(dir, "vws-web.local.json5"), `{timeout: 30}`)

	cfg, err := ReadConfig[testConfig](filepath.Join(dir, "vws-web.json5"))
	require.NoError(t, err)
	require.Equal(t, "user@example.com", cfg.EmailAddress)
	require.Equal(t, 30, cfg.Timeout)
}

func TestReadConfigOnlyLocal(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "vws-web.local.json5"), `{email_address: "local@example.com"}`)

	cfg, err := ReadConfig[testConfig](filepath.Join(dir, "vws-web.json5"))
	require.NoError(t, err)
	require.Equal(t, "local@example.com", cfg.EmailAddress)
}

func TestReadConfigMissing(t *testing.T) {
	_, err := ReadConfig[testConfig](filepath.Join(t.TempDir(), "vws-web.json5"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadConfigInvalid(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "vws-web.json5"), `{email_address: `)

	_, err := ReadConfig[testConfig](filepath.Join(dir, "vws-web.json5"))
	require.Error(t, err)
	require.NotErrorIs(t, err, os.ErrNotExist)
}

func TestReadRecursively(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0700))
	writeFile(t, filepath.Join(root, "vws-web.json5"), `{timeout: 5}`)

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(nested))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := ReadRecursively[testConfig]("vws-web.json5")
	require.NoError(t, err)
	require.Equal(t, 5, cfg.Timeout)
}

func TestLocalName(t *testing.T) {
	require.Equal(t, "dir/vws-web.local.json5", localName("dir/vws-web.json5"))
	require.Equal(t, "config.local", localName("config"))
}
