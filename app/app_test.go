package app

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func projectConfigPath(t *testing.T) string {
	t.Helper()

	root, err := filepath.Abs("..")
	require.NoError(t, err)

	return filepath.Join(root, "etc") + string(filepath.Separator)
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)

	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		dumpJSON = false
	})

	err := Execute()

	return out.String(), err
}

func TestConfigCommand(t *testing.T) {
	out, err := run(t, "config", "--config", projectConfigPath(t))
	require.NoError(t, err)
	assert.Contains(t, out, `Title = "CoLearnHub"`)

	out, err = run(t, "config", "--json", "--config", projectConfigPath(t))
	require.NoError(t, err)
	assert.Contains(t, out, `"Title": "CoLearnHub"`)
}

func TestConfigCommandMasksSecrets(t *testing.T) {
	t.Setenv("COLEARNHUB_CONFIG_JSON", `{"DB":{"Password":"db-pass"},"Gateway":{"APIKey":"api-key"}}`)

	for _, args := range [][]string{{"config"}, {"config", "--json"}} {
		out, err := run(t, append(args, "--config", projectConfigPath(t))...)
		require.NoError(t, err)
		assert.NotContains(t, out, "db-pass")
		assert.NotContains(t, out, "api-key")
		assert.Contains(t, out, "******")
	}
}

func TestConfigCommandMissingFile(t *testing.T) {
	_, err := run(t, "config", "--config", t.TempDir()+string(filepath.Separator))
	require.Error(t, err)
}

func TestMigrateCommand(t *testing.T) {
	dbFile := filepath.Join(t.TempDir(), "migrate.db")
	t.Setenv("COLEARNHUB_CONFIG_JSON", `{"DB":{"GormEngine":"sqlite","Name":"`+dbFile+`"}}`)

	_, err := run(t, "migrate", "--config", projectConfigPath(t))
	require.NoError(t, err)

	_, err = os.Stat(dbFile)
	require.NoError(t, err)
}
