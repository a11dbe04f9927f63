package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sift.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `{
  "allow_data_on_tables": ["users", "orders"],
  "filter_inserts": {
    "users": ["active == 1"],
    "orders": ["user_id->users.id"]
  }
}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []string{"users", "orders"}, cfg.AllowDataOnTables)
	require.Equal(t, map[string][]string{
		"users":  {"active == 1"},
		"orders": {"user_id->users.id"},
	}, cfg.FilterInserts)

	require.True(t, cfg.AllowsData("users"))
	require.True(t, cfg.AllowsData("USERS"))
	require.False(t, cfg.AllowsData("audit_log"))
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, `{
  "allow_data_on_tables": ["users"],
  "filter_inserts": {}
}`)
	t.Setenv("DUMPSIFT_ALLOW_DATA_ON_TABLES", "orders vendors")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []string{"orders", "vendors"}, cfg.AllowDataOnTables)
	require.True(t, cfg.AllowsData("vendors"))
	require.False(t, cfg.AllowsData("users"))
}

func TestLoadMissingFilterInserts(t *testing.T) {
	path := writeConfig(t, `{"allow_data_on_tables": []}`)

	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "filter_inserts")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}

func TestEmptyAllowListAllowsEverything(t *testing.T) {
	path := writeConfig(t, `{"filter_inserts": {}}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.True(t, cfg.AllowsData("anything"))
}
