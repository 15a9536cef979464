package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, uint64(500), cfg.Rewards.InitialGrant)
	assert.Equal(t, uint64(10), cfg.Rewards.DailyEngagement)
	assert.Equal(t, uint64(50), cfg.Rewards.ReportSubmission)
	assert.Equal(t, uint64(5), cfg.Rewards.CommunityPost)
	assert.Equal(t, "kintaraa.db", cfg.Archive.Path)
	assert.Empty(t, cfg.Admin.Principals)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kintaraa.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
port = 9090

[rewards]
report_submission = 75

[admin]
principals = ["principal-ops-1"]
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, uint64(75), cfg.Rewards.ReportSubmission)
	assert.Equal(t, uint64(10), cfg.Rewards.DailyEngagement, "untouched keys keep defaults")
	assert.Equal(t, []string{"principal-ops-1"}, cfg.Admin.Principals)
}

func TestLoad_RejectsBadPort(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kintaraa.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server]\nport = -1\n"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}
