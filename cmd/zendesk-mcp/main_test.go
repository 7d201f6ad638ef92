package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/zendesk-mcp/internal/config"
	"github.com/spec-kit/zendesk-mcp/internal/observability"
)

func TestVersionCmd(t *testing.T) {
	origVersion, origCommit, origDate := Version, Commit, Date
	Version, Commit, Date = "1.0.0", "abc123", "2026-01-01"
	defer func() { Version, Commit, Date = origVersion, origCommit, origDate }()

	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "zendesk-mcp 1.0.0 (commit: abc123, built: 2026-01-01)\n", buf.String())
}

func TestServeFailsWithoutConfig(t *testing.T) {
	t.Setenv("ZENDESK_SUBDOMAIN", "")
	t.Setenv("ZENDESK_BASE_URL", "")
	t.Setenv("ZENDESK_USERNAME", "")
	t.Setenv("ZENDESK_API_TOKEN", "")

	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"serve"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ZENDESK_USERNAME")
}

func TestBuildMCPServerLoadsDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agents.yaml")
	require.NoError(t, os.WriteFile(path, []byte("agents:\n  - name: Jane Doe\n    id: 1\n"), 0o600))

	cfg := &config.Config{
		App:       config.AppConfig{Name: "Zendesk MCP Server", Version: "1.0.0"},
		Zendesk:   config.ZendeskConfig{BaseURL: "http://127.0.0.1:1", Username: "u", APIToken: "t"},
		Directory: config.DirectoryConfig{File: path},
	}
	s, err := buildMCPServer(cfg, zap.NewNop(), observability.NewMetrics())
	require.NoError(t, err)
	assert.NotNil(t, s)

	cfg.Directory.File = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = buildMCPServer(cfg, zap.NewNop(), observability.NewMetrics())
	assert.Error(t, err)
}
