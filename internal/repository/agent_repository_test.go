package repository

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/zendesk-mcp/internal/domain"
	apperrors "github.com/spec-kit/zendesk-mcp/pkg/util"
)

func testDirectory(t *testing.T) AgentRepository {
	t.Helper()
	repo, err := NewAgentRepository([]domain.Agent{
		{Name: "Jane Doe", ID: 111},
		{Name: "John Smith", ID: 222},
		{Name: "jane Roe", ID: 333},
	})
	require.NoError(t, err)
	return repo
}

func TestResolveNumericIDSkipsDirectory(t *testing.T) {
	repo := testDirectory(t)

	id, err := repo.Resolve("12345")
	require.NoError(t, err)
	assert.Equal(t, int64(12345), id)
}

func TestResolveExactFullName(t *testing.T) {
	repo := testDirectory(t)

	id, err := repo.Resolve("jane Roe")
	require.NoError(t, err)
	assert.Equal(t, int64(333), id)
}

func TestResolveFirstNameTakesFirstMatch(t *testing.T) {
	repo := testDirectory(t)

	for _, input := range []string{"Jane", "JANE", "jane Unknown"} {
		id, err := repo.Resolve(input)
		require.NoError(t, err, input)
		assert.Equal(t, int64(111), id, input)
	}
}

func TestResolveUnknownNameIsNotFound(t *testing.T) {
	repo := testDirectory(t)

	_, err := repo.Resolve("Zed Nobody")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
	assert.Equal(t, "No agent found with name: Zed Nobody", err.Error())
}

func TestResolveEmptyAndBlankInput(t *testing.T) {
	repo := testDirectory(t)

	_, err := repo.Resolve("")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))

	_, err = repo.Resolve("   ")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestResolveOverflowingNumericID(t *testing.T) {
	repo := testDirectory(t)

	_, err := repo.Resolve("99999999999999999999999")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))
}

func TestNewAgentRepositoryRejectsBadEntries(t *testing.T) {
	_, err := NewAgentRepository([]domain.Agent{{Name: "A", ID: 1}, {Name: "A", ID: 2}})
	assert.ErrorContains(t, err, "duplicate")

	_, err = NewAgentRepository([]domain.Agent{{Name: "A", ID: 0}})
	assert.ErrorContains(t, err, "positive")

	_, err = NewAgentRepository([]domain.Agent{{Name: " ", ID: 4}})
	assert.ErrorContains(t, err, "name is required")
}

func TestLoadAgentRepositoryKeepsFileOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agents.yaml")
	content := "agents:\n  - name: Alex Kim\n    id: 10\n  - name: alex Park\n    id: 20\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	repo, err := LoadAgentRepository(path)
	require.NoError(t, err)

	id, err := repo.Resolve("Alex")
	require.NoError(t, err)
	assert.Equal(t, int64(10), id)
	assert.Equal(t, []domain.Agent{{Name: "Alex Kim", ID: 10}, {Name: "alex Park", ID: 20}}, repo.List())
}

func TestLoadAgentRepositoryEmptyPath(t *testing.T) {
	repo, err := LoadAgentRepository("")
	require.NoError(t, err)
	assert.Empty(t, repo.List())

	_, err = repo.Resolve("Jane")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestLoadAgentRepositoryMissingFile(t *testing.T) {
	_, err := LoadAgentRepository(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read agent directory")
}
