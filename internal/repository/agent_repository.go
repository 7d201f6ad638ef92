package repository

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/spec-kit/zendesk-mcp/internal/domain"
	apperrors "github.com/spec-kit/zendesk-mcp/pkg/util"
)

// AgentRepository resolves agent names to backend user ids.
type AgentRepository interface {
	Resolve(nameOrID string) (int64, error)
	List() []domain.Agent
}

// agentDirectory is immutable once built; lookups need no locking.
type agentDirectory struct {
	agents []domain.Agent
	byName map[string]int64
}

type agentDirectoryFile struct {
	Agents []domain.Agent `yaml:"agents"`
}

// NewAgentRepository builds a directory. Iteration order is the order of agents.
func NewAgentRepository(agents []domain.Agent) (AgentRepository, error) {
	dir := &agentDirectory{
		agents: make([]domain.Agent, 0, len(agents)),
		byName: make(map[string]int64, len(agents)),
	}
	for i, agent := range agents {
		name := strings.TrimSpace(agent.Name)
		if name == "" {
			return nil, fmt.Errorf("agent %d: name is required", i)
		}
		if agent.ID <= 0 {
			return nil, fmt.Errorf("agent %q: id must be positive", name)
		}
		if _, dup := dir.byName[name]; dup {
			return nil, fmt.Errorf("agent %q: duplicate name", name)
		}
		dir.byName[name] = agent.ID
		dir.agents = append(dir.agents, domain.Agent{Name: name, ID: agent.ID})
	}
	return dir, nil
}

// LoadAgentRepository reads the directory from a YAML file. An empty path yields
// an empty directory, which still resolves numeric ids.
func LoadAgentRepository(path string) (AgentRepository, error) {
	if path == "" {
		return NewAgentRepository(nil)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read agent directory: %w", err)
	}
	var file agentDirectoryFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse agent directory %s: %w", path, err)
	}
	return NewAgentRepository(file.Agents)
}

// Resolve accepts a numeric id, an exact full name, or a first name.
// A first name matching several agents resolves to the first one listed.
func (d *agentDirectory) Resolve(nameOrID string) (int64, error) {
	if nameOrID == "" {
		return 0, apperrors.NewValidationError("Agent name is required", nil)
	}

	if isDigits(nameOrID) {
		id, err := strconv.ParseInt(nameOrID, 10, 64)
		if err != nil {
			return 0, apperrors.NewValidationError(fmt.Sprintf("Invalid agent id: %s", nameOrID), nil)
		}
		return id, nil
	}

	if id, ok := d.byName[nameOrID]; ok {
		return id, nil
	}

	if first := firstToken(nameOrID); first != "" {
		for _, agent := range d.agents {
			if strings.EqualFold(firstToken(agent.Name), first) {
				return agent.ID, nil
			}
		}
	}

	return 0, apperrors.NewNotFoundMessage(
		fmt.Sprintf("No agent found with name: %s", nameOrID),
		map[string]any{"agent_name": nameOrID},
	)
}

// List returns a copy of the directory in iteration order.
func (d *agentDirectory) List() []domain.Agent {
	out := make([]domain.Agent, len(d.agents))
	copy(out, d.agents)
	return out
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}

func firstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
