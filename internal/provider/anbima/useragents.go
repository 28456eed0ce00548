package anbima

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"strings"
)

// DefaultUserAgentSkipRows is the number of header lines at the top of the user-agent list.
const DefaultUserAgentSkipRows = 4

// UserAgentPool is a read-only list of User-Agent header values.
type UserAgentPool struct {
	agents []string
}

// NewUserAgentPool builds a pool; at least one agent is required.
func NewUserAgentPool(agents []string) (*UserAgentPool, error) {
	var clean []string
	for _, a := range agents {
		if a = strings.TrimSpace(a); a != "" {
			clean = append(clean, a)
		}
	}
	if len(clean) == 0 {
		return nil, errors.New("user-agent pool is empty")
	}
	return &UserAgentPool{agents: clean}, nil
}

// LoadUserAgents reads one user agent per line, skipping the first skipRows lines
// and blank lines.
func LoadUserAgents(path string, skipRows int) (*UserAgentPool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read user agents %s: %w", path, err)
	}
	lines := strings.Split(strings.ReplaceAll(string(content), "\r\n", "\n"), "\n")
	if skipRows > len(lines) {
		skipRows = len(lines)
	}
	pool, err := NewUserAgentPool(lines[skipRows:])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	slog.Info("loaded user agents", "count", pool.Len(), "path", path)
	return pool, nil
}

// Pick returns an agent chosen uniformly at random.
func (p *UserAgentPool) Pick() string {
	return p.agents[rand.IntN(len(p.agents))]
}

// Len returns the pool size.
func (p *UserAgentPool) Len() int { return len(p.agents) }
