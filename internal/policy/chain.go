package policy

import (
	"errors"
	"fmt"
	"os"
)

// Chain is the ordered, merged set of policy layers in effect for a
// session: global, project, then an explicit layer from $GOSHELL_POLICY.
type Chain struct {
	Configs     []*Config
	ProjectRoot string
}

// LoadFile reads and parses a single policy TOML file, without pulling in
// the rest of the discovery chain. Used by goshell-policy-check's -config
// (without -all) mode to validate exactly one file.
func LoadFile(path string) (*Config, error) {
	return loadConfig(path)
}

// loadConfig reads and parses one TOML file.
func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrConfigRead, path, err)
	}
	cfg, err := parseConfig(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// LoadChain loads the layered policy chain: global, project, then an
// explicit path (the argument, or else $GOSHELL_POLICY) if non-empty. A
// missing global or project file is silently skipped; a missing explicit
// file, or a present-but-invalid file at any layer, is a hard error,
// matching the teacher's LoadConfigChain.
func LoadChain(explicitPath string) (*Chain, error) {
	chain := &Chain{ProjectRoot: findProjectRoot()}

	if p := findGlobalConfig(); p != "" {
		cfg, err := loadConfig(p)
		if err != nil {
			return nil, err
		}
		chain.Configs = append(chain.Configs, cfg)
	}

	if p := findProjectConfig(chain.ProjectRoot); p != "" {
		cfg, err := loadConfig(p)
		if err != nil {
			return nil, err
		}
		chain.Configs = append(chain.Configs, cfg)
	}

	if explicitPath == "" {
		explicitPath = os.Getenv("GOSHELL_POLICY")
	}
	if explicitPath != "" {
		cfg, err := loadConfig(explicitPath)
		if err != nil {
			return nil, err
		}
		chain.Configs = append(chain.Configs, cfg)
	}

	if len(chain.Configs) == 0 {
		chain.Configs = append(chain.Configs, DefaultConfig())
	}

	return chain, nil
}

// EffectiveDefault merges every layer's policy.default by strictness:
// deny > ask > allow, matching the teacher's isStricter/actionStrictness.
func (c *Chain) EffectiveDefault() (Action, string) {
	best := Allow
	msg := "blocked by goshell policy"
	for _, cfg := range c.Configs {
		if cfg.Policy.Default.strictness() > best.strictness() {
			best = cfg.Policy.Default
			msg = cfg.Policy.DefaultMessage
		}
	}
	return best, msg
}
