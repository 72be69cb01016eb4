package policy

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Action is a policy decision, ordered by strictness for merge purposes:
// deny (strictest) > ask > allow.
type Action string

const (
	Allow Action = "allow"
	Ask   Action = "ask"
	Deny  Action = "deny"
	unset Action = ""
)

func (a Action) valid() bool {
	return a == Allow || a == Ask || a == Deny
}

// strictness ranks an action for merge/specificity tie-breaking: higher
// wins. Ported from the teacher's config_merge.go actionStrictness.
func (a Action) strictness() int {
	switch a {
	case Deny:
		return 2
	case Ask:
		return 1
	case Allow:
		return 0
	default:
		return -1
	}
}

// Config is one layer of the policy chain, loaded from a single TOML file.
type Config struct {
	Path   string       `toml:"-"`
	Policy PolicySection `toml:"policy"`
	Rules  []Rule        `toml:"rule"`
	Redirects []RedirectRule `toml:"redirect"`
}

// PolicySection is the [policy] table: the fallback action when nothing
// matches.
type PolicySection struct {
	Default        Action `toml:"default"`
	DefaultMessage string `toml:"default_message"`
}

// Rule is one [[rule]] entry matching against a command name and,
// optionally, requiring one of its arguments to contain a literal
// substring.
type Rule struct {
	Command      string   `toml:"command"` // literal, "re:", "path:", "flags:", or "*"
	Action       Action   `toml:"action"`
	Message      string   `toml:"message"`
	ArgsContains []string `toml:"args_contains"`
}

// RedirectRule is one [[redirect]] entry matching against a redirection
// target path.
type RedirectRule struct {
	Action  Action   `toml:"action"`
	Message string   `toml:"message"`
	To      []string `toml:"to"`
	Append  *bool    `toml:"append"`
}

// Specificity scores a rule for first-match tie-breaking across layers,
// ported from the teacher's cmd/cc-fmt calculateSpecificity.
func (r Rule) Specificity() int {
	score := 0
	if r.Command != "*" && r.Command != "" {
		score += 100
	}
	score += len(r.ArgsContains) * 10
	return score
}

// Specificity scores a redirect rule the same way, for goshell-policy-check
// and the engine's tie-breaking.
func (r RedirectRule) Specificity() int {
	score := len(r.To) * 10
	if r.Append != nil {
		score += 5
	}
	return score
}

// parseConfig decodes TOML into a Config, applies defaults, and validates
// it.
func parseConfig(data string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.Decode(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigParse, err)
	}
	applyDefaults(cfg)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults fills an empty config with the zero-config behavior: allow
// everything, no rules.
func applyDefaults(cfg *Config) {
	if cfg.Policy.Default == unset {
		cfg.Policy.Default = Allow
	}
	if cfg.Policy.DefaultMessage == "" {
		cfg.Policy.DefaultMessage = "blocked by goshell policy"
	}
}

// validate checks that every action value and pattern in cfg is
// well-formed.
func (cfg *Config) validate() error {
	if !cfg.Policy.Default.valid() {
		return fmt.Errorf("%w: policy.default: invalid action %q", ErrInvalidConfig, cfg.Policy.Default)
	}
	for i, r := range cfg.Rules {
		if !r.Action.valid() {
			return fmt.Errorf("%w: rule[%d]: invalid action %q", ErrInvalidConfig, i, r.Action)
		}
		if _, err := ParsePattern(r.Command); err != nil {
			return fmt.Errorf("%w: rule[%d]: %w", ErrInvalidConfig, i, err)
		}
	}
	for i, r := range cfg.Redirects {
		if !r.Action.valid() {
			return fmt.Errorf("%w: redirect[%d]: invalid action %q", ErrInvalidConfig, i, r.Action)
		}
		for _, to := range r.To {
			if _, err := ParsePattern(to); err != nil {
				return fmt.Errorf("%w: redirect[%d]: %w", ErrInvalidConfig, i, err)
			}
		}
	}
	return nil
}

// DefaultConfig is the zero-config layer used when no policy file exists
// anywhere in the chain: allow everything.
func DefaultConfig() *Config {
	cfg := &Config{Path: "(default)"}
	applyDefaults(cfg)
	return cfg
}
