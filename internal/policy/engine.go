package policy

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Decision is the result of evaluating one command or redirect target
// against the policy chain.
type Decision struct {
	Action  Action
	Message string
	Source  string // human-readable description of what decided this, e.g. "Policy rule: rm"
}

// Engine evaluates commands and redirect targets against a loaded Chain.
type Engine struct {
	chain *Chain
	vars  *Vars
}

// NewEngine builds an Engine from a loaded Chain.
func NewEngine(chain *Chain) *Engine {
	return &Engine{chain: chain, vars: NewVars(chain.ProjectRoot)}
}

var titleCaser = cases.Title(language.English)

type ruleEntry struct {
	rule        Rule
	layer       string
	order       int
	specificity int
}

// EvaluateCommand decides the action for a command invocation: name plus
// its arguments (not including the name). Builtins are evaluated by name
// exactly like external commands, so a policy can e.g. deny "cd" while
// allowing everything else.
func (e *Engine) EvaluateCommand(name string, args []string) Decision {
	var entries []ruleEntry
	order := 0
	for _, cfg := range e.chain.Configs {
		layer := titleCaser.String(layerName(cfg.Path))
		for _, r := range cfg.Rules {
			entries = append(entries, ruleEntry{rule: r, layer: layer, order: order, specificity: r.Specificity()})
			order++
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].specificity != entries[j].specificity {
			return entries[i].specificity > entries[j].specificity
		}
		return entries[i].order > entries[j].order // later-loaded layer wins ties
	})

	for _, entry := range entries {
		pat, err := ParsePattern(entry.rule.Command)
		if err != nil {
			continue
		}
		if !pat.Match(name, e.vars) {
			continue
		}
		if len(entry.rule.ArgsContains) > 0 && !argsContain(args, entry.rule.ArgsContains) {
			continue
		}
		return Decision{Action: entry.rule.Action, Message: entry.rule.Message, Source: entry.layer + " rule: " + entry.rule.Command}
	}

	def, msg := e.chain.EffectiveDefault()
	return Decision{Action: def, Message: msg, Source: "default policy"}
}

// EvaluateRedirect decides the action for a redirection target.
func (e *Engine) EvaluateRedirect(target string, appendMode bool) Decision {
	var entries []struct {
		rule  RedirectRule
		layer string
		order int
		score int
	}
	order := 0
	for _, cfg := range e.chain.Configs {
		layer := titleCaser.String(layerName(cfg.Path))
		for _, r := range cfg.Redirects {
			entries = append(entries, struct {
				rule  RedirectRule
				layer string
				order int
				score int
			}{rule: r, layer: layer, order: order, score: r.Specificity()})
			order++
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].score != entries[j].score {
			return entries[i].score > entries[j].score
		}
		return entries[i].order > entries[j].order
	})

	for _, entry := range entries {
		if entry.rule.Append != nil && *entry.rule.Append != appendMode {
			continue
		}
		matched := false
		for _, to := range entry.rule.To {
			pat, err := ParsePattern(to)
			if err != nil {
				continue
			}
			if pat.Match(target, e.vars) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		return Decision{Action: entry.rule.Action, Message: entry.rule.Message, Source: entry.layer + " redirect rule"}
	}

	def, msg := e.chain.EffectiveDefault()
	return Decision{Action: def, Message: msg, Source: "default policy"}
}

func argsContain(args []string, substrings []string) bool {
	for _, a := range args {
		for _, sub := range substrings {
			if strings.Contains(a, sub) {
				return true
			}
		}
	}
	return false
}

// layerName returns a short human label for a config's source path.
func layerName(path string) string {
	switch path {
	case "", "(default)":
		return "default"
	default:
		return "policy"
	}
}
