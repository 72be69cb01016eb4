package policy

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// PatternType is the kind of pattern a rule's command/target string
// compiles to, ported from the teacher's match.go.
type PatternType int

const (
	PatternLiteral PatternType = iota
	PatternRegex
	PatternPath
	PatternFlag
)

// Pattern is a parsed, matchable rule pattern.
type Pattern struct {
	Type          PatternType
	Raw           string
	Regex         *regexp.Regexp
	PathPattern   string
	Negated       bool
	FlagDelimiter string
	FlagChars     string
}

// ParsePattern parses a pattern string. Supported prefixes:
//   - "re:" regular expression
//   - "path:" glob (via doublestar) with $HOME/$PROJECT_ROOT expansion
//   - "flags:" or "flags[delim]:" flag-character membership
//   - no prefix: literal match
//
// Any of the explicit-prefix forms can be negated with a leading "!".
func ParsePattern(s string) (*Pattern, error) {
	p := &Pattern{Raw: s}

	if strings.HasPrefix(s, "!") {
		rest := s[1:]
		if strings.HasPrefix(rest, "re:") || strings.HasPrefix(rest, "path:") ||
			strings.HasPrefix(rest, "flags:") || strings.HasPrefix(rest, "flags[") {
			p.Negated = true
			s = rest
			p.Raw = s
		}
	}

	switch {
	case strings.HasPrefix(s, "re:"):
		p.Type = PatternRegex
		re, err := regexp.Compile(strings.TrimPrefix(s, "re:"))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidPattern, s, err)
		}
		p.Regex = re
	case strings.HasPrefix(s, "path:"):
		p.Type = PatternPath
		p.PathPattern = strings.TrimPrefix(s, "path:")
	case strings.HasPrefix(s, "flags:"), strings.HasPrefix(s, "flags["):
		p.Type = PatternFlag
		delim, chars, err := parseFlagPattern(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidPattern, s, err)
		}
		p.FlagDelimiter = delim
		p.FlagChars = chars
	default:
		p.Type = PatternLiteral
	}
	return p, nil
}

func parseFlagPattern(s string) (delimiter, chars string, err error) {
	if strings.HasPrefix(s, "flags[") {
		close := strings.Index(s, "]:")
		if close == -1 {
			return "", "", fmt.Errorf("invalid flag pattern: missing ']:'")
		}
		delimiter = s[6:close]
		chars = s[close+2:]
		if delimiter == "" || chars == "" || !isValidFlagChars(chars) {
			return "", "", fmt.Errorf("invalid flag pattern %q", s)
		}
		return delimiter, chars, nil
	}
	chars = strings.TrimPrefix(s, "flags:")
	if chars == "" || !isValidFlagChars(chars) {
		return "", "", fmt.Errorf("invalid flag pattern %q", s)
	}
	return "-", chars, nil
}

func isValidFlagChars(s string) bool {
	for _, c := range s {
		if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')) {
			return false
		}
	}
	return true
}

// Match reports whether s matches the pattern, given vars for path
// expansion (vars may be nil for non-path patterns).
func (p *Pattern) Match(s string, vars *Vars) bool {
	var matched bool
	switch p.Type {
	case PatternRegex:
		matched = p.Regex.MatchString(s)
	case PatternLiteral:
		matched = p.Raw == "*" || s == p.Raw
	case PatternPath:
		matched = p.matchPath(s, vars)
	case PatternFlag:
		matched = p.matchFlag(s)
	}
	if p.Negated {
		return !matched
	}
	return matched
}

func (p *Pattern) matchPath(s string, vars *Vars) bool {
	if HasVars(p.PathPattern) && isPathLike(s) && vars != nil {
		expanded := vars.Expand(p.PathPattern)
		resolved := resolvePath(s, vars.Cwd, vars.Home)
		matched, _ := doublestar.Match(expanded, resolved)
		return matched
	}
	matched, _ := doublestar.Match(p.PathPattern, s)
	return matched
}

func (p *Pattern) matchFlag(s string) bool {
	if !strings.HasPrefix(s, p.FlagDelimiter) {
		return false
	}
	if p.FlagDelimiter == "-" && strings.HasPrefix(s, "--") {
		return false
	}
	rest := s[len(p.FlagDelimiter):]
	if rest == "" {
		return false
	}
	for _, c := range p.FlagChars {
		if !strings.ContainsRune(rest, c) {
			return false
		}
	}
	return true
}

// MatchAny reports whether any of ss matches the pattern.
func (p *Pattern) MatchAny(ss []string, vars *Vars) bool {
	for _, s := range ss {
		if p.Match(s, vars) {
			return true
		}
	}
	return false
}
