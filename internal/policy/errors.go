package policy

import "errors"

// Sentinel errors for the policy chain. Use errors.Is to check for these.
var (
	// ErrConfigNotFound indicates a config file does not exist at the
	// expected path — distinct from ErrConfigRead (I/O error),
	// ErrConfigParse (TOML syntax error) and ErrInvalidConfig (validation
	// error).
	ErrConfigNotFound = errors.New("policy file not found")

	// ErrConfigRead indicates an I/O error reading a config file that
	// exists but could not be read (permissions, etc.).
	ErrConfigRead = errors.New("failed to read policy file")

	// ErrConfigParse indicates a TOML syntax error.
	ErrConfigParse = errors.New("policy parse error")

	// ErrInvalidConfig indicates the TOML parsed but failed validation
	// (bad action value, malformed pattern, etc.).
	ErrInvalidConfig = errors.New("invalid policy configuration")

	// ErrInvalidPattern indicates a pattern string could not be compiled,
	// typically an invalid "re:"-prefixed regex.
	ErrInvalidPattern = errors.New("invalid pattern")
)
