// Package secrets resolves API keys from the environment and from the
// [secrets] table of an already loaded config.toml.
//
// The CLI builds one Resolver from the config it loaded at startup and
// turns it into llm.Credentials; no package below the CLI looks keys up.
package secrets

import (
	"fmt"
	"os"
	"strings"

	"github.com/tsukumogami/sitegen/internal/llm"
	"github.com/tsukumogami/sitegen/internal/userconfig"
)

// Source says where a secret value was found.
type Source int

const (
	SourceNone Source = iota
	SourceEnv
	SourceConfig
)

func (s Source) String() string {
	switch s {
	case SourceEnv:
		return "environment"
	case SourceConfig:
		return "config file"
	default:
		return "not set"
	}
}

// NotSetError reports a known secret with no value in any source.
type NotSetError struct {
	Name    string
	EnvVars []string
}

func (e *NotSetError) Error() string {
	return fmt.Sprintf(
		"%s not configured. Set the %s environment variable, or add %s to [secrets] in $SITEGEN_HOME/config.toml",
		e.Name, strings.Join(e.EnvVars, " or "), e.Name)
}

// Resolver looks secrets up in the environment first and then in cfg.
type Resolver struct {
	cfg    *userconfig.Config
	getenv func(string) string
}

// NewResolver returns a Resolver over the process environment and cfg.
// cfg may be nil, in which case only the environment is consulted.
func NewResolver(cfg *userconfig.Config) *Resolver {
	return &Resolver{cfg: cfg, getenv: os.Getenv}
}

// Lookup returns the value of the named secret and where it came from.
// Unknown names are an error; a known but empty secret is a *NotSetError.
func (r *Resolver) Lookup(name string) (string, Source, error) {
	key, ok := lookupKey(name)
	if !ok {
		return "", SourceNone, fmt.Errorf("unknown secret key: %q", name)
	}

	for _, env := range key.EnvVars {
		if val := r.getenv(env); val != "" {
			return val, SourceEnv, nil
		}
	}
	if r.cfg != nil {
		if val := r.cfg.Secrets[name]; val != "" {
			return val, SourceConfig, nil
		}
	}
	return "", SourceNone, &NotSetError{Name: name, EnvVars: key.EnvVars}
}

// Get returns the value of the named secret.
func (r *Resolver) Get(name string) (string, error) {
	val, _, err := r.Lookup(name)
	return val, err
}

// IsSet reports whether the named secret has a value. Unknown names are
// never set.
func (r *Resolver) IsSet(name string) bool {
	_, _, err := r.Lookup(name)
	return err == nil
}

// Credentials collects every LLM API key. Missing keys stay empty; the
// provider factory reports which one it needed.
func (r *Resolver) Credentials() llm.Credentials {
	var creds llm.Credentials
	creds.AnthropicAPIKey, _ = r.Get(AnthropicAPIKey)
	creds.GoogleAPIKey, _ = r.Get(GoogleAPIKey)
	return creds
}

// Credentials is shorthand for NewResolver(cfg).Credentials().
func Credentials(cfg *userconfig.Config) llm.Credentials {
	return NewResolver(cfg).Credentials()
}
