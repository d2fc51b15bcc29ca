package secrets

import (
	"fmt"

	"github.com/szaher/mapskey/internal/defines"
)

const (
	// DefaultVariable is the environment variable and define key holding the key.
	DefaultVariable = "MAPS_API_KEY"

	// DefaultPlaceholder is the value that means no key was configured.
	DefaultPlaceholder = "YOUR_API_KEY"
)

// Source identifies where a resolved value came from.
type Source string

const (
	SourceEnv         Source = "env"
	SourceDefines     Source = "defines"
	SourcePlaceholder Source = "placeholder"
)

// Resolution is the outcome of a successful or failed resolution.
type Resolution struct {
	Value  string
	Source Source
	// Skipped lists define tokens ignored while scanning for the key.
	Skipped []defines.Skipped
}

// KeyResolver implements Resolver.
type KeyResolver struct {
	// Variable is both the environment variable and the define key looked up.
	Variable string

	// Placeholder substitutes for an empty result and is always rejected.
	Placeholder string

	// Strict turns malformed define tokens into errors instead of skipping them.
	Strict bool
}

// NewKeyResolver creates a resolver for MAPS_API_KEY with the default placeholder.
func NewKeyResolver() *KeyResolver {
	return &KeyResolver{
		Variable:    DefaultVariable,
		Placeholder: DefaultPlaceholder,
	}
}

// ResolveAPIKey resolves MAPS_API_KEY with the default, lenient settings.
func ResolveAPIKey(env Environment, blob string) (string, error) {
	res, err := NewKeyResolver().Resolve(env, blob)
	if err != nil {
		return "", err
	}
	return res.Value, nil
}

// Resolve returns the first non-empty value from env, then the define blob.
// The returned Resolution is populated even when err is non-nil so callers
// can report the source and any skipped tokens.
func (r *KeyResolver) Resolve(env Environment, blob string) (Resolution, error) {
	res, err := r.lookup(env, blob)
	if err != nil {
		return res, err
	}

	if res.Value == "" {
		res.Value = r.Placeholder
		res.Source = SourcePlaceholder
	}
	if res.Value == "" || res.Value == r.Placeholder {
		return res, &MissingConfigurationError{
			Variable:    r.Variable,
			Placeholder: res.Source != SourcePlaceholder,
		}
	}
	return res, nil
}

func (r *KeyResolver) lookup(env Environment, blob string) (Resolution, error) {
	if env != nil {
		if v, ok := env.LookupEnv(r.Variable); ok && v != "" {
			return Resolution{Value: v, Source: SourceEnv}, nil
		}
	}

	if blob == "" {
		return Resolution{}, nil
	}

	if r.Strict {
		v, found, err := defines.LookupStrict(blob, r.Variable)
		if err != nil {
			return Resolution{}, fmt.Errorf("decoding dart defines: %w", err)
		}
		if found {
			return Resolution{Value: v, Source: SourceDefines}, nil
		}
		return Resolution{}, nil
	}

	v, found, skipped := defines.Lookup(blob, r.Variable)
	res := Resolution{Skipped: skipped}
	if found {
		res.Value = v
		res.Source = SourceDefines
	}
	return res, nil
}
