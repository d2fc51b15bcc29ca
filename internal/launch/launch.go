// Package launch runs the app startup sequence: resolve the Maps API key,
// hand it to the maps SDK, then register plugins.
//
// Resolution failures are returned to the caller, which decides how to halt.
// No collaborator is called after a failed resolution.
package launch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/szaher/mapskey/internal/bundle"
	"github.com/szaher/mapskey/internal/secrets"
	"github.com/szaher/mapskey/internal/telemetry"
)

// MapsProvider receives the resolved key, like GMSServices.provideAPIKey.
type MapsProvider interface {
	ProvideAPIKey(key string) error
}

// PluginRegistrar registers the app's plugins once the key is set.
type PluginRegistrar interface {
	Register(ctx context.Context) error
}

// Options configures Run.
type Options struct {
	Env      secrets.Environment
	Metadata bundle.Info

	// DefinesField names the metadata entry holding the blob.
	// Defaults to bundle.DefinesField.
	DefinesField string

	// Resolver defaults to secrets.NewKeyResolver().
	Resolver secrets.Resolver

	Maps    MapsProvider
	Plugins PluginRegistrar

	Logger  *slog.Logger
	Redact  *secrets.RedactFilter
	Metrics *telemetry.Metrics
}

// Result is what a successful launch produced.
type Result struct {
	Resolution secrets.Resolution
}

// Resolve runs only the key resolution step of the sequence.
func Resolve(ctx context.Context, opts Options) (secrets.Resolution, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	resolver := opts.Resolver
	if resolver == nil {
		resolver = secrets.NewKeyResolver()
	}
	field := opts.DefinesField
	if field == "" {
		field = bundle.DefinesField
	}

	blob, _, err := opts.Metadata.String(field)
	if err != nil {
		return secrets.Resolution{}, fmt.Errorf("reading build metadata: %w", err)
	}

	res, err := resolver.Resolve(opts.Env, blob)
	if opts.Metrics != nil {
		opts.Metrics.RecordResolution(res, err)
	}
	if opts.Redact != nil && err == nil {
		opts.Redact.AddSecret(res.Value)
	}

	for _, s := range res.Skipped {
		logger.WarnContext(ctx, "skipped malformed dart define",
			"field", field,
			"index", s.Index,
			"reason", string(s.Reason),
		)
	}

	var mce *secrets.MissingConfigurationError
	switch {
	case errors.As(err, &mce):
		logger.ErrorContext(ctx, "maps api key missing",
			"placeholder_supplied", mce.Placeholder,
			"override", secrets.OverrideHint(mce.Variable),
		)
		return res, err
	case err != nil:
		logger.ErrorContext(ctx, "maps api key resolution failed", "error", err)
		return res, err
	}

	logger.InfoContext(ctx, "maps api key resolved", "source", string(res.Source))
	return res, nil
}

// Run resolves the key, provides it to Maps, then registers Plugins.
func Run(ctx context.Context, opts Options) (*Result, error) {
	res, err := Resolve(ctx, opts)
	if err != nil {
		return nil, err
	}

	if opts.Maps != nil {
		if err := opts.Maps.ProvideAPIKey(res.Value); err != nil {
			return nil, fmt.Errorf("providing maps api key: %w", err)
		}
	}
	if opts.Plugins != nil {
		if err := opts.Plugins.Register(ctx); err != nil {
			return nil, fmt.Errorf("registering plugins: %w", err)
		}
	}

	return &Result{Resolution: res}, nil
}
