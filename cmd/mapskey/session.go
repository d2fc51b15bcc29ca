package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/szaher/mapskey/internal/bundle"
	"github.com/szaher/mapskey/internal/config"
	"github.com/szaher/mapskey/internal/launch"
	"github.com/szaher/mapskey/internal/secrets"
	"github.com/szaher/mapskey/internal/telemetry"
)

// session is the per-invocation state shared by subcommands.
type session struct {
	cfg      *config.Config
	defines  *string
	logger   *slog.Logger
	redact   *secrets.RedactFilter
	metrics  *telemetry.Metrics
	ctx      context.Context
	cfgFound bool
}

// newSession loads the configuration and sets up logging and metrics.
func newSession(cmd *cobra.Command) (*session, error) {
	cfg, cfgFound, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	level, err := telemetry.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger, redact := telemetry.NewLogger(cmd.ErrOrStderr(), level, cfg.LogFormat)

	s := &session{
		cfg:      cfg,
		logger:   logger,
		redact:   redact,
		metrics:  telemetry.NewMetrics(),
		ctx:      telemetry.WithRunID(cmd.Context(), ""),
		cfgFound: cfgFound,
	}
	if cmd.Flags().Changed("defines") {
		blob := definesBlob
		s.defines = &blob
	}
	return s, nil
}

// reload re-reads the config file, keeping the logger, metrics and run ID.
func (s *session) reload(cmd *cobra.Command) error {
	cfg, cfgFound, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s.cfg = cfg
	s.cfgFound = cfgFound
	return nil
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, bool, error) {
	flags := cmd.Flags()

	cfg, err := config.Load(configFile, flags.Changed("config"))
	if err != nil {
		return nil, false, err
	}

	if flags.Changed("variable") {
		cfg.Variable = variable
	}
	if flags.Changed("placeholder") {
		cfg.Placeholder = placeholder
	}
	if flags.Changed("strict") {
		cfg.Strict = strict
	}
	if flags.Changed("info-plist") {
		cfg.InfoPlist = infoPlist
	}
	if flags.Changed("xcconfig") {
		cfg.XCConfig = xcconfig
	}
	if flags.Changed("metrics-file") {
		cfg.MetricsFile = metricsFile
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, false, err
	}
	return cfg, fileExists(configFile), nil
}

// metadata reads the first configured source of the define blob.
func (s *session) metadata() (bundle.Info, error) {
	switch {
	case s.defines != nil:
		return bundle.Info{s.cfg.DefinesField: *s.defines}, nil
	case s.cfg.InfoPlist != "":
		return bundle.ReadInfoPlist(s.cfg.InfoPlist)
	case s.cfg.XCConfig != "":
		return bundle.ReadXCConfig(s.cfg.XCConfig)
	}
	return bundle.Info{}, nil
}

// watchedFiles lists the files whose changes affect resolution.
func (s *session) watchedFiles() []string {
	var paths []string
	if s.defines == nil {
		switch {
		case s.cfg.InfoPlist != "":
			paths = append(paths, s.cfg.InfoPlist)
		case s.cfg.XCConfig != "":
			paths = append(paths, s.cfg.XCConfig)
		}
	}
	if s.cfgFound {
		paths = append(paths, configFile)
	}
	return paths
}

// resolve runs the resolution step of the launch sequence and flushes metrics.
func (s *session) resolve() (secrets.Resolution, error) {
	logger := telemetry.RunLogger(s.ctx, s.logger, s.cfg.Variable)

	info, err := s.metadata()
	if err != nil {
		return secrets.Resolution{}, err
	}

	res, err := launch.Resolve(s.ctx, launch.Options{
		Env:          processEnv,
		Metadata:     info,
		DefinesField: s.cfg.DefinesField,
		Resolver:     s.cfg.Resolver(),
		Logger:       logger,
		Redact:       s.redact,
		Metrics:      s.metrics,
	})

	if s.cfg.MetricsFile != "" {
		if werr := s.metrics.WriteTextfile(s.cfg.MetricsFile); werr != nil {
			logger.Error("failed to write metrics", "path", s.cfg.MetricsFile, "error", werr)
		}
	}
	return res, err
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
