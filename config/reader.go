package config

import (
	"bytes"
	"context"
	"encoding/json"
	"io"

	"github.com/a8m/envsubst"
	"github.com/pkg/errors"

	"go.viam.com/svo/logging"
)

// Read reads a config from the given file. Environment variables in the file are
// substituted before decoding.
func Read(
	ctx context.Context,
	filePath string,
	logger logging.Logger,
) (*Config, error) {
	buf, err := envsubst.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	return FromReader(ctx, filePath, bytes.NewReader(buf), logger)
}

// FromReader reads a config from the given reader and specifies
// where, if applicable, the file the reader originated from.
func FromReader(
	ctx context.Context,
	originalPath string,
	r io.Reader,
	logger logging.Logger,
) (*Config, error) {
	unprocessedConfig := Config{
		ConfigFilePath: originalPath,
	}
	if err := json.NewDecoder(r).Decode(&unprocessedConfig); err != nil {
		return nil, errors.Wrapf(err, "failed to decode Config from json")
	}
	cfg, err := processConfig(&unprocessedConfig, logger)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to process Config")
	}
	return cfg, ctx.Err()
}

// processConfig fills in defaults and validates the config.
func processConfig(unprocessedConfig *Config, logger logging.Logger) (*Config, error) {
	cfg := *unprocessedConfig
	if cfg.MaxDepth == 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	if err := cfg.Validate(""); err != nil {
		return nil, err
	}
	logger.Debugw("read config",
		"path", cfg.ConfigFilePath,
		"max_depth", cfg.MaxDepth,
		"voxels", len(cfg.Voxels),
		"lights", len(cfg.Lights),
		"primitives", len(cfg.Primitives),
	)
	return &cfg, nil
}
