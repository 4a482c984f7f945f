package config

import (
	"errors"
	"fmt"

	"dario.cat/mergo"
)

// configBuilder stacks partial configs in priority order: the first source to
// set a field wins the merge. Source failures are collected instead of
// aborting, so build reports every broken source at once.
type configBuilder struct {
	configs []*StructuredConfig
	err     error
}

func newConfigBuilder() *configBuilder {
	return &configBuilder{}
}

// load runs one source and stacks its partial config.
func (b *configBuilder) load(source func() (*StructuredConfig, error)) *configBuilder {
	cfg, err := source()
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = append(b.configs, cfg)
	return b
}

func (b *configBuilder) withEnv() *configBuilder {
	return b.load(func() (*StructuredConfig, error) {
		cfg := new(StructuredConfig)
		return cfg, parseEnv(cfg)
	})
}

func (b *configBuilder) withFlags() *configBuilder {
	return b.load(func() (*StructuredConfig, error) {
		return ParseFlags(), nil
	})
}

// withJSON resolves the file path from the sources already stacked (env and
// flags may both name one; the later mention wins) and parses the file when
// a path was given at all.
func (b *configBuilder) withJSON() *configBuilder {
	var path string
	for _, cfg := range b.configs {
		if cfg.JSONFilePath != "" {
			path = cfg.JSONFilePath
		}
	}

	if path == "" {
		return b
	}

	return b.load(func() (*StructuredConfig, error) {
		return parseJSON(path)
	})
}

// build merges the stacked sources, fills the remaining zero-valued fields
// with startup defaults, and validates the result.
func (b *configBuilder) build() (*StructuredConfig, error) {
	if b.err != nil {
		return nil, fmt.Errorf("load config sources: %w", b.err)
	}

	merged := new(StructuredConfig)
	for _, cfg := range b.configs {
		if err := mergo.Merge(merged, cfg); err != nil {
			return nil, fmt.Errorf("merge config layers: %w", err)
		}
	}

	merged.applyDefaults()

	return merged, merged.validate()
}
