// Package config loads a module's optional implicits.toml: the
// conditional-compilation flags C3 evaluates against, the attribute name
// the analyzer recognizes as an SPI/exported marker, legacy-mode gating
// for C11's import collection, and the paths to dependency module
// interfaces C8/C9 need as cross-module input. Modeled on the teacher's
// own project-manifest loader, rebuilt on the same github.com/BurntSushi/toml
// decoder.
package config

import (
	"github.com/BurntSushi/toml"

	"implicits/internal/cond"
)

// Config is the decoded contents of an implicits.toml file.
type Config struct {
	// Flags lists the conditional-compilation identifiers considered
	// enabled; every other identifier C3 encounters evaluates to false
	// (cond.Enabled mode), never Unknown — an analyzer run always has a
	// concrete build configuration.
	Flags []string `toml:"flags"`

	// SPIAttributeName is the attribute name a scope-taking function's
	// visibility annotation recognizes as the public/testable boundary
	// (mirrors the host's @_spi(Name) convention); empty disables SPI
	// handling entirely.
	SPIAttributeName string `toml:"spi_attribute_name"`

	// LegacyImportMode, when true, keeps imports in a generated support
	// file even when they are needed only by a non-exported adapter; see
	// internal/supportfile.BuildOptions.LegacyMode.
	LegacyImportMode bool `toml:"legacy_import_mode"`

	// DependencyInterfacePaths lists the serialized module-interface
	// files (internal/modiface's binary format) this module's own
	// analysis should load as cross-module input, in dependency order.
	DependencyInterfacePaths []string `toml:"dependency_interfaces"`
}

// Load decodes the implicits.toml file at path.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// CondConfig builds the cond.Config this Config's Flags imply: every
// listed flag is enabled, every other identifier C3 sees evaluates to
// false.
func (c *Config) CondConfig() cond.Config {
	if c == nil {
		return cond.NewEnabledConfig()
	}
	return cond.NewEnabledConfig(c.Flags...)
}
