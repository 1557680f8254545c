// Package branding holds the product identity baked into the binary from
// branding.yaml.
package branding

import (
	_ "embed"
	"strings"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawIdentity []byte

type identity struct {
	CLIName     string `yaml:"cli_name"`
	DisplayName string `yaml:"display_name"`
	Description string `yaml:"description"`
	HomeDir     string `yaml:"home_dir"`
	EnvPrefix   string `yaml:"env_prefix"`
}

var id = parse(rawIdentity)

// parse overlays the embedded document on the built-in identity. Fields the
// document leaves empty, or a document that does not parse, keep the
// built-in values.
func parse(data []byte) identity {
	base := identity{
		CLIName:     "tlbx",
		DisplayName: "tlbx",
		Description: "Resolve and inspect registered COM type libraries",
		HomeDir:     ".tlbx",
		EnvPrefix:   "TLBX",
	}
	var doc identity
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return base
	}
	for _, f := range []struct {
		dst *string
		src string
	}{
		{&base.CLIName, doc.CLIName},
		{&base.DisplayName, doc.DisplayName},
		{&base.Description, doc.Description},
		{&base.HomeDir, doc.HomeDir},
		{&base.EnvPrefix, doc.EnvPrefix},
	} {
		if f.src != "" {
			*f.dst = f.src
		}
	}
	return base
}

// CLIName returns the root command name.
func CLIName() string { return id.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { return id.DisplayName }

// Description returns the short product description.
func Description() string { return id.Description }

// HomeDir returns the dot-directory under $HOME that holds the config file.
func HomeDir() string { return id.HomeDir }

// EnvPrefix returns the prefix of the environment variables read by config.
func EnvPrefix() string { return id.EnvPrefix }

// EnvVar returns the environment variable for a config key, e.g.
// EnvVar("log_level") is "TLBX_LOG_LEVEL".
func EnvVar(key string) string {
	return id.EnvPrefix + "_" + strings.ToUpper(key)
}
