// Package config manages user-level settings stored at ~/.tlbx/config.yaml.
// Every key can also be supplied through a TLBX_-prefixed environment
// variable, which takes precedence over the file.
package config
