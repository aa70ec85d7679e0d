// Package config holds the environment-variable plumbing shared by the
// territory binaries. Service settings live in TERRITORY_* variables parsed
// into tagged structs; gameplay tuning is a separate YAML concern.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ParseEnv populates target from the process environment using its env
// struct tags.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
