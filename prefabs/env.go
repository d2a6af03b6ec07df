package prefabs

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

const EnvPrefix = "CHARCTL_"

// EnvOptions are process settings that only come from the environment.
type EnvOptions struct {
	PrefabDir string `env:"PREFAB_DIR" envDefault:"prefabs"`
	Watch     bool   `env:"WATCH"`
}

// ApplyEnv overlays CHARCTL_* variables onto the tuning block. Unset
// variables leave the YAML values untouched.
func ApplyEnv(spec *CharacterSpec) error {
	if spec == nil {
		return nil
	}
	if err := env.ParseWithOptions(&spec.Tuning, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("prefabs: env overrides: %w", err)
	}
	return nil
}

func LoadEnvOptions() (EnvOptions, error) {
	opts, err := env.ParseAsWithOptions[EnvOptions](env.Options{Prefix: EnvPrefix})
	if err != nil {
		return EnvOptions{}, fmt.Errorf("prefabs: env options: %w", err)
	}
	return opts, nil
}
