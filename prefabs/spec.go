package prefabs

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/charctl/common"
)

const CharacterFile = "character.yaml"

var ErrInvalidSpec = errors.New("prefabs: invalid spec")

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type CharacterSpec struct {
	Name     string       `yaml:"name"`
	Spawn    common.Vec3  `yaml:"spawn"`
	Tuning   TuningSpec   `yaml:"tuning"`
	Bindings BindingsSpec `yaml:"bindings"`
	Clips    []ClipSpec   `yaml:"clips"`
}

type TuningSpec struct {
	GlobalSpeed       float64 `yaml:"global_speed" env:"GLOBAL_SPEED"`
	RunSpeed          float64 `yaml:"run_speed" env:"RUN_SPEED"`
	GlideSpeed        float64 `yaml:"glide_speed" env:"GLIDE_SPEED"`
	GlideDistance     float64 `yaml:"glide_distance" env:"GLIDE_DISTANCE"`
	DashSpeed         float64 `yaml:"dash_speed" env:"DASH_SPEED"`
	DashDuration      float64 `yaml:"dash_duration" env:"DASH_DURATION"`
	ArrivalThreshold  float64 `yaml:"arrival_threshold" env:"ARRIVAL_THRESHOLD"`
	IntroFade         float64 `yaml:"intro_fade"`
	SettleFade        float64 `yaml:"settle_fade"`
	ActionFade        float64 `yaml:"action_fade"`
	RecoveryFade      float64 `yaml:"recovery_fade"`
	SpellSpeed        float64 `yaml:"spell_speed"`
	DashRecoverySpeed float64 `yaml:"dash_recovery_speed"`
	Debug             bool    `yaml:"debug" env:"DEBUG"`
}

type ComboSpec struct {
	Strike   string `yaml:"strike"`
	Recovery string `yaml:"recovery"`
}

type BindingsSpec struct {
	Intro           string      `yaml:"intro"`
	Idle            string      `yaml:"idle"`
	Unsheath        string      `yaml:"unsheath"`
	Run             string      `yaml:"run"`
	Resheath        string      `yaml:"resheath"`
	IdleInSheath    string      `yaml:"idle_in_sheath"`
	Combo           []ComboSpec `yaml:"combo"`
	ComboResheath   string      `yaml:"combo_resheath"`
	SpellWindup     string      `yaml:"spell_windup"`
	SpellStationary string      `yaml:"spell_stationary"`
	SpellStop       string      `yaml:"spell_stop"`
	Dash            string      `yaml:"dash"`
	DashRecovery    string      `yaml:"dash_recovery"`
}

type ClipSpec struct {
	Name     string  `yaml:"name"`
	Duration float64 `yaml:"duration"`
}

// LoadCharacterSpec reads the character prefab, applies environment
// overrides and validates the result.
func LoadCharacterSpec(filename string) (*CharacterSpec, error) {
	if filename == "" {
		filename = CharacterFile
	}
	spec, err := LoadSpec[CharacterSpec](filename)
	if err != nil {
		return nil, err
	}
	if err := ApplyEnv(&spec); err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", filename, err)
	}
	return &spec, nil
}

// Validate checks the tunables only. Clip bindings that point at missing
// clips are allowed and degrade at runtime.
func (s *CharacterSpec) Validate() error {
	t := s.Tuning
	switch {
	case t.GlobalSpeed <= 0:
		return fmt.Errorf("%w: global_speed must be positive", ErrInvalidSpec)
	case t.RunSpeed <= 0, t.GlideSpeed <= 0, t.DashSpeed <= 0:
		return fmt.Errorf("%w: speeds must be positive", ErrInvalidSpec)
	case t.DashDuration <= 0:
		return fmt.Errorf("%w: dash_duration must be positive", ErrInvalidSpec)
	case t.ArrivalThreshold < 0:
		return fmt.Errorf("%w: arrival_threshold must not be negative", ErrInvalidSpec)
	case len(s.Bindings.Combo) != 3:
		return fmt.Errorf("%w: combo needs 3 stages, got %d", ErrInvalidSpec, len(s.Bindings.Combo))
	}
	for i, c := range s.Clips {
		if c.Name == "" {
			return fmt.Errorf("%w: clip %d has no name", ErrInvalidSpec, i)
		}
		if c.Duration < 0 {
			return fmt.Errorf("%w: clip %s has negative duration", ErrInvalidSpec, c.Name)
		}
	}
	return nil
}
