package system

import (
	"errors"
	"fmt"
	"log"

	"github.com/milk9111/charctl/prefabs"
)

// ComboClips is the clip pair bound to one combo stage.
type ComboClips struct {
	Strike   string
	Recovery string
}

// Clips binds every animation role to a clip name in the library.
type Clips struct {
	Intro           string
	Idle            string
	Unsheath        string
	Run             string
	Resheath        string
	IdleInSheath    string
	Combo           [3]ComboClips
	ComboResheath   string
	SpellWindup     string
	SpellStationary string
	SpellStop       string
	Dash            string
	DashRecovery    string
}

// Config holds the process-wide tunables handed to every character system.
type Config struct {
	GlobalSpeed      float64
	RunSpeed         float64
	GlideSpeed       float64
	GlideDistance    float64
	DashSpeed        float64
	DashDuration     float64
	ArrivalThreshold float64

	IntroFade    float64
	SettleFade   float64
	ActionFade   float64
	RecoveryFade float64

	SpellSpeed        float64
	DashRecoverySpeed float64

	Clips Clips

	Debug  bool
	Logger *log.Logger
}

var ErrInvalidConfig = errors.New("system: invalid config")

func DefaultConfig() Config {
	return Config{
		GlobalSpeed:       0.5,
		RunSpeed:          5,
		GlideSpeed:        10,
		GlideDistance:     5,
		DashSpeed:         20,
		DashDuration:      0.3,
		ArrivalThreshold:  0.1,
		IntroFade:         0.2,
		SettleFade:        0.3,
		ActionFade:        0.2,
		RecoveryFade:      0.1,
		SpellSpeed:        0.55,
		DashRecoverySpeed: 0.45,
		Clips: Clips{
			Intro:        "aatrox_recall_winddown.anm",
			Idle:         "aatrox_idle1.anm",
			Unsheath:     "aatrox_unsheath.anm",
			Run:          "aatrox_unsheath_run01.anm",
			Resheath:     "aatrox_resheath_fullbody.anm",
			IdleInSheath: "aatrox_idle_in_sheath.anm",
			Combo: [3]ComboClips{
				{Strike: "aatrox_ground_q1.anm", Recovery: "aatrox_ground_q1_into_idle.anm"},
				{Strike: "aatrox_ground_q2.anm", Recovery: "aatrox_ground_q2_to_idle.anm"},
				{Strike: "aatrox_ground_q3.anm", Recovery: "aatrox_ground_q3_into_idle1.anm"},
			},
			ComboResheath:   "aatrox_resheath_fullbody.anm",
			SpellWindup:     "aatrox_spell3_unsheath.anm",
			SpellStationary: "aatrox_spell3.anm",
			SpellStop:       "aatrox_spell3_unsheath_to_idle.anm",
			Dash:            "aatrox_spell3_dash.anm",
			DashRecovery:    "aatrox_spell3_dash_to_walk.anm",
		},
	}
}

// ConfigFromSpec builds a Config from a loaded character prefab.
func ConfigFromSpec(spec *prefabs.CharacterSpec) Config {
	cfg := DefaultConfig()
	if spec == nil {
		return cfg
	}
	t := spec.Tuning
	cfg.GlobalSpeed = t.GlobalSpeed
	cfg.RunSpeed = t.RunSpeed
	cfg.GlideSpeed = t.GlideSpeed
	cfg.GlideDistance = t.GlideDistance
	cfg.DashSpeed = t.DashSpeed
	cfg.DashDuration = t.DashDuration
	cfg.ArrivalThreshold = t.ArrivalThreshold
	cfg.IntroFade = t.IntroFade
	cfg.SettleFade = t.SettleFade
	cfg.ActionFade = t.ActionFade
	cfg.RecoveryFade = t.RecoveryFade
	cfg.SpellSpeed = t.SpellSpeed
	cfg.DashRecoverySpeed = t.DashRecoverySpeed
	cfg.Debug = t.Debug

	b := spec.Bindings
	cfg.Clips = Clips{
		Intro:           b.Intro,
		Idle:            b.Idle,
		Unsheath:        b.Unsheath,
		Run:             b.Run,
		Resheath:        b.Resheath,
		IdleInSheath:    b.IdleInSheath,
		ComboResheath:   b.ComboResheath,
		SpellWindup:     b.SpellWindup,
		SpellStationary: b.SpellStationary,
		SpellStop:       b.SpellStop,
		Dash:            b.Dash,
		DashRecovery:    b.DashRecovery,
	}
	for i := 0; i < len(cfg.Clips.Combo) && i < len(b.Combo); i++ {
		cfg.Clips.Combo[i] = ComboClips{Strike: b.Combo[i].Strike, Recovery: b.Combo[i].Recovery}
	}
	return cfg
}

// Validate rejects tunables that would stall the character: a zero speed
// freezes the mixer or the integrators, and a zero dash never expires.
func (c Config) Validate() error {
	switch {
	case c.GlobalSpeed <= 0:
		return fmt.Errorf("%w: global speed must be positive", ErrInvalidConfig)
	case c.RunSpeed <= 0, c.GlideSpeed <= 0, c.DashSpeed <= 0:
		return fmt.Errorf("%w: speeds must be positive", ErrInvalidConfig)
	case c.DashDuration <= 0:
		return fmt.Errorf("%w: dash duration must be positive", ErrInvalidConfig)
	case c.ArrivalThreshold < 0:
		return fmt.Errorf("%w: arrival threshold must not be negative", ErrInvalidConfig)
	}
	return nil
}

func (c *Config) logger() *log.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return log.Default()
}

func (c *Config) debugf(format string, args ...any) {
	if !c.Debug {
		return
	}
	c.logger().Printf("character: "+format, args...)
}

func (c *Config) warnf(format string, args ...any) {
	c.logger().Printf("character: "+format, args...)
}
