package prefabs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadCharacterSpec(t *testing.T) {
	spec, err := LoadCharacterSpec("")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	cases := []struct {
		name string
		got  float64
		want float64
	}{
		{"global_speed", spec.Tuning.GlobalSpeed, 0.5},
		{"run_speed", spec.Tuning.RunSpeed, 5},
		{"glide_speed", spec.Tuning.GlideSpeed, 10},
		{"glide_distance", spec.Tuning.GlideDistance, 5},
		{"dash_speed", spec.Tuning.DashSpeed, 20},
		{"dash_duration", spec.Tuning.DashDuration, 0.3},
		{"arrival_threshold", spec.Tuning.ArrivalThreshold, 0.1},
		{"spell_speed", spec.Tuning.SpellSpeed, 0.55},
		{"dash_recovery_speed", spec.Tuning.DashRecoverySpeed, 0.45},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if c.got != c.want {
				t.Fatalf("expected %v, got %v", c.want, c.got)
			}
		})
	}

	known := make(map[string]bool, len(spec.Clips))
	for _, c := range spec.Clips {
		known[c.Name] = true
	}
	for _, stage := range spec.Bindings.Combo {
		if !known[stage.Strike] || !known[stage.Recovery] {
			t.Fatalf("combo stage %+v references an unknown clip", stage)
		}
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("CHARCTL_RUN_SPEED", "7.5")
	t.Setenv("CHARCTL_DEBUG", "true")

	spec, err := LoadCharacterSpec(CharacterFile)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if spec.Tuning.RunSpeed != 7.5 {
		t.Fatalf("expected env run speed 7.5, got %v", spec.Tuning.RunSpeed)
	}
	if !spec.Tuning.Debug {
		t.Fatalf("expected debug enabled from env")
	}
	if spec.Tuning.DashSpeed != 20 {
		t.Fatalf("unset variables must keep yaml values, got dash speed %v", spec.Tuning.DashSpeed)
	}
}

func TestApplyEnvRejectsGarbage(t *testing.T) {
	t.Setenv("CHARCTL_DASH_SPEED", "fast")
	if _, err := LoadCharacterSpec(CharacterFile); err == nil {
		t.Fatalf("expected parse error for non-numeric dash speed")
	}
}

func TestValidate(t *testing.T) {
	base, err := LoadSpec[CharacterSpec](CharacterFile)
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name   string
		mutate func(s *CharacterSpec)
	}{
		{"zero_global_speed", func(s *CharacterSpec) { s.Tuning.GlobalSpeed = 0 }},
		{"negative_dash_speed", func(s *CharacterSpec) { s.Tuning.DashSpeed = -1 }},
		{"zero_dash_duration", func(s *CharacterSpec) { s.Tuning.DashDuration = 0 }},
		{"two_combo_stages", func(s *CharacterSpec) { s.Bindings.Combo = s.Bindings.Combo[:2] }},
		{"unnamed_clip", func(s *CharacterSpec) { s.Clips = append(s.Clips, ClipSpec{Duration: 1}) }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			spec := base
			spec.Bindings.Combo = append([]ComboSpec(nil), base.Bindings.Combo...)
			spec.Clips = append([]ClipSpec(nil), base.Clips...)
			c.mutate(&spec)
			if err := spec.Validate(); !errors.Is(err, ErrInvalidSpec) {
				t.Fatalf("expected ErrInvalidSpec, got %v", err)
			}
		})
	}
}

func TestLoadPrefersDisk(t *testing.T) {
	dir := t.TempDir()
	old := Dir
	Dir = dir
	t.Cleanup(func() { Dir = old })

	if err := os.WriteFile(filepath.Join(dir, "custom.yaml"), []byte("name: disk\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	spec, err := LoadSpec[CharacterSpec]("prefabs/custom.yaml")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if spec.Name != "disk" {
		t.Fatalf("expected on-disk prefab, got %q", spec.Name)
	}
	if _, err := Load("missing.yaml"); err == nil {
		t.Fatalf("expected error for missing prefab")
	}
}

func TestWatcherReportsYAMLWrites(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("watcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	target := filepath.Join(dir, "character.yaml")
	if err := os.WriteFile(target, []byte("name: x\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case name := <-w.Events:
		if filepath.Base(name) != "character.yaml" {
			t.Fatalf("expected character.yaml event, got %s", name)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for watcher event")
	}
}
