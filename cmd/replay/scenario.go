package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/charctl/character"
	"github.com/milk9111/charctl/common"
	"github.com/milk9111/charctl/ecs/component"
)

const defaultStep = 1.0 / 60

// Scenario is a timed list of inputs fed to one character.
type Scenario struct {
	Prefab   string  `yaml:"prefab"`
	Step     float64 `yaml:"step"`
	Duration float64 `yaml:"duration"`
	Inputs   []Input `yaml:"inputs"`
}

// Input is applied on the first tick at or after At. Exactly one of
// Destination, Key, Aim or ClearAim is expected.
type Input struct {
	At          float64      `yaml:"at"`
	Destination *common.Vec3 `yaml:"destination,omitempty"`
	Key         string       `yaml:"key,omitempty"`
	Aim         *common.Vec3 `yaml:"aim,omitempty"`
	ClearAim    bool         `yaml:"clear_aim,omitempty"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("replay: read %s: %w", path, err)
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("replay: unmarshal %s: %w", path, err)
	}
	if err := sc.normalize(); err != nil {
		return nil, fmt.Errorf("replay: %s: %w", path, err)
	}
	return &sc, nil
}

func (s *Scenario) normalize() error {
	if s.Step <= 0 {
		s.Step = defaultStep
	}
	for i, in := range s.Inputs {
		n := 0
		if in.Destination != nil {
			n++
		}
		if in.Key != "" {
			if _, err := component.ParseAbilityKey(in.Key); err != nil {
				return fmt.Errorf("input %d: %w", i, err)
			}
			n++
		}
		if in.Aim != nil {
			n++
		}
		if in.ClearAim {
			n++
		}
		if n != 1 {
			return fmt.Errorf("input %d: want exactly one action, got %d", i, n)
		}
	}
	sort.SliceStable(s.Inputs, func(i, j int) bool { return s.Inputs[i].At < s.Inputs[j].At })
	if last := len(s.Inputs); last > 0 && s.Duration < s.Inputs[last-1].At {
		s.Duration = s.Inputs[last-1].At
	}
	return nil
}

// Record is one line of replay output.
type Record struct {
	Time     float64
	Event    string
	Snapshot character.Snapshot
}

// Run drives ctl through the scenario and reports every accepted or ignored
// input plus every phase change.
func Run(ctl *character.Controller, sc *Scenario) ([]Record, error) {
	if err := ctl.Start(); err != nil {
		return nil, err
	}

	var out []Record
	record := func(t float64, event string) {
		out = append(out, Record{Time: t, Event: event, Snapshot: ctl.Snapshot()})
	}
	ctl.OnIntroComplete(func() { out = append(out, Record{Event: "intro complete"}) })

	last := ctl.Snapshot().Phase
	next := 0
	for t := 0.0; t <= sc.Duration+sc.Step/2; t += sc.Step {
		for next < len(sc.Inputs) && sc.Inputs[next].At <= t+sc.Step/2 {
			record(t, apply(ctl, sc.Inputs[next]))
			next++
		}
		ctl.Tick(sc.Step)
		if p := ctl.Snapshot().Phase; p != last {
			record(t+sc.Step, fmt.Sprintf("%s -> %s", last, p))
			last = p
		}
	}
	// intro hook records carry no time; stamp them with the following record
	for i := len(out) - 2; i >= 0; i-- {
		if out[i].Event == "intro complete" {
			out[i].Time = out[i+1].Time
			out[i].Snapshot = out[i+1].Snapshot
		}
	}
	return out, nil
}

func apply(ctl *character.Controller, in Input) string {
	switch {
	case in.Destination != nil:
		return verdict(ctl.SubmitDestination(*in.Destination), "destination %v", *in.Destination)
	case in.Key != "":
		k, _ := component.ParseAbilityKey(in.Key)
		return verdict(ctl.SubmitAbilityKey(k), "key %s", k)
	case in.Aim != nil:
		ctl.SubmitAimPoint(*in.Aim)
		return fmt.Sprintf("aim %v", *in.Aim)
	default:
		ctl.ClearAimPoint()
		return "aim cleared"
	}
}

func verdict(ok bool, format string, args ...any) string {
	msg := fmt.Sprintf(format, args...)
	if ok {
		return msg
	}
	return msg + " (ignored)"
}

func Print(w io.Writer, records []Record) {
	for _, r := range records {
		s := r.Snapshot
		fmt.Fprintf(w, "%7.3f  %-34s pos=(%.2f, %.2f, %.2f) facing=%.3f combo=%d clip=%s\n",
			r.Time, r.Event, s.Position.X, s.Position.Y, s.Position.Z, s.Facing, s.ComboIndex, s.Clip)
	}
}
