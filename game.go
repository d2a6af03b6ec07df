package main

import (
	"fmt"
	"image/color"
	"log"
	"math"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/milk9111/charctl/character"
	"github.com/milk9111/charctl/common"
	"github.com/milk9111/charctl/ecs/component"
	"github.com/milk9111/charctl/prefabs"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	pixelsPerUnit = 32.0
	gridSpacing   = 2.0
	bodyRadius    = 0.5
)

type Game struct {
	frames int

	prefab  string
	input   *Input
	view    *View
	ctl     *character.Controller
	watcher *prefabs.Watcher
	logger  *log.Logger

	status string
}

func NewGame(prefab string, debug bool) (*Game, error) {
	spec, err := prefabs.LoadCharacterSpec(prefab)
	if err != nil {
		return nil, err
	}
	if debug {
		spec.Tuning.Debug = true
	}

	logger := log.New(os.Stderr, "", log.LstdFlags)
	ctl, err := character.New(spec, character.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	view := &View{Width: baseWidth, Height: baseHeight, Scale: pixelsPerUnit, Center: spec.Spawn}
	g := &Game{
		prefab: prefab,
		input:  NewInput(view),
		view:   view,
		ctl:    ctl,
		logger: logger,
		status: "intro",
	}
	ctl.OnIntroComplete(func() { g.status = "ready" })
	if err := ctl.Start(); err != nil {
		return nil, err
	}
	return g, nil
}

// Watch reloads the character prefab whenever a yaml file in dir changes.
func (g *Game) Watch(dir string) error {
	w, err := prefabs.NewWatcher(dir)
	if err != nil {
		return err
	}
	g.watcher = w
	return nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) Update() error {
	g.frames++
	g.pollWatcher()

	g.input.Update()
	if g.input.OnGround {
		g.ctl.SubmitAimPoint(g.input.Ground)
	} else {
		g.ctl.ClearAimPoint()
	}
	if g.input.MovePressed && g.input.OnGround {
		g.ctl.SubmitDestination(g.input.Ground)
	}
	for _, k := range g.input.Keys {
		g.ctl.SubmitAbilityKey(k)
	}

	g.ctl.Tick(1 / float64(ebiten.TPS()))
	g.view.Follow(g.ctl.Snapshot().Position, 0.1)
	return nil
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case name, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			if filepath.Base(name) != filepath.Base(g.prefab) {
				continue
			}
			g.reload()
		case err, ok := <-g.watcher.Errors:
			if ok {
				g.logger.Printf("prefab watch: %v", err)
			}
		default:
			return
		}
	}
}

func (g *Game) reload() {
	spec, err := prefabs.LoadCharacterSpec(g.prefab)
	if err != nil {
		g.logger.Printf("reload %s: %v", g.prefab, err)
		g.status = "reload failed"
		return
	}
	if err := g.ctl.ReloadSpec(spec); err != nil {
		g.logger.Printf("reload %s: %v", g.prefab, err)
		g.status = "reload failed"
		return
	}
	g.logger.Printf("reloaded %s", g.prefab)
	g.status = "reloaded"
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Darkslategray)
	g.drawGrid(screen)

	snap := g.ctl.Snapshot()
	if snap.HasTarget {
		tx, ty := g.view.ToScreen(snap.Target)
		vector.StrokeCircle(screen, float32(tx), float32(ty), 6, 2, colornames.Limegreen, true)
	}

	px, py := g.view.ToScreen(snap.Position)
	vector.DrawFilledCircle(screen, float32(px), float32(py), bodyRadius*pixelsPerUnit, phaseColor(snap.Phase), true)
	// facing is a yaw around +Y; on screen +Z points up
	fx := px + math.Sin(snap.Facing)*bodyRadius*2*pixelsPerUnit
	fy := py - math.Cos(snap.Facing)*bodyRadius*2*pixelsPerUnit
	vector.StrokeLine(screen, float32(px), float32(py), float32(fx), float32(fy), 3, colornames.White, true)

	if g.input.OnGround {
		ax, ay := g.view.ToScreen(g.input.Ground)
		vector.StrokeCircle(screen, float32(ax), float32(ay), 4, 1, colornames.Lightgrey, true)
	}

	ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.2f  %s", ebiten.ActualFPS(), g.status))
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf(
		"phase: %s\nclip: %s\ncombo: %d\npos: %.2f %.2f %.2f\nRMB move  Q attack  W spell  E dash",
		snap.Phase, snap.Clip, snap.ComboIndex, snap.Position.X, snap.Position.Y, snap.Position.Z,
	), 8, 24)
}

func (g *Game) drawGrid(screen *ebiten.Image) {
	tl := g.view.ToGround(0, 0)
	br := g.view.ToGround(g.view.Width, g.view.Height)
	for x := math.Floor(tl.X/gridSpacing) * gridSpacing; x <= br.X; x += gridSpacing {
		sx, _ := g.view.ToScreen(common.Vec3{X: x})
		vector.StrokeLine(screen, float32(sx), 0, float32(sx), float32(g.view.Height), 1, colornames.Dimgray, false)
	}
	for z := math.Floor(br.Z/gridSpacing) * gridSpacing; z <= tl.Z; z += gridSpacing {
		_, sy := g.view.ToScreen(common.Vec3{Z: z})
		vector.StrokeLine(screen, 0, float32(sy), float32(g.view.Width), float32(sy), 1, colornames.Dimgray, false)
	}
}

func phaseColor(p character.Phase) color.Color {
	switch {
	case p == component.PhaseDashing:
		return colornames.Gold
	case p == component.PhaseSpell:
		return colornames.Mediumpurple
	case p.Combat():
		return colornames.Crimson
	case p == component.PhaseRunning, p == component.PhaseStarting:
		return colornames.Steelblue
	}
	return colornames.Lightslategray
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
