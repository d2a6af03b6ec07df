package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/milk9111/charctl/character"
	"github.com/milk9111/charctl/ecs/component"
	"github.com/milk9111/charctl/prefabs"
)

const tickRate = 16 * time.Millisecond

var runeKeys = map[rune]character.Key{
	'q': character.KeyAttack,
	'w': character.KeySpell,
	'e': character.KeyDash,
}

type Game struct {
	screen tcell.Screen
	grid   Grid
	ctl    *character.Controller
	cues   *Cues

	cursorX, cursorY int
	status           string
}

func NewGame(prefab string, logger *log.Logger) (*Game, error) {
	spec, err := prefabs.LoadCharacterSpec(prefab)
	if err != nil {
		return nil, err
	}
	ctl, err := character.New(spec, character.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnableMouse()

	g := &Game{screen: screen, ctl: ctl, status: "intro"}
	g.handleResize()
	g.cursorX, g.cursorY = g.grid.Width/2, g.grid.Height/2

	cues, err := NewCues()
	if err != nil {
		// Non-fatal, the demo runs without sound
		logger.Printf("audio initialization failed: %v", err)
	}
	g.cues = cues

	ctl.OnIntroComplete(func() {
		g.status = "ready"
		g.cues.Ready()
	})
	if err := ctl.Start(); err != nil {
		screen.Fini()
		return nil, err
	}
	return g, nil
}

func (g *Game) handleResize() {
	w, h := g.screen.Size()
	g.grid = Grid{Width: w, Height: h}
	g.screen.Sync()
}

func (g *Game) moveCursor(dx, dy int) {
	x, y := g.cursorX+dx, g.cursorY+dy
	if g.grid.Contains(x, y) {
		g.cursorX, g.cursorY = x, y
	}
}

func (g *Game) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyUp:
			g.moveCursor(0, -1)
		case tcell.KeyDown:
			g.moveCursor(0, 1)
		case tcell.KeyLeft:
			g.moveCursor(-1, 0)
		case tcell.KeyRight:
			g.moveCursor(1, 0)
		case tcell.KeyEnter:
			g.submitDestination()
		case tcell.KeyRune:
			if ev.Rune() == ' ' {
				g.submitDestination()
			} else if k, ok := runeKeys[ev.Rune()]; ok {
				g.submitKey(k)
			}
		}

	case *tcell.EventMouse:
		x, y := ev.Position()
		if g.grid.Contains(x, y) {
			g.cursorX, g.cursorY = x, y
		}
		if ev.Buttons()&tcell.Button2 != 0 {
			g.submitDestination()
		}

	case *tcell.EventResize:
		g.handleResize()
	}
	return true
}

func (g *Game) submitDestination() {
	p := g.grid.ToGround(g.cursorX, g.cursorY)
	if !g.ctl.SubmitDestination(p) {
		g.status = fmt.Sprintf("destination ignored in %s", g.ctl.Snapshot().Phase)
	}
}

func (g *Game) submitKey(k character.Key) {
	if g.ctl.SubmitAbilityKey(k) {
		g.cues.Play(k)
		return
	}
	g.status = fmt.Sprintf("%s ignored in %s", k, g.ctl.Snapshot().Phase)
}

func (g *Game) update(dt float64) {
	g.ctl.SubmitAimPoint(g.grid.ToGround(g.cursorX, g.cursorY))
	g.ctl.Tick(dt)
}

func (g *Game) draw() {
	g.screen.Clear()
	snap := g.ctl.Snapshot()

	if snap.HasTarget {
		x, y := g.grid.ToCell(snap.Target)
		if g.grid.Contains(x, y) {
			g.screen.SetContent(x, y, 'x', nil, tcell.StyleDefault.Foreground(tcell.ColorGreen))
		}
	}

	g.screen.SetContent(g.cursorX, g.cursorY, '+', nil, tcell.StyleDefault.Foreground(tcell.ColorGray))

	x, y := g.grid.ToCell(snap.Position)
	if g.grid.Contains(x, y) {
		g.screen.SetContent(x, y, facingRune(snap.Facing), nil, phaseStyle(snap.Phase))
	}

	hud := fmt.Sprintf(" %s | %s | combo %d | %s ", snap.Phase, snap.Clip, snap.ComboIndex, g.status)
	for i, r := range []rune(hud) {
		g.screen.SetContent(i, 0, r, nil, tcell.StyleDefault.Reverse(true))
	}
	g.screen.Show()
}

func phaseStyle(p character.Phase) tcell.Style {
	style := tcell.StyleDefault.Bold(true)
	switch {
	case p.Combat():
		return style.Foreground(tcell.ColorRed)
	case p == component.PhaseDashing:
		return style.Foreground(tcell.ColorYellow)
	case p == component.PhaseRunning, p == component.PhaseStarting:
		return style.Foreground(tcell.ColorBlue)
	}
	return style.Foreground(tcell.ColorWhite)
}

func (g *Game) run() {
	ticker := time.NewTicker(tickRate)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			eventChan <- g.screen.PollEvent()
		}
	}()

	last := time.Now()
	for {
		select {
		case ev := <-eventChan:
			if !g.handleInput(ev) {
				return
			}
		case now := <-ticker.C:
			g.update(now.Sub(last).Seconds())
			last = now
			g.draw()
		}
	}
}

func (g *Game) cleanup() {
	g.cues.Close()
	g.screen.Fini()
}

func main() {
	prefab := flag.String("prefab", prefabs.CharacterFile, "character prefab in the prefab dir")
	logPath := flag.String("log", "", "write controller logs to this file")
	flag.Parse()

	opts, err := prefabs.LoadEnvOptions()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	prefabs.Dir = opts.PrefabDir

	// the terminal belongs to tcell; logs go to a file or nowhere
	var out io.Writer = io.Discard
	if *logPath != "" {
		f, err := os.Create(*logPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	game, err := NewGame(*prefab, log.New(out, "", log.Lmicroseconds))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer game.cleanup()

	game.run()
}
