package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/charctl/prefabs"
)

func main() {
	debug := flag.Bool("debug", false, "log every phase transition")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	prefabName := flag.String("prefab", prefabs.CharacterFile, "character prefab in the prefab dir")
	watch := flag.Bool("watch", false, "reload the prefab when it changes on disk")
	flag.Parse()

	opts, err := prefabs.LoadEnvOptions()
	if err != nil {
		log.Fatal(err)
	}
	prefabs.Dir = opts.PrefabDir

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("charctl")

	game, err := NewGame(*prefabName, *debug)
	if err != nil {
		log.Fatal(err)
	}
	if *watch || opts.Watch {
		if err := game.Watch(prefabs.Dir); err != nil {
			log.Printf("prefab watch disabled: %v", err)
		}
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
