package main

import (
	"flag"
	"io"
	"log"
	"os"

	"github.com/milk9111/charctl/character"
	"github.com/milk9111/charctl/prefabs"
)

func main() {
	debug := flag.Bool("debug", false, "log the controller's own transitions")
	prefabDir := flag.String("prefabs", "", "prefab directory (overrides CHARCTL_PREFAB_DIR)")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatal("usage: replay [-debug] [-prefabs dir] scenario.yaml")
	}

	opts, err := prefabs.LoadEnvOptions()
	if err != nil {
		log.Fatal(err)
	}
	prefabs.Dir = opts.PrefabDir
	if *prefabDir != "" {
		prefabs.Dir = *prefabDir
	}

	sc, err := LoadScenario(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}
	spec, err := prefabs.LoadCharacterSpec(sc.Prefab)
	if err != nil {
		log.Fatal(err)
	}
	if *debug {
		spec.Tuning.Debug = true
	}

	logger := log.New(io.Discard, "", 0)
	if spec.Tuning.Debug {
		logger = log.New(os.Stderr, "", log.Lmicroseconds)
	}
	ctl, err := character.New(spec, character.WithLogger(logger))
	if err != nil {
		log.Fatal(err)
	}

	records, err := Run(ctl, sc)
	if err != nil {
		log.Fatal(err)
	}
	Print(os.Stdout, records)
}
