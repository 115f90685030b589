package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/daniacca/ecosim/internal/eco"
	"github.com/daniacca/ecosim/internal/render"
)

func main() {
	var (
		scenarioFile = flag.String("scenario", "", "path to a TOML scenario file")
		interactive  = flag.Bool("interactive", false, "prompt for simulation parameters step by step")
		width        = flag.Int("width", 0, "grid width (>0)")
		height       = flag.Int("height", 0, "grid height (>0)")
		plants       = flag.Int("plants", -1, "initial number of plants")
		herbivores   = flag.Int("herbivores", -1, "initial number of herbivores")
		carnivores   = flag.Int("carnivores", -1, "initial number of carnivores")
		ticks        = flag.Int("ticks", 0, "number of simulation ticks (>0)")
		seed         = flag.Int64("seed", 0, "random seed (0 = time-based)")
		delayMS      = flag.Int("delay-ms", -1, "delay between ticks in milliseconds")
		ascii        = flag.Bool("ascii", false, "render with ASCII symbols instead of pictographs")
		verbose      = flag.Bool("verbose", false, "log per-tick details to stderr")
	)
	flag.Parse()

	cfg, err := resolveConfig(*scenarioFile, *interactive)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Explicit flags win over scenario file and defaults.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			cfg.Width = *width
		case "height":
			cfg.Height = *height
		case "plants":
			cfg.Plants = *plants
		case "herbivores":
			cfg.Herbivores = *herbivores
		case "carnivores":
			cfg.Carnivores = *carnivores
		case "ticks":
			cfg.Ticks = *ticks
		case "seed":
			cfg.Seed = *seed
		case "delay-ms":
			cfg.TickDelayMS = *delayMS
		}
	})

	world, err := eco.NewWorld(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if *verbose {
		world.SetLogger(&stderrLogger{})
	}

	renderer := render.New(os.Stdout)
	renderer.SetASCII(*ascii)
	renderer.Banner(cfg.Width)

	delay := time.Duration(cfg.TickDelayMS) * time.Millisecond
	world.Run(func(s eco.Snapshot) {
		renderer.Render(s)
		if delay > 0 && !world.Done() {
			time.Sleep(delay)
		}
	})

	fmt.Println("Simulation ended.")
}

// resolveConfig picks the parameter source: scenario file, interactive
// prompting, or defaults.
func resolveConfig(scenarioFile string, interactive bool) (eco.Config, error) {
	switch {
	case scenarioFile != "":
		return eco.LoadScenario(scenarioFile)
	case interactive:
		return promptConfig(os.Stdin, os.Stdout), nil
	default:
		return eco.DefaultConfig(), nil
	}
}

// stderrLogger routes world logs to the standard logger on stderr.
type stderrLogger struct{}

func (l *stderrLogger) Debugf(format string, v ...any) { log.Printf("[DEBUG] "+format, v...) }
func (l *stderrLogger) Infof(format string, v ...any)  { log.Printf("[INFO] "+format, v...) }
func (l *stderrLogger) Warnf(format string, v ...any)  { log.Printf("[WARN] "+format, v...) }
func (l *stderrLogger) Errorf(format string, v ...any) { log.Printf("[ERROR] "+format, v...) }
