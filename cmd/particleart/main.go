package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/gekko3d/particleart"
	"github.com/gekko3d/particleart/cue"
	"github.com/gekko3d/particleart/gesture"
	"github.com/gekko3d/particleart/particles"
	"github.com/gekko3d/particleart/sim"
	"github.com/gekko3d/particleart/termview"
)

func init() {
	// GLFW and OpenGL calls must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "TOML config file")
	watch := flag.Bool("watch", false, "Reload the config file when it changes")
	importPath := flag.String("import", "", "Start from a JSON config written by the export key")
	renderer := flag.String("renderer", "gl", "Renderer: gl, term or none")
	source := flag.String("source", "ws", "Hand landmark source: ws, synthetic or none")
	listen := flag.String("listen", "127.0.0.1:8765", "Listen address for the landmark websocket")
	frames := flag.Uint64("frames", 0, "Quit after this many frames (0 runs until closed)")
	fixedStep := flag.Duration("fixed-step", 0, "Use a fixed frame duration instead of the wall clock")
	debug := flag.Bool("debug", false, "Enable debug logging")
	logPath := flag.String("log", "", "Write logs to this file")
	audio := flag.Bool("audio", false, "Play sound cues")
	seed := flag.Int64("seed", 0, "Random seed (0 picks one)")
	smoothing := flag.String("smoothing", "frame", "Orientation smoothing: frame or delta")
	exportDir := flag.String("export-dir", ".", "Directory for exported configs")
	flag.Parse()

	if flag.NArg() > 0 {
		log.Fatalf("Unknown arguments: %v", flag.Args())
	}

	logger, closeLog, err := newLogger(*logPath, *renderer == "term", *debug)
	if err != nil {
		log.Fatal(err)
	}
	defer closeLog()

	opts := sim.Options{}
	if opts.Smoothing, err = sim.ParseSmoothing(*smoothing); err != nil {
		log.Fatal(err)
	}
	if *seed != 0 {
		opts.Rand = particles.NewRand(uint64(*seed))
	}

	var initial *sim.Config
	if *importPath != "" {
		cfg, err := particleart.ImportConfig(*importPath)
		if err != nil {
			log.Fatal(err)
		}
		initial = &cfg
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, err := newSource(*source, *listen, *seed, logger)
	if err != nil {
		log.Fatal(err)
	}
	r, err := newRenderer(*renderer)
	if err != nil {
		logger.Warnf("falling back to headless run: %v", err)
		r = &particleart.NopRenderer{}
	}

	var player particleart.CuePlayer
	if *audio {
		p := cue.NewPlayer()
		if err := p.Init(); err != nil {
			logger.Warnf("sound cues disabled: %v", err)
		} else {
			player = p
		}
	}

	app := particleart.NewAppBuilder().
		UseStates(particleart.StateRunning, particleart.StateQuit).
		UseModule(
			particleart.LoggingModule{Logger: logger},
			particleart.TimeModule{FixedStep: *fixedStep, MaxFrames: *frames},
			particleart.ConfigModule{Path: *configPath, Watch: *watch, Initial: initial},
			particleart.HandTrackingModule{Source: src, Context: ctx},
			particleart.InputModule{ExportDir: *exportDir},
			particleart.SimulationModule{Options: opts},
			particleart.RenderModule{Renderer: r},
			particleart.CueModule{Player: player},
		).
		Build()

	app.UseSystem(particleart.System(func(cmd *particleart.Commands) {
		if ctx.Err() != nil {
			cmd.Quit()
		}
	}).InStage(particleart.Prelude).RunAlways())

	app.Run()
}

func newLogger(path string, terminal, debug bool) (particleart.Logger, func(), error) {
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		return particleart.NewWriterLogger("particleart", debug, f, f), func() { _ = f.Close() }, nil
	}
	if terminal {
		// The terminal renderer owns the screen.
		return particleart.NewWriterLogger("particleart", debug, io.Discard, io.Discard), func() {}, nil
	}
	return particleart.NewDefaultLogger("particleart", debug), func() {}, nil
}

func newSource(kind, listen string, seed int64, logger particleart.Logger) (gesture.Source, error) {
	switch kind {
	case "ws":
		return gesture.NewWebsocketSource(listen, logger), nil
	case "synthetic":
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		return gesture.NewSyntheticSource(seed), nil
	case "none", "":
		return nil, nil
	}
	return nil, fmt.Errorf("unknown source %q", kind)
}

func newRenderer(kind string) (particleart.Renderer, error) {
	switch kind {
	case "gl":
		return particleart.NewGLRenderer(1280, 720, "Particle Art")
	case "term":
		return termview.New()
	case "none", "":
		return &particleart.NopRenderer{}, nil
	}
	return nil, fmt.Errorf("unknown renderer %q", kind)
}
