package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lumipallolabs/burrow/internal/config"
	"github.com/lumipallolabs/burrow/internal/core"
	"github.com/lumipallolabs/burrow/internal/ui"
)

func main() {
	var (
		rootFlag    = flag.String("root", "", "directory to explore (default: home)")
		noCacheFlag = flag.Bool("no-cache", false, "skip the persisted size cache")
		noWatchFlag = flag.Bool("no-watch", false, "disable filesystem watching")
	)
	flag.Parse()

	// Enable CPU profiling if CPUPROFILE env var is set
	if cpuProfile := os.Getenv("CPUPROFILE"); cpuProfile != "" {
		f, err := os.Create(cpuProfile)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *rootFlag != "" {
		cfg.Root = *rootFlag
	}
	if flag.NArg() > 0 {
		cfg.Root = flag.Arg(0)
	}
	if *noCacheFlag {
		cfg.NoCache = true
	}
	if *noWatchFlag {
		cfg.NoWatch = true
	}

	ctrl, err := core.NewController(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(
		ui.NewApp(ctrl),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		_ = ctrl.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
