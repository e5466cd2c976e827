package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dd0wney/cluso-flowcore/pkg/config"
	"github.com/dd0wney/cluso-flowcore/pkg/logging"
	"github.com/dd0wney/cluso-flowcore/pkg/pipeline"
)

func main() {
	configPath := flag.String("config", "", "YAML configuration file")
	top := flag.Int("top", 100, "Number of hosts in the table")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: flowcore-tui [-config flowcore.yaml] [-top 100] <file>")
		os.Exit(1)
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "flowcore-tui: %v\n", err)
			os.Exit(1)
		}
	}
	// The browser only reads results
	cfg.Export.Dir = ""
	cfg.Export.Postgres.URL = ""

	logger := logging.NewLogger(cfg.Log.Level)
	res, err := pipeline.New(cfg, pipeline.Deps{Logger: logger}).RunFile(context.Background(), flag.Arg(0))
	if err != nil {
		logger.Error("analysis failed", logging.Input(flag.Arg(0)), logging.Error(err))
		os.Exit(1)
	}

	p := tea.NewProgram(initialModel(res, *top), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Error("error running program", logging.Error(err))
		os.Exit(1)
	}
}
