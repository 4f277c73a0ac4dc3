package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/peterkuimelis/immuno/internal/config"
	immunomcp "github.com/peterkuimelis/immuno/internal/mcp"
)

func main() {
	rulesFile := flag.String("rules", "", "path to rules YAML file")
	scenarioFile := flag.String("scenario", "", "path to scenario YAML file (default: built-in)")
	untimed := flag.Bool("untimed", true, "disable the turn timer")
	flag.Parse()

	cfg, err := config.Load(*rulesFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *scenarioFile != "" {
		cfg.Scenario = *scenarioFile
	}
	if *untimed {
		cfg.Rules.TurnDuration = 0
	}
	sc, err := cfg.LoadScenario()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	s := server.NewMCPServer("immuno", "1.0.0")
	immunomcp.NewHandler(sc, cfg.GameRules()).RegisterTools(s)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
