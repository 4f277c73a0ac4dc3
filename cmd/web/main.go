package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/peterkuimelis/immuno/internal/config"
	"github.com/peterkuimelis/immuno/internal/web"
)

func main() {
	port := flag.Int("port", 0, "HTTP port to listen on (default from config, 8080)")
	gameAddr := flag.String("game", "", "address of the TCP game server (default from config, localhost:9999)")
	rulesFile := flag.String("rules", "", "path to config YAML file")
	scenarioFile := flag.String("scenario", "", "path to scenario YAML file (default: built-in)")
	flag.Parse()

	cfg, err := config.Load(*rulesFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.WebPort = *port
	}
	if *gameAddr != "" {
		cfg.GameAddr = *gameAddr
	}
	if *scenarioFile != "" {
		cfg.Scenario = *scenarioFile
	}
	sc, err := cfg.LoadScenario()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	srv, err := web.NewServer(sc, cfg.GameAddr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", cfg.WebPort)
	log.Printf("immuno web UI listening on http://localhost:%d (game server %s)", cfg.WebPort, cfg.GameAddr)
	if err := srv.ListenAndServe(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
