package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/peterkuimelis/immuno/internal/config"
	immunonet "github.com/peterkuimelis/immuno/internal/net"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	cmd := os.Args[1]
	switch cmd {
	case "serve":
		err = runServe(ctx, os.Args[2:])
	case "join":
		err = runJoin(ctx, os.Args[2:])
	case "solo":
		err = runSolo(ctx, os.Args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  immuno serve [--port P] [--rules FILE] [--scenario FILE] [--log]")
	fmt.Println("  immuno join  [--deck N] [--seed S] [--addr ADDR]")
	fmt.Println("  immuno solo  [--deck N] [--seed S] [--rules FILE] [--scenario FILE]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  serve   Start a game server; every connection plays its own game")
	fmt.Println("  join    Connect to a game server and play in the terminal")
	fmt.Println("  solo    Play a local game without a server")
	fmt.Println()
	fmt.Println("Settings can also come from IMMUNO_* environment variables (e.g. IMMUNO_RULES_TURN_DURATION=0s).")
}

// loadServer builds a game server from the rules file, the environment and flag overrides.
func loadServer(rulesFile, scenarioFile, port string) (*immunonet.Server, config.Config, error) {
	cfg, err := config.Load(rulesFile)
	if err != nil {
		return nil, cfg, err
	}
	if scenarioFile != "" {
		cfg.Scenario = scenarioFile
	}
	if port != "" {
		cfg.Port = port
	}
	sc, err := cfg.LoadScenario()
	if err != nil {
		return nil, cfg, fmt.Errorf("load scenario: %w", err)
	}
	return &immunonet.Server{Scenario: sc, Rules: cfg.GameRules(), Port: cfg.Port}, cfg, nil
}

func runServe(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	port := fs.String("port", "", "TCP port to listen on (default from config, 9999)")
	rulesFile := fs.String("rules", "", "path to rules YAML file")
	scenarioFile := fs.String("scenario", "", "path to scenario YAML file (default: built-in)")
	logEvents := fs.Bool("log", false, "print every game's events")
	fs.Parse(args)

	srv, cfg, err := loadServer(*rulesFile, *scenarioFile, *port)
	if err != nil {
		return err
	}
	if *logEvents || cfg.EventLog {
		srv.EventLog = os.Stdout
	}
	for i, d := range srv.Scenario.Decks {
		fmt.Printf("Deck %d: %s (%d cards)\n", i+1, d.Name, len(d.Cards))
	}
	return srv.Run(ctx)
}

func runJoin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("join", flag.ExitOnError)
	deck := fs.Int("deck", 1, "deck number to use")
	seed := fs.Int64("seed", 0, "random seed (0 for random)")
	addr := fs.String("addr", "localhost:9999", "server address to connect to")
	fs.Parse(args)

	return immunonet.Connect(ctx, *addr, *deck, *seed)
}

func runSolo(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("solo", flag.ExitOnError)
	deck := fs.Int("deck", 1, "deck number to use")
	seed := fs.Int64("seed", 0, "random seed (0 for random)")
	rulesFile := fs.String("rules", "", "path to rules YAML file")
	scenarioFile := fs.String("scenario", "", "path to scenario YAML file (default: built-in)")
	fs.Parse(args)

	srv, _, err := loadServer(*rulesFile, *scenarioFile, "")
	if err != nil {
		return err
	}
	return srv.PlaySolo(ctx, *deck, *seed)
}
