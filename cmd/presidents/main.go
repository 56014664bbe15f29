package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"presidents/internal/app"
	"presidents/internal/bot"
	"presidents/internal/config"
	"presidents/internal/domain"
	"presidents/internal/ports"
	"presidents/internal/ports/gamedb"
)

// playerFlags collects repeatable -player name[:strategy] arguments.
type playerFlags []config.PlayerConfig

func (f *playerFlags) String() string {
	parts := make([]string, 0, len(*f))
	for _, p := range *f {
		parts = append(parts, p.Name+":"+p.Strategy)
	}
	return strings.Join(parts, ",")
}

func (f *playerFlags) Set(value string) error {
	name, strategy, _ := strings.Cut(value, ":")
	if name == "" {
		return fmt.Errorf("player flag needs a name")
	}
	*f = append(*f, config.PlayerConfig{Name: name, Strategy: strategy})
	return nil
}

func main() {
	var players playerFlags
	configPath := flag.String("config", "", "path to a JSON config file")
	dbPath := flag.String("db", "", "sqlite database path (overrides config)")
	writer := flag.String("writer", "", "database writer: bulk, streaming or none (overrides config)")
	rounds := flag.Int("rounds", 0, "number of rounds to play (overrides config)")
	seed := flag.Int64("seed", 0, "seed for the session; 0 draws one from the clock")
	policy := flag.String("role-policy", "", "role assignment policy: strict or legacy (overrides config)")
	quiet := flag.Bool("quiet", false, "suppress per-action logging")
	flag.Var(&players, "player", "player as name[:strategy]; repeatable")
	flag.Parse()

	if err := run(*configPath, players, *dbPath, *writer, *rounds, *seed, *policy, *quiet); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(configPath string, players playerFlags, dbPath, writer string, rounds int, seed int64, policy string, quiet bool) error {
	cfg, err := buildConfig(configPath, players, dbPath, writer, rounds, policy)
	if err != nil {
		return err
	}

	logger, err := buildLogger(cfg, quiet)
	if err != nil {
		return fmt.Errorf("set up logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	logger.Info("session starting",
		zap.Int64("seed", seed),
		zap.Int("players", len(cfg.Players)),
		zap.Int("rounds", cfg.Rounds))

	recorder, err := buildRecorder(cfg, logger)
	if err != nil {
		return err
	}

	specs, err := buildPlayers(cfg, rng)
	if err != nil {
		return err
	}

	snapshot, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("snapshot config: %w", err)
	}

	svc := app.NewService(recorder, logger, rng)
	sessions, err := svc.Run(context.Background(), app.RunOptions{
		Players:       specs,
		Rounds:        cfg.Rounds,
		Policy:        rolePolicy(cfg),
		Configuration: snapshot,
	})
	if err != nil {
		return err
	}

	for round, results := range sessions {
		fmt.Printf("round %d:\n", round+1)
		for _, res := range results {
			fmt.Printf("  %d. %-16s %s\n", res.Place, res.Name, res.Role)
		}
	}
	return nil
}

// buildConfig merges the config file (if any) with the flag overrides.
func buildConfig(path string, players playerFlags, dbPath, writer string, rounds int, policy string) (*config.Config, error) {
	var cfg *config.Config
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = &config.Config{}
	}

	if len(players) > 0 {
		cfg.Players = players
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
		cfg.Database.Writer = ""
	}
	if writer != "" {
		cfg.Database.Writer = writer
	}
	if rounds > 0 {
		cfg.Rounds = rounds
	}
	if policy != "" {
		cfg.RolePolicy = policy
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func buildLogger(cfg *config.Config, quiet bool) (*zap.Logger, error) {
	if quiet {
		return zap.NewNop(), nil
	}
	// A human seat plays on stdout; keep logs out of the way.
	for _, p := range cfg.Players {
		if p.Strategy == string(bot.KindConsole) {
			return zap.NewNop(), nil
		}
	}
	return zap.NewProduction()
}

func buildRecorder(cfg *config.Config, logger *zap.Logger) (ports.GameRecorder, error) {
	if cfg.Database.Writer == "none" || cfg.Database.Path == "" {
		return ports.NoopRecorder{}, nil
	}
	db, err := gamedb.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	if err := gamedb.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate game database: %w", err)
	}
	switch cfg.Database.Writer {
	case "streaming":
		return gamedb.NewStreamingWriter(db, logger), nil
	default:
		return gamedb.NewBulkWriter(db, logger), nil
	}
}

func buildPlayers(cfg *config.Config, rng *rand.Rand) ([]app.PlayerSpec, error) {
	specs := make([]app.PlayerSpec, 0, len(cfg.Players))
	for _, p := range cfg.Players {
		strategy, err := bot.New(bot.Kind(p.Strategy), rng)
		if err != nil {
			return nil, fmt.Errorf("player %q: %w", p.Name, err)
		}
		specs = append(specs, app.PlayerSpec{Name: p.Name, Strategy: strategy})
	}
	return specs, nil
}

func rolePolicy(cfg *config.Config) domain.RolePolicy {
	if cfg.RolePolicy == "legacy" {
		return domain.RolePolicyLegacy
	}
	return domain.RolePolicyStrict
}
