// Package main runs brawls between monster groups read from roster files
// and reports how often each group wins.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/config"
	"github.com/cory-johannsen/arena/internal/game/dice"
	"github.com/cory-johannsen/arena/internal/observability"
	"github.com/cory-johannsen/arena/internal/stats"
	"github.com/cory-johannsen/arena/internal/storage/postgres"
)

// stringList collects a repeatable flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func main() {
	start := time.Now()

	var groups stringList
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Var(&groups, "group", "roster file defining a monster group (repeatable)")
	trials := flag.Int("trials", 0, "number of brawls to fight (0 = arena.trials from config)")
	seed := flag.Int64("seed", 0, "random seed (0 = arena.seed from config)")
	flag.Parse()
	groups = append(groups, flag.Args()...)

	if len(groups) < 2 {
		fmt.Fprintln(os.Stderr, "at least two -group roster files are required")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *trials > 0 {
		cfg.Arena.Trials = *trials
	}
	if *seed != 0 {
		cfg.Arena.Seed = *seed
	}
	if cfg.Arena.Seed == 0 {
		cfg.Arena.Seed = int64(dice.NewCryptoSource().Intn(1<<31-1)) + 1
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("starting arena",
		zap.Strings("groups", groups),
		zap.Int("trials", cfg.Arena.Trials),
		zap.Int64("seed", cfg.Arena.Seed),
	)

	scriptRoller := dice.NewLoggedRoller(dice.NewSeededSource(cfg.Arena.Seed+1), logger)
	c, err := loadContent(cfg.Content, scriptRoller, logger)
	if err != nil {
		logger.Fatal("loading content", zap.Error(err))
	}
	defer c.scripts.Close()

	files, err := loadGroups(groups)
	if err != nil {
		logger.Fatal("loading rosters", zap.Error(err))
	}

	opts := []stats.Option{stats.WithWorkers(cfg.Arena.Workers)}
	if cfg.Database.Enabled {
		dbStart := time.Now()
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		defer pool.Close()
		repo := postgres.NewBrawlRepository(pool.DB(), uuid.New())
		opts = append(opts, stats.WithRecorder(repo))
		logger.Info("database connected",
			zap.String("host", cfg.Database.Host),
			zap.Stringer("run", repo.RunID()),
			zap.Duration("elapsed", time.Since(dbStart)),
		)
	}

	st := stats.NewStatistician(dice.NewSeededSource(cfg.Arena.Seed), logger, opts...)
	tally, err := st.Run(ctx, cfg.Arena.Trials, c.arenaBuilder(files, cfg.Arena.MaxTurns, logger))
	if err != nil {
		logger.Fatal("running brawls", zap.Error(err))
	}

	fmt.Fprint(os.Stdout, tally.String())
	fmt.Fprintf(os.Stdout, "%d trials, seed %d [%s]\n", tally.Trials, cfg.Arena.Seed, time.Since(start))
}
