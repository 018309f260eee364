package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/config"
	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/game/dice"
	"github.com/cory-johannsen/arena/internal/game/monster"
	"github.com/cory-johannsen/arena/internal/game/power"
	"github.com/cory-johannsen/arena/internal/game/roster"
	"github.com/cory-johannsen/arena/internal/scripting"
)

// content is everything loaded from disk before the first brawl.
type content struct {
	builder *combat.Builder
	scripts *scripting.Manager
}

// loadContent loads power scripts, power definitions and monster templates.
// Missing powers or scripts directories are skipped; only builtin powers are
// then available.
func loadContent(cfg config.ContentConfig, roller *dice.Roller, logger *zap.Logger) (*content, error) {
	scripts := scripting.NewManager(roller, logger, cfg.InstructionLimit)
	if present(cfg.ScriptsDir) {
		if err := scripts.LoadDir(cfg.ScriptsDir); err != nil {
			return nil, err
		}
		logger.Info("scripts loaded", zap.String("dir", cfg.ScriptsDir))
	}

	factory := power.NewFactory()
	scripts.Install(factory)

	reg := power.DefaultRegistry()
	if present(cfg.PowersDir) {
		if err := reg.LoadDirectory(cfg.PowersDir); err != nil {
			scripts.Close()
			return nil, fmt.Errorf("loading powers: %w", err)
		}
	}
	logger.Info("powers loaded", zap.Int("count", len(reg.All())), zap.Strings("kinds", factory.Kinds()))

	catalog, err := monster.LoadCatalog(cfg.MonstersDir)
	if err != nil {
		scripts.Close()
		return nil, fmt.Errorf("loading monsters: %w", err)
	}
	logger.Info("monsters loaded", zap.Strings("ids", catalog.IDs()))

	return &content{
		builder: &combat.Builder{Monsters: catalog, Powers: reg, Factory: factory},
		scripts: scripts,
	}, nil
}

func present(dir string) bool {
	if dir == "" {
		return false
	}
	_, err := os.Stat(dir)
	return !errors.Is(err, fs.ErrNotExist)
}

// roster files parsed once and rebuilt into fresh groups for every trial.
type groupFile struct {
	name    string
	entries []roster.Entry
}

func loadGroups(paths []string) ([]groupFile, error) {
	var out []groupFile
	for _, p := range paths {
		entries, err := roster.ParseFile(p)
		if err != nil {
			return nil, err
		}
		name := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		out = append(out, groupFile{name: name, entries: entries})
	}
	return out, nil
}

// arenaBuilder returns a stats.BuildFunc that assembles fresh combatants for
// every trial.
func (c *content) arenaBuilder(groups []groupFile, maxTurns int, logger *zap.Logger) func(int, dice.Source) (*combat.Arena, error) {
	return func(trial int, src dice.Source) (*combat.Arena, error) {
		brawlLog := logger.With(zap.Int("trial", trial))
		engine := combat.NewEngine(dice.NewLoggedRoller(src, brawlLog), brawlLog)
		a := combat.NewArena(engine, maxTurns, brawlLog)
		for _, gf := range groups {
			g, err := c.builder.Group(gf.name, gf.entries)
			if err != nil {
				return nil, err
			}
			a.AddGroup(g)
		}
		return a, nil
	}
}
