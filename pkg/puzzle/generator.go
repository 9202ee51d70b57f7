package puzzle

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/crossplay/backend/pkg/corpus"
	"github.com/crossplay/backend/pkg/grid"
	"github.com/crossplay/backend/pkg/solver"
	"github.com/crossplay/backend/pkg/supervisor"
	"github.com/crossplay/backend/pkg/template"
	"github.com/crossplay/backend/pkg/theme"
)

// ErrConfigError is spec.md §7's ConfigError kind: an invalid option
// combination, caught before any grid work begins.
var ErrConfigError = errors.New("puzzle: invalid configuration")

// Config holds every recognized option from spec.md §6's Configuration
// options list, grouped by the component that consumes it. Mirrors
// pkg/puzzle.Config's original shape: grid settings, fill settings,
// metadata, generalized to the new core.
type Config struct {
	// Template, if set, supplies an explicit grid and declared slots
	// (spec.md §6 Template). When nil, a grid is generated randomly
	// using the fields below.
	Template *template.Template

	// Random grid generation, used only when Template is nil.
	Height, Width int
	BlackSquareRatio float64

	MinWordLength int // default 3
	Difficulty    grid.Difficulty
	MinWordCount  int // 0 means "use the default for Difficulty"

	Theme             string
	ThemeLengthMin    int
	ThemeLengthMax    int
	ThemeMinFrequency int
	ThemeMode         theme.Mode
	ThemeThreshold    float64 // default 0.5
	ThemeWeighted     bool    // score-weighted choice when true; uniform when false (the zero value)
	ThemeOracle       theme.EmbeddingOracle

	Solver     solver.Config
	Supervisor supervisor.Config

	Seed int64 // rng_seed, default 0

	Name, Description string
}

func validateConfig(cfg Config) error {
	if cfg.Template == nil {
		if cfg.Height < 3 || cfg.Width < 3 {
			return fmt.Errorf("%w: height/width must be >= 3 when no template is given", ErrConfigError)
		}
		if cfg.BlackSquareRatio < 0 || cfg.BlackSquareRatio >= 1 {
			return fmt.Errorf("%w: black_square_ratio must be in [0,1)", ErrConfigError)
		}
	}
	switch cfg.Difficulty {
	case "", grid.Easy, grid.Medium, grid.Hard:
	default:
		return fmt.Errorf("%w: unknown difficulty %q", ErrConfigError, cfg.Difficulty)
	}
	if cfg.Theme != "" && cfg.ThemeLengthMin > 0 && cfg.ThemeLengthMax > 0 && cfg.ThemeLengthMin > cfg.ThemeLengthMax {
		return fmt.Errorf("%w: theme length_min > length_max", ErrConfigError)
	}
	return nil
}

func setDefaults(cfg Config) Config {
	if cfg.Template == nil {
		if cfg.Height == 0 {
			cfg.Height = 5
		}
		if cfg.Width == 0 {
			cfg.Width = 5
		}
	}
	if cfg.MinWordLength == 0 {
		cfg.MinWordLength = grid.MinLen
	}
	if cfg.Difficulty == "" {
		cfg.Difficulty = grid.Easy
	}
	if cfg.MinWordCount == 0 {
		cfg.MinWordCount = corpus.MinCountForDifficulty(string(cfg.Difficulty))
	}
	if cfg.ThemeThreshold == 0 {
		cfg.ThemeThreshold = 0.5
	}
	if cfg.Theme != "" {
		if cfg.ThemeLengthMin == 0 {
			cfg.ThemeLengthMin = 6
		}
		if cfg.ThemeLengthMax == 0 {
			cfg.ThemeLengthMax = 15
		}
		// ThemeWeighted is left as given: a bool cannot tell "unset"
		// from "false", so the zero value selects uniformly among the
		// candidates above the threshold.
	}
	// pkg/solver treats a zero TimeoutMs as a deliberate "fail on the
	// first node" request from a direct caller (spec.md §8 boundary
	// case). At this orchestration layer an omitted value means the
	// caller never thought about it, so default it here instead.
	if cfg.Solver.TimeoutMs == 0 {
		cfg.Solver.TimeoutMs = 120_000
	}
	cfg.Solver.Difficulty = mapSolverDifficulty(cfg.Difficulty)
	cfg.Supervisor.Solver = cfg.Solver
	cfg.Supervisor.MinLen = cfg.MinWordLength
	return cfg
}

func mapSolverDifficulty(d grid.Difficulty) solver.Difficulty {
	switch d {
	case grid.Easy:
		return solver.Easy
	case grid.Hard:
		return solver.Hard
	default:
		return solver.Medium
	}
}

// Generator orchestrates template/grid construction, theme selection
// and the supervised solve against one shared corpus index.
type Generator struct {
	idx    *corpus.Index
	logger *logrus.Logger
}

// NewGenerator builds a Generator over an already-loaded PatternIndex.
func NewGenerator(idx *corpus.Index, logger *logrus.Logger) *Generator {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Generator{idx: idx, logger: logger}
}

// Generate runs the full C2(or template)->C3->C4/C5 pipeline and
// returns a FilledPuzzle, or a structured error per spec.md §7.
func (gen *Generator) Generate(ctx context.Context, cfg Config) (*FilledPuzzle, error) {
	cfg = setDefaults(cfg)
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	g, themeSlotIDs, err := gen.buildGrid(cfg)
	if err != nil {
		return nil, err
	}

	preAssigned := make(map[grid.SlotID]string)
	themeEntries := make(map[grid.SlotID]string)
	if cfg.Theme != "" {
		slot, word, err := gen.placeTheme(g, themeSlotIDs, cfg, rng)
		if err != nil {
			gen.logger.WithFields(logrus.Fields{"theme": cfg.Theme, "error": err}).Info("puzzle: proceeding without a theme entry")
		} else {
			preAssigned[slot.ID] = word
			themeEntries[slot.ID] = word
		}
	}

	outcome, err := supervisor.Run(ctx, g, preAssigned, gen.idx, cfg.Supervisor, rng, gen.logger)
	if err != nil {
		return nil, err
	}

	return &FilledPuzzle{
		ID:           uuid.New().String(),
		Grid:         outcome.Result.Grid,
		FilledSlots:  outcome.Result.Placed,
		ThemeEntries: themeEntries,
		Slots:        outcome.Result.Grid.Slots,
		Statistics:   outcome.Result.Stats,
		Metadata: Metadata{
			Name:        cfg.Name,
			Description: cfg.Description,
			Difficulty:  cfg.Difficulty,
			Theme:       cfg.Theme,
			CreatedAt:   time.Now(),
		},
	}, nil
}

func (gen *Generator) buildGrid(cfg Config) (*grid.Grid, []grid.SlotID, error) {
	if cfg.Template != nil {
		return template.BuildGrid(cfg.Template, cfg.MinWordLength)
	}
	g, err := grid.Generate(grid.GeneratorConfig{
		Height: cfg.Height, Width: cfg.Width,
		Difficulty: cfg.Difficulty, BlackRatio: cfg.BlackSquareRatio,
		Seed: cfg.Seed, MinLen: cfg.MinWordLength,
	})
	return g, nil, err
}

// placeTheme runs C3 end to end: find and choose a candidate, place
// it, and if no slot of the exact chosen length exists anywhere in the
// grid, retry once against the closest available slot length
// (spec_full.md's supplemented fallback) before giving up.
func (gen *Generator) placeTheme(g *grid.Grid, themeSlotIDs []grid.SlotID, cfg Config, rng *rand.Rand) (*grid.Slot, string, error) {
	lengthMin, lengthMax := cfg.ThemeLengthMin, cfg.ThemeLengthMax
	for attempt := 0; attempt < 2; attempt++ {
		tcfg := theme.Config{
			LengthMin: lengthMin, LengthMax: lengthMax,
			MinFrequency: cfg.ThemeMinFrequency,
			Mode:         cfg.ThemeMode,
			Threshold:    cfg.ThemeThreshold,
			Weighted:     cfg.ThemeWeighted,
			Oracle:       cfg.ThemeOracle,
			Rng:          rng,
		}
		candidates, err := theme.FindCandidates(gen.idx, cfg.Theme, tcfg)
		if err != nil {
			return nil, "", err
		}
		chosen := theme.Choose(candidates, cfg.ThemeThreshold, 1, cfg.ThemeWeighted, rng)
		if len(chosen) == 0 {
			return nil, "", theme.ErrNoSlotForTheme
		}
		word := chosen[0].Text
		slot, err := theme.PlaceSlot(g, themeSlotIDs, word, rng)
		if err == nil {
			return slot, word, nil
		}
		if attempt == 0 {
			closest := theme.ClosestLength(g, len(word))
			if closest == 0 || closest == lengthMin && closest == lengthMax {
				return nil, "", err
			}
			lengthMin, lengthMax = closest, closest
			continue
		}
		return nil, "", err
	}
	return nil, "", theme.ErrNoSlotForTheme
}
