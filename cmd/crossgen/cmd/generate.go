package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/crossplay/backend/pkg/corpus"
	"github.com/crossplay/backend/pkg/grid"
	"github.com/crossplay/backend/pkg/output"
	"github.com/crossplay/backend/pkg/puzzle"
	"github.com/crossplay/backend/pkg/template"
	"github.com/crossplay/backend/pkg/theme"
)

var (
	genCount      int
	genDifficulty string
	genOutput     string
	genFormat     string
	genCorpus     string
	genHeight     int
	genWidth      int
	genTheme      string
	genTemplate   string
	genSeed       int64
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate crossword puzzles",
	Long: `Generate one or more crossword puzzles by filling a grid with words
from a corpus under constraint satisfaction (pkg/solver), retrying
and escalating the grid itself on failure (pkg/supervisor).

Examples:
  # Generate 10 easy puzzles in JSON format
  crossgen generate --count 10 --difficulty easy --format json --output ./puzzles

  # Generate a themed 15x15 puzzle from an explicit template
  crossgen generate --template grid.json --theme astronomy --format all`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().IntVarP(&genCount, "count", "n", 1, "number of puzzles to generate")
	generateCmd.Flags().StringVarP(&genDifficulty, "difficulty", "d", "medium", "puzzle difficulty (easy, medium, hard)")
	generateCmd.Flags().StringVarP(&genOutput, "output", "o", ".", "output directory")
	generateCmd.Flags().StringVarP(&genFormat, "format", "f", "json", "output format (json, puz, ipuz, all)")
	generateCmd.Flags().StringVarP(&genCorpus, "corpus", "c", "", "path to corpus file, one WORD or WORD;COUNT per line (required)")
	generateCmd.Flags().IntVar(&genHeight, "height", 15, "grid height, ignored when --template is set")
	generateCmd.Flags().IntVar(&genWidth, "width", 15, "grid width, ignored when --template is set")
	generateCmd.Flags().StringVarP(&genTheme, "theme", "t", "", "theme text; a corpus word string-similar to it is pre-placed, if any")
	generateCmd.Flags().StringVar(&genTemplate, "template", "", "path to a template JSON file (overrides --height/--width)")
	generateCmd.Flags().Int64Var(&genSeed, "seed", 0, "RNG seed for deterministic generation")
	generateCmd.MarkFlagRequired("corpus")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	logger := logrus.StandardLogger()
	if verbosity >= 2 {
		logger.SetLevel(logrus.DebugLevel)
	} else if verbosity >= 1 {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(logrus.WarnLevel)
	}

	difficulty, err := parseDifficulty(genDifficulty)
	if err != nil {
		return fmt.Errorf("invalid difficulty: %w", err)
	}
	formats, err := parseFormats(genFormat)
	if err != nil {
		return fmt.Errorf("invalid format: %w", err)
	}

	entries, err := corpus.LoadFile(genCorpus)
	if err != nil {
		return fmt.Errorf("failed to load corpus: %w", err)
	}
	idx := corpus.Build(entries, grid.MinLen, corpus.MinCountForDifficulty(string(difficulty)))
	if idx.WordCount() == 0 {
		return fmt.Errorf("corpus produced no usable words after filtering")
	}
	color.Cyan("Loaded %d words from %s", idx.WordCount(), genCorpus)

	var tpl *template.Template
	if genTemplate != "" {
		data, err := os.ReadFile(genTemplate)
		if err != nil {
			return fmt.Errorf("failed to read template: %w", err)
		}
		tpl, err = template.Parse(data)
		if err != nil {
			return fmt.Errorf("failed to parse template: %w", err)
		}
	}

	if err := os.MkdirAll(genOutput, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	gen := puzzle.NewGenerator(idx, logger)
	cfg := puzzle.Config{
		Template:   tpl,
		Height:     genHeight,
		Width:      genWidth,
		Difficulty: difficulty,
		Theme:      genTheme,
		ThemeMode:  theme.String,
		Seed:       genSeed,
		Name:       "Crossword",
	}

	for i := 1; i <= genCount; i++ {
		start := time.Now()
		fmt.Printf("[%d/%d] Generating puzzle... ", i, genCount)

		cfg.Seed = genSeed + int64(i)
		fp, err := gen.Generate(ctx, cfg)
		if err != nil {
			color.Red("FAILED")
			return fmt.Errorf("failed to generate puzzle %d: %w", i, err)
		}

		if err := writeOutputFiles(fp, genOutput, i, formats); err != nil {
			color.Red("FAILED")
			return fmt.Errorf("failed to write output files for puzzle %d: %w", i, err)
		}
		color.Green("OK (%.1fs)", time.Since(start).Seconds())
	}

	fmt.Printf("\nSuccessfully generated %d puzzle(s) in %s\n", genCount, genOutput)
	return nil
}

func parseDifficulty(diff string) (grid.Difficulty, error) {
	switch strings.ToLower(diff) {
	case "easy":
		return grid.Easy, nil
	case "medium":
		return grid.Medium, nil
	case "hard":
		return grid.Hard, nil
	default:
		return grid.Medium, fmt.Errorf("invalid difficulty: %s (must be easy, medium, or hard)", diff)
	}
}

func parseFormats(format string) ([]string, error) {
	format = strings.ToLower(format)
	if format == "all" {
		return []string{"json", "puz", "ipuz"}, nil
	}
	valid := map[string]bool{"json": true, "puz": true, "ipuz": true}
	if !valid[format] {
		return nil, fmt.Errorf("invalid format: %s (must be json, puz, ipuz, or all)", format)
	}
	return []string{format}, nil
}

func writeOutputFiles(fp *puzzle.FilledPuzzle, outputDir string, puzzleNum int, formats []string) error {
	baseName := fmt.Sprintf("puzzle_%03d", puzzleNum)
	for _, format := range formats {
		var filePath string
		var data []byte
		var err error

		switch format {
		case "json":
			filePath = filepath.Join(outputDir, baseName+".json")
			data, err = output.ToJSON(fp)
		case "puz":
			filePath = filepath.Join(outputDir, baseName+".puz")
			data, err = output.FormatPuz(fp)
		case "ipuz":
			filePath = filepath.Join(outputDir, baseName+".ipuz")
			data, err = output.ToIPuz(fp)
		default:
			return fmt.Errorf("unsupported format: %s", format)
		}
		if err != nil {
			return fmt.Errorf("failed to format puzzle as %s: %w", format, err)
		}
		if err := os.WriteFile(filePath, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s file: %w", format, err)
		}
	}
	return nil
}
