package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/crossplay/backend/pkg/corpus"
	"github.com/crossplay/backend/pkg/grid"
	"github.com/crossplay/backend/pkg/output"
	"github.com/crossplay/backend/pkg/puzzle"
)

var (
	statsCorpus string
	statsPuzzle string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Display corpus or generated-puzzle statistics",
	Long: `Display statistics about either a word corpus or a single
generated puzzle.

With --corpus, shows stats about the PatternIndex (pkg/corpus) built
from the file: word counts per length bucket, word counts surviving
each difficulty tier's min_count filter, and frequency extremes.

With --puzzle, loads a puzzle previously written by "crossgen
generate" (json or ipuz) and renders its FilledPuzzle.Statistics, the
run summary a solve produced: attempts, backtracks, words tried,
success rate and the rest of the fields recorded in solver.Statistics.
ipuz files carry no run statistics, so for them every field reads zero.

Examples:
  # Show stats for a corpus file
  crossgen stats --corpus ./corpora/nyt_wordlist.txt

  # Show the run statistics recorded in a generated puzzle
  crossgen stats --puzzle ./out/puzzle_001.json`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringVarP(&statsCorpus, "corpus", "c", "", "path to corpus file")
	statsCmd.Flags().StringVarP(&statsPuzzle, "puzzle", "p", "", "path to a generated puzzle file (json or ipuz)")
}

func runStats(cmd *cobra.Command, args []string) error {
	if statsCorpus == "" && statsPuzzle == "" {
		return fmt.Errorf("one of --corpus or --puzzle is required")
	}
	if statsCorpus != "" && statsPuzzle != "" {
		return fmt.Errorf("--corpus and --puzzle are mutually exclusive")
	}
	if statsPuzzle != "" {
		return runPuzzleStats(statsPuzzle)
	}
	return runCorpusStats(statsCorpus)
}

func runCorpusStats(path string) error {
	entries, err := corpus.LoadFile(path)
	if err != nil {
		return fmt.Errorf("failed to load corpus: %w", err)
	}

	color.Cyan("\nCorpus Statistics")
	color.Cyan("=================")
	fmt.Printf("Source: %s\n", path)
	fmt.Printf("Raw entries: %d\n\n", len(entries))

	displayByDifficulty(entries)
	displayByLength(entries)
	displayFrequencyExtremes(entries)

	return nil
}

// runPuzzleStats loads a generated puzzle and renders its run
// statistics, the CLI analog of CrosswordStats.get_summary()'s
// end-of-run printout.
func runPuzzleStats(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read puzzle file: %w", err)
	}

	var fp *puzzle.FilledPuzzle
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ipuz":
		fp, err = output.FromIPuz(data)
	default:
		fp, err = output.FromJSON(data)
		if err != nil {
			fp, err = output.FromIPuz(data)
		}
	}
	if err != nil {
		return fmt.Errorf("failed to parse puzzle file: %w", err)
	}

	displayRunStatistics(fp)
	return nil
}

func displayRunStatistics(fp *puzzle.FilledPuzzle) {
	s := fp.Statistics

	color.Cyan("\nPuzzle Run Statistics")
	color.Cyan("=====================")
	fmt.Printf("Puzzle: %s\n", fp.ID)
	if fp.Metadata.Name != "" {
		fmt.Printf("Name: %s\n", fp.Metadata.Name)
	}
	fmt.Printf("Difficulty: %s\n\n", fp.Metadata.Difficulty)

	fmt.Printf("Attempts:              %d\n", s.Attempts)
	fmt.Printf("Backtracks:            %d\n", s.Backtracks)
	fmt.Printf("Words tried:           %d\n", s.WordsTried)
	fmt.Printf("Successful placements: %d\n", s.SuccessfulPlacements)
	fmt.Printf("Failed placements:     %d\n", s.FailedPlacements)
	fmt.Printf("Time:                  %dms\n", s.TimeMs)
	fmt.Printf("Success rate:          %.2f%%\n", s.SuccessRate*100)
	fmt.Printf("Final beam width:      %d\n", s.BeamWidthFinal)
	fmt.Printf("Final max backtrack:   %d\n", s.MaxBacktrackFinal)

	if len(s.DifficultSlots) > 0 {
		color.Yellow("\nMost-contested slots:")
		for _, id := range s.DifficultSlots {
			fmt.Printf("  slot %d: %d attempts\n", id, s.AttemptsBySlot[id])
		}
	}
	fmt.Println()
}

func displayByDifficulty(entries []corpus.Entry) {
	fmt.Println("Usable Words by Difficulty Tier:")
	fmt.Println("---------------------------------")
	for _, tier := range []string{"easy", "medium", "hard"} {
		idx := corpus.Build(entries, grid.MinLen, corpus.MinCountForDifficulty(tier))
		fmt.Printf("  %-8s (min_count=%d): %d words\n", tier, corpus.MinCountForDifficulty(tier), idx.WordCount())
	}
	fmt.Println()
}

func displayByLength(entries []corpus.Entry) {
	idx := corpus.Build(entries, grid.MinLen, 1)
	fmt.Println("Words by Length (min_count=1):")
	fmt.Println("-------------------------------")
	for l := grid.MinLen; l <= 21; l++ {
		if !idx.HasLength(l) {
			continue
		}
		words := idx.WordsInRange(l, l, 1)
		fmt.Printf("  %2d letters: %d words\n", l, len(words))
	}
	fmt.Println()
}

func displayFrequencyExtremes(entries []corpus.Entry) {
	idx := corpus.Build(entries, grid.MinLen, 1)
	var all []corpus.Word
	for l := grid.MinLen; l <= 21; l++ {
		all = append(all, idx.WordsInRange(l, l, 1)...)
	}
	if len(all) == 0 {
		fmt.Println("No usable words found")
		return
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Count > all[j].Count })

	fmt.Println("Most Frequent Words:")
	fmt.Println("---------------------")
	for _, w := range firstN(all, 10) {
		fmt.Printf("  %-20s: count=%d, freq=%.6f\n", w.Text, w.Count, idx.Freq(w))
	}
	fmt.Println()

	fmt.Println("Least Frequent Words:")
	fmt.Println("----------------------")
	for _, w := range lastN(all, 10) {
		fmt.Printf("  %-20s: count=%d, freq=%.6f\n", w.Text, w.Count, idx.Freq(w))
	}
	fmt.Println()
}

func firstN(ws []corpus.Word, n int) []corpus.Word {
	if len(ws) < n {
		return ws
	}
	return ws[:n]
}

func lastN(ws []corpus.Word, n int) []corpus.Word {
	if len(ws) < n {
		return ws
	}
	return ws[len(ws)-n:]
}
