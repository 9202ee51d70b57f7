package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/crossplay/backend/pkg/grid"
	"github.com/crossplay/backend/pkg/output"
)

var validateInput string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate generated crossword puzzle files",
	Long: `Validate one or more puzzle files (JSON or ipuz) for grid correctness.

Checks include:
  - Grid symmetry (180-degree rotational, R3)
  - Grid connectivity (all white cells reachable)
  - Rectangular grid and minimum word length (C2)
  - Every recomputed slot has an answer of the slot's length

2x2 all-black blocks (R1) are not checked.

Examples:
  crossgen validate --input puzzle.json
  crossgen validate --input ./puzzles`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringVarP(&validateInput, "input", "i", "", "input file or directory to validate (required)")
	validateCmd.MarkFlagRequired("input")
}

func runValidate(cmd *cobra.Command, args []string) error {
	info, err := os.Stat(validateInput)
	if err != nil {
		return fmt.Errorf("failed to access input path: %w", err)
	}

	var files []string
	if info.IsDir() {
		json, _ := filepath.Glob(filepath.Join(validateInput, "*.json"))
		ipuz, _ := filepath.Glob(filepath.Join(validateInput, "*.ipuz"))
		files = append(json, ipuz...)
		if len(files) == 0 {
			return fmt.Errorf("no .json or .ipuz files found in directory: %s", validateInput)
		}
	} else {
		files = []string{validateInput}
	}

	valid, invalid := 0, 0
	for _, f := range files {
		errs, err := validatePuzzleFile(f)
		if err != nil {
			color.Red("✗ %s: ERROR - %v", filepath.Base(f), err)
			invalid++
			continue
		}
		if len(errs) > 0 {
			color.Red("✗ %s: INVALID", filepath.Base(f))
			for _, e := range errs {
				fmt.Printf("   - %s\n", e)
			}
			invalid++
			continue
		}
		if verbosity > 0 {
			color.Green("✓ %s: VALID", filepath.Base(f))
		}
		valid++
	}

	fmt.Printf("\nValidation Summary: %d valid, %d invalid (of %d)\n", valid, invalid, len(files))
	if invalid > 0 {
		os.Exit(1)
	}
	return nil
}

// validatePuzzleFile parses one puzzle export and runs the grid
// invariant checks against its recomputed slot structure.
func validatePuzzleFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	parse := output.FromJSON
	if strings.EqualFold(filepath.Ext(path), ".ipuz") {
		parse = output.FromIPuz
	}
	fp, err := parse(data)
	if err != nil {
		return nil, err
	}

	var errs []string
	if !grid.IsSymmetric(fp.Grid) {
		errs = append(errs, "grid lacks 180-degree rotational symmetry (R3)")
	}
	if !grid.IsConnected(fp.Grid) {
		errs = append(errs, "grid has disconnected white cells")
	}
	if err := grid.Validate(fp.Grid, grid.MinLen); err != nil {
		errs = append(errs, err.Error())
	}
	for _, s := range fp.Grid.Slots {
		answer, ok := fp.FilledSlots[s.ID]
		if !ok {
			errs = append(errs, fmt.Sprintf("slot %d (%s %d) has no answer", s.Number, s.Direction, s.ID))
			continue
		}
		if len(answer) != s.Length {
			errs = append(errs, fmt.Sprintf("slot %d: answer length %d disagrees with grid length %d", s.Number, len(answer), s.Length))
		}
	}
	return errs, nil
}
