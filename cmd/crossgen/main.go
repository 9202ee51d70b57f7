// Command crossgen generates, validates, and converts crossword
// puzzles from a word corpus.
package main

import (
	"fmt"
	"os"

	"github.com/crossplay/backend/cmd/crossgen/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
