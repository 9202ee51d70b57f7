package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const version = "0.1.0"

var (
	cfgFile   string
	verbosity int
)

// fileConfig holds options loaded from --config's YAML file. Flags
// take precedence; this only supplies defaults a flag didn't set.
type fileConfig struct {
	Corpus     string `yaml:"corpus"`
	Difficulty string `yaml:"difficulty"`
	Format     string `yaml:"format"`
	Output     string `yaml:"output"`
}

var rootCmd = &cobra.Command{
	Use:   "crossgen",
	Short: "Crossword puzzle generator CLI",
	Long: `crossgen is a command-line tool for generating, validating, and
converting crossword puzzles.

It fills a grid with words from a corpus under constraint satisfaction,
retrying and escalating the grid itself when the solver gets stuck.`,
	Version: version,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.crossgen.yaml)")
	rootCmd.PersistentFlags().IntVarP(&verbosity, "verbosity", "v", 0, "verbosity level (0=errors only, 1=info, 2=debug)")
}

// initConfig loads a .env file for API-key-style environment overrides
// and a YAML file of default flag values: the --config file if given,
// otherwise $HOME/.crossgen.yaml when it exists.
func initConfig() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env: %v\n", err)
	}

	if cfgFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return
		}
		candidate := filepath.Join(home, ".crossgen.yaml")
		if _, err := os.Stat(candidate); err == nil {
			cfgFile = candidate
		} else {
			return
		}
	}

	data, err := os.ReadFile(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to read config file %s: %v\n", cfgFile, err)
		return
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to parse config file %s: %v\n", cfgFile, err)
		return
	}

	if verbosity > 0 {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", cfgFile)
	}
	applyFileConfig(fc)
}

// applyFileConfig fills in generate/stats flag values from the config
// file wherever the flag still holds its default. initConfig runs after
// cobra has parsed the flags, so a value equal to the flag's default is
// treated as "not set by the user" (an explicit --difficulty medium is
// therefore indistinguishable from the default and is overridden).
func applyFileConfig(fc fileConfig) {
	if genCorpus == "" {
		genCorpus = fc.Corpus
	}
	if fc.Difficulty != "" && genDifficulty == "medium" {
		genDifficulty = fc.Difficulty
	}
	if fc.Format != "" && genFormat == "json" {
		genFormat = fc.Format
	}
	if fc.Output != "" && genOutput == "." {
		genOutput = fc.Output
	}
	if statsCorpus == "" {
		statsCorpus = fc.Corpus
	}
}
