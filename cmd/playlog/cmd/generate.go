package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dugout/playlog/internal/game"
	"github.com/dugout/playlog/internal/gen"
)

var (
	genSeed  int64
	genMode  string
	genSteps int
	genJSON  bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Print a generated game log",
	Long: `Generates a complete play-by-play log and prints it to stdout.

Modes:
  builder  - build a random game and render it (default)
  chars    - walk the parser's next-character sets one character at a time`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().Int64Var(&genSeed, "seed", 0, "random seed (0 = time-based)")
	generateCmd.Flags().StringVar(&genMode, "mode", "builder", "generation mode: builder|chars")
	generateCmd.Flags().IntVar(&genSteps, "steps", 0, "chars mode step cap (0 = default)")
	generateCmd.Flags().BoolVar(&genJSON, "json", false, "also print the parsed game as JSON")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if _, err := setup(); err != nil {
		return err
	}

	seed := genSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	var (
		logText string
		g       *game.Game
		err     error
	)
	switch genMode {
	case "chars":
		logText, g, err = gen.NewCharDriver(seed, genSteps).Generate()
	case "builder":
		var b *gen.Builder
		if b, err = gen.NewBuilder(seed); err == nil {
			logText, g = b.Log()
		}
	default:
		return fmt.Errorf("unknown mode %q", genMode)
	}
	if err != nil {
		return err
	}

	fmt.Println(logText)
	if genJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(g); err != nil {
			return err
		}
	}
	return nil
}
