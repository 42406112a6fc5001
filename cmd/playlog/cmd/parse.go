package cmd

import (
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dugout/playlog/internal/parser"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a game log and print the game as JSON",
	Long: `Parses a complete play-by-play log and prints the structured game
as indented JSON. Reads from the given file, or stdin when the argument
is missing or "-".`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	if _, err := setup(); err != nil {
		return err
	}

	var in []byte
	var err error
	if len(args) == 0 || args[0] == "-" {
		in, err = io.ReadAll(os.Stdin)
	} else {
		in, err = os.ReadFile(args[0])
	}
	if err != nil {
		return err
	}

	p := parser.New(false)
	if err := p.Feed(string(in)); err != nil {
		return err
	}
	g, err := p.Complete()
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(g)
}
