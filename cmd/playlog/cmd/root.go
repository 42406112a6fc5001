package cmd

import (
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dugout/playlog/internal/config"
	"github.com/dugout/playlog/internal/lexicon"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "playlog",
	Short: "playlog - MLB play-by-play log server and toolkit",
	Long: `playlog parses and generates MLB play-by-play game logs.

Commands:
  serve     - run the HTTP API server
  generate  - print a generated game log
  parse     - parse a log and print the game as JSON`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./playlog.yaml)")
}

// setup loads .env + config, applies the log level, and initialises the
// name/venue/condition lists. Every subcommand starts here.
func setup() (*config.Config, error) {
	_ = godotenv.Load()
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if err := lexicon.Init(); err != nil {
		return nil, err
	}
	return cfg, nil
}
