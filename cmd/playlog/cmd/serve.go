package cmd

import (
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/dugout/playlog/internal/db"
	"github.com/dugout/playlog/internal/httpserver"
	"github.com/dugout/playlog/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}

	sqlDB, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error().Err(err).Str("path", cfg.DBPath).Msg("open database")
		return err
	}
	defer sqlDB.Close()
	if err := db.Migrate(sqlDB); err != nil {
		log.Error().Err(err).Msg("apply migrations")
		return err
	}

	mem := store.NewMemoryStore()
	srv := httpserver.New(cfg, mem, sqlDB)
	log.Info().Int("port", cfg.Port).Msg("starting playlog server")
	return srv.Start(":" + strconv.Itoa(cfg.Port))
}
