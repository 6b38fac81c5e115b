package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/BruksfildServices01/psi-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/psi-scheduler/internal/db"
	"github.com/BruksfildServices01/psi-scheduler/internal/logging"
	"github.com/BruksfildServices01/psi-scheduler/internal/seeds"
)

func main() {
	// .env.local wins over .env; real environment variables win over both
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load()

	if err := rootCmd().Execute(); err != nil {
		log := logging.New(os.Getenv("APP_ENV"))
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "psi-scheduler",
		Short:         "Psychology practice scheduling API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(serveCmd())
	root.AddCommand(migrateCmd())
	root.AddCommand(seedCmd())
	return root
}

func bootstrap() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	return cfg, logging.New(cfg.Env), nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runServer(cmd.Context(), cfg, log)
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}

			db, err := dbpkg.NewDB(cfg, log)
			if err != nil {
				return err
			}
			if err := dbpkg.Migrate(db); err != nil {
				return err
			}

			log.Info().Msg("migrations applied")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load demo psychologists and patients",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}

			fixtures, err := loadFixtures(file)
			if err != nil {
				return err
			}

			db, err := dbpkg.NewDB(cfg, log)
			if err != nil {
				return err
			}
			if err := dbpkg.Migrate(db); err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return seeds.Apply(ctx, db, fixtures, log)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML fixtures file (defaults to the embedded set)")
	return cmd
}

func loadFixtures(file string) (*seeds.Fixtures, error) {
	if file == "" {
		return seeds.Default()
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return seeds.Parse(data)
}
