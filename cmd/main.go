package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"medbridge-api/cmd/bootstrap"
	"medbridge-api/internal/infrastructure/database"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "medbridge",
	Short: "MedBridge consultation booking and triage API.",
	Long: `MedBridge connects international patients with doctors in China.
It books consultations against published availability, runs symptom triage
and tracks each consultation from request to review.`,
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := bootstrap.New()
			if err != nil {
				return err
			}

			app.Run()
			return nil
		},
	}
}

func newMigrateCommand() *cobra.Command {
	var upSteps, downSteps int

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations (all, or --steps)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigration(upSteps)
		},
	}
	up.Flags().IntVar(&upSteps, "steps", 0, "number of migrations to apply, 0 applies all")

	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations (one by default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if downSteps <= 0 {
				downSteps = 1
			}
			return runMigration(-downSteps)
		},
	}
	down.Flags().IntVar(&downSteps, "steps", 1, "number of migrations to roll back")

	cmd.AddCommand(up, down)
	return cmd
}

func runMigration(steps int) error {
	app, err := bootstrap.Base()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := database.Migrate(app.DB, steps); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	app.Log.Info("Migrations executed successfully")
	return nil
}

func newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the admin account, doctors and availability",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := bootstrap.Base()
			if err != nil {
				return err
			}
			defer app.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			return app.Seed(ctx)
		},
	}
}

func main() {
	rootCmd.AddCommand(newServeCommand(), newMigrateCommand(), newSeedCommand())

	if err := rootCmd.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}
