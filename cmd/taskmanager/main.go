package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"taskmanager/internal/app"
	"taskmanager/internal/config"
	"taskmanager/internal/models"
	"taskmanager/internal/repositories"
)

// @title        Task Manager API
// @version      1.0
// @description  Tasks, subtasks, comments, attachments and their audit trail.
// @BasePath     /
func main() {
	if err := rootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "taskmanager",
		Short:        "Task management REST backend",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), configPath)
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "path to config.yaml")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the overdue schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), configPath)
		},
	})

	var date string
	sweep := &cobra.Command{
		Use:   "sweep",
		Short: "Mark overdue tasks as DELAYED once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			today := models.Today()
			if date != "" {
				d, err := models.ParseDate(date)
				if err != nil {
					return err
				}
				today = d
			}
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			a, err := app.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.Sweep(cmd.Context(), today)
			if err != nil {
				return err
			}
			return json.NewEncoder(cmd.OutOrStdout()).Encode(res)
		},
	}
	sweep.Flags().StringVar(&date, "date", "", "treat this day (YYYY-MM-DD) as today")
	root.AddCommand(sweep)

	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			db, err := repositories.Open(cmd.Context(), cfg.Database.Driver, cfg.Database.DSN)
			if err != nil {
				return err
			}
			log.Printf("[migrate][ok] driver=%s", cfg.Database.Driver)
			return db.Close()
		},
	})
	return root
}

func serve(ctx context.Context, configPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	return a.Run(ctx)
}
