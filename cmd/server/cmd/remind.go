package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/planora/server/internal/config"
)

// remindCmd runs a single reminder sweep and prints the summary. It is
// intended for cron-style schedulers and for manual operation.
var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Run one reminder sweep and exit",
	Long: `Scan all stored events, group tomorrow's events by owner, and send each
owner a digest notification. Prints a JSON summary to stdout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		return runRemind(cfg)
	},
}

func runRemind(cfg config.Config) error {
	logger := config.NewLogger(cfg.Logging)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	app, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}

	summary, err := app.Reminder.Run(ctx)
	if err != nil {
		return fmt.Errorf("reminder sweep: %w", err)
	}

	out, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	fmt.Fprintln(os.Stdout, string(out))
	return nil
}
