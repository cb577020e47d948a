package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MathiasVDS1/ProjectManagement/app"
	"github.com/MathiasVDS1/ProjectManagement/config"
	"github.com/MathiasVDS1/ProjectManagement/infra/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the decision service",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg, logger.New("main"))
	if err != nil {
		return err
	}
	return svc.Run(ctx)
}
