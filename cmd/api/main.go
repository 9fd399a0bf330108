package main

import (
	"fmt"
	"os"

	"github.com/georgemunganga/bakery-backend/internal/config"
	"github.com/georgemunganga/bakery-backend/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	storefrontFile string
	port           string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "bakery",
	Short: "Bakery storefront API",
	Long: `Serves the bakery storefront: catalog, session carts, the cake customizer,
checkout, newsletter signup, the contact form and the flavor quiz.

Run without a subcommand to start the HTTP server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if storefrontFile != "" {
			cfg.StorefrontFile = storefrontFile
		}
		if port != "" {
			cfg.Port = port
		}
		logger, err = logging.New(cfg.LogLevel, cfg.IsProduction())
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&storefrontFile, "storefront", "", "Storefront YAML file (default: STOREFRONT_FILE or built-in)")
	rootCmd.PersistentFlags().StringVarP(&port, "port", "p", "", "HTTP port (default: APP_PORT or 8080)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
