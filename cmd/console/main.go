package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"MailDesk/internal/client"
	"MailDesk/internal/config"
	"MailDesk/internal/logger"
)

var (
	// Global flags
	apiURL   string
	provider string
	verbose  bool
	timeout  time.Duration

	cfg    *config.Console
	log    *zap.Logger
	remote *client.Client
)

var rootCmd = &cobra.Command{
	Use:   "maildesk",
	Short: "MailDesk - email marketing console",
	Long: `MailDesk manages contacts and email campaigns on a MailDesk server.

Run "maildesk compose" to draft, preview and send a campaign interactively.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadConsole()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("api-url") {
			cfg.APIURL = apiURL
		}
		if cmd.Flags().Changed("provider") {
			cfg.AIProvider = provider
		}

		log, err = logger.NewConsole(cfg.Environment, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		remote = client.New(cfg.APIURL, log)
		log.Debug("console ready", zap.String("api_url", cfg.APIURL))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Server API base URL (or set MAILDESK_API_URL)")
	rootCmd.PersistentFlags().StringVar(&provider, "provider", "", "AI provider: OpenRouter or OpenAI (or set MAILDESK_AI_PROVIDER)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Request timeout for non-interactive commands")

	rootCmd.AddCommand(contactsCmd)
	rootCmd.AddCommand(campaignsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(composeCmd)
}

// commandContext bounds a non-interactive command by --timeout and cancels
// it on SIGINT/SIGTERM.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(describe(err)))
		os.Exit(1)
	}
}
