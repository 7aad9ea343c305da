/*
Copyright © 2024 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/phux/rtcapi/app"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	configFile   string
	envFile      string
	baseURL      string
	rateLimit    float64
	timeout      time.Duration
	logLevel     string
	noColor      bool
	checkGenesis bool
)

// rootCmd runs the full probe sequence when called without a subcommand
var rootCmd = &cobra.Command{
	Use:   "rtcapi",
	Short: "exercise the RedTeamCoin pool API",
	Long: `exercise the RedTeamCoin pool API.

Without a subcommand, runs the six-step probe: stats, miners, blockchain,
validation, the genesis block and an unauthorized request. The bearer token
comes from RTC_AUTH_TOKEN, RTC_SERVER_TLS_ENABLED=true switches to the TLS
endpoint with certificate verification disabled.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}

		// an aborted run is already reported on stdout
		a.Run(cmd.Context())

		return nil
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Fatalln(err)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "[optional] YAML config file (auth_token, server_tls_enabled, base_url, timeout, rate_limit)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "[optional] dotenv file loaded before reading RTC_* variables")
	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "", "[optional] override the API base URL (default: derived from RTC_SERVER_TLS_ENABLED)")
	rootCmd.PersistentFlags().Float64Var(&rateLimit, "rateLimit", 0, "[optional] rate limit of requests / second (0: unlimited)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "[optional] per-request timeout (0: none)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "[optional] stderr log level: debug, info, warn, error, disabled")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "[optional] disable coloured output")
	rootCmd.Flags().BoolVar(&checkGenesis, "check-genesis", false, "[optional] compare /api/blocks/0 with the first block of /api/blockchain")

	rootCmd.AddCommand(
		statsCmd,
		minersCmd,
		blockchainCmd,
		validateCmd,
		blockCmd,
		cpuCmd,
		minerCmd,
	)
}

func newApp(cmd *cobra.Command) (*app.App, error) {
	logger, err := app.NewLogger(os.Stderr, logLevel, noColor)
	if err != nil {
		return nil, err
	}

	cfg, err := app.LoadConfig(app.LoadOptions{
		ConfigFile: configFile,
		EnvFile:    envFile,
		BaseURL:    baseURL,
		Timeout:    timeout,
		RateLimit:  rateLimit,
	})
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Str("url", cfg.BaseURL).
		Bool("tls", cfg.TLSEnabled).
		Bool("verify_ssl", cfg.VerifySSL).
		Msg("configuration resolved")

	printer := app.NewPrinter(cmd.OutOrStdout(), !noColor && !color.NoColor)
	a := app.NewApp(cfg, app.NewClient(cfg, logger), printer, logger)
	a.CheckGenesis = checkGenesis

	return a, nil
}
