package cmd

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradeplan/config"
	"github.com/rustyeddy/tradeplan/ledger"
	"github.com/rustyeddy/tradeplan/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "tradeplan",
	Short: "Plan FX trades with ATR levels, confirmation checks and a trade ledger",
	Long: `Tradeplan evaluates a trade idea before it is placed.

It provides tools for:
  - ATR based stop-loss and take-profit levels
  - EMA, RSI and candlestick confirmation
  - Risk based position sizing
  - A trade ledger with CSV, spreadsheet and JSON export
  - Live prices from OANDA or Yahoo with a manual fallback

Instruments: EUR/USD, GBP/USD, XAU/USD.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

var (
	cfgFile    string
	logLevel   string
	ledgerPath string

	cfg    *config.Config
	appLog = zerolog.Nop()
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", config.DefaultPath, "config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (default from config)")
	rootCmd.PersistentFlags().StringVar(&ledgerPath, "ledger", "", "ledger file, .csv or .db (default from config)")
}

// setup loads the config and installs the logger before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if logLevel != "" {
		c.Log.Level = logLevel
	}
	if ledgerPath != "" {
		c.SetLedgerPath(ledgerPath)
	}
	if err := c.Validate(); err != nil {
		return err
	}

	cfg = c
	appLog = logger.New(cfg.Log, cmd.ErrOrStderr())
	logger.SetGlobalLogger(appLog)
	return nil
}

func openStore() (ledger.Store, error) {
	return ledger.Open(cfg.Ledger.Type, cfg.Ledger.Path, appLog)
}
