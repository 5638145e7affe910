package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradeplan/ledger"
	"github.com/rustyeddy/tradeplan/market"
	"github.com/rustyeddy/tradeplan/trade"
	"github.com/rustyeddy/tradeplan/upload"
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Save, list and export evaluated trades",
	Long: `Work with the trade ledger.

Subcommands:
  save    - Evaluate a snapshot and append it to the ledger
  list    - Show entries as a table, optionally filtered by pair
  show    - Show the last entries as Org-mode blocks
  stats   - Win/loss and per-pair counts
  export  - Write the ledger as CSV, XLSX or JSON

Examples:
  tradeplan ledger list --pair EUR/USD --pair XAU/USD
  tradeplan ledger export -o trades.xlsx`,
}

var ledgerSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Evaluate a snapshot and append it to the ledger",
	Args:  cobra.NoArgs,
	RunE:  runLedgerSave,
}

var ledgerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List ledger entries",
	Args:  cobra.NoArgs,
	RunE:  runLedgerList,
}

var ledgerShowCmd = &cobra.Command{
	Use:   "show [n]",
	Short: "Show the last n entries (default 1) as Org-mode blocks",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLedgerShow,
}

var ledgerStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarise the ledger",
	Args:  cobra.NoArgs,
	RunE:  runLedgerStats,
}

var ledgerExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the ledger as CSV, XLSX or JSON",
	Args:  cobra.NoArgs,
	RunE:  runLedgerExport,
}

var (
	ledgerFlags  snapshotFlags
	ledgerPairs  []string
	ledgerFormat string
	ledgerOutput string
	ledgerPretty bool
)

func init() {
	rootCmd.AddCommand(ledgerCmd)
	ledgerCmd.AddCommand(ledgerSaveCmd, ledgerListCmd, ledgerShowCmd, ledgerStatsCmd, ledgerExportCmd)

	ledgerFlags.register(ledgerSaveCmd)

	for _, c := range []*cobra.Command{ledgerListCmd, ledgerShowCmd, ledgerStatsCmd, ledgerExportCmd} {
		c.Flags().StringSliceVar(&ledgerPairs, "pair", nil, "only these instruments (repeatable, default all)")
	}
	ledgerExportCmd.Flags().StringVarP(&ledgerFormat, "format", "f", "", "csv, xlsx or json (default from --output extension, else csv)")
	ledgerExportCmd.Flags().StringVarP(&ledgerOutput, "output", "o", "-", "output file, - for stdout")
	ledgerExportCmd.Flags().BoolVar(&ledgerPretty, "pretty", true, "indent JSON output")
}

func runLedgerSave(cmd *cobra.Command, args []string) error {
	snap, source, err := buildSnapshot(cmd, &ledgerFlags, false, false)
	if err != nil {
		return err
	}
	ev := trade.Evaluate(snap)
	out := cmd.OutOrStdout()
	printEvaluation(out, snap, ev, source)
	return saveEntry(cmd.Context(), out, ledger.NewEntry(time.Now(), snap, ev))
}

// loadView reads the ledger and applies the --pair filter. An unreadable
// ledger is shown as empty with a warning.
func loadView(ctx context.Context) ([]ledger.Entry, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	pairs := market.AllInstruments()
	if len(ledgerPairs) > 0 {
		pairs = pairs[:0:0]
		for _, p := range ledgerPairs {
			inst, err := market.ParseInstrument(p)
			if err != nil {
				return nil, err
			}
			pairs = append(pairs, inst)
		}
	}

	store, err := openStore()
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	defer store.Close()

	entries, err := store.Load(ctx)
	if errors.Is(err, ledger.ErrStorageUnavailable) {
		appLog.Warn().Err(err).Msg("ledger unreadable, showing an empty ledger")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ledger.Query(entries, pairs), nil
}

func runLedgerList(cmd *cobra.Command, args []string) error {
	entries, err := loadView(cmd.Context())
	if err != nil {
		return err
	}
	return upload.Render(cmd.OutOrStdout(), entryTable(entries))
}

// entryTable lays entries out in ledger column order plus the outcome.
func entryTable(entries []ledger.Entry) upload.Table {
	t := upload.Table{Header: append(append([]string{}, ledger.Columns...), "Outcome")}
	for _, e := range entries {
		price := func(p float64) string { return market.FormatPrice(e.Pair, p) }
		t.Rows = append(t.Rows, []string{
			e.Date.Format(ledger.DateLayout),
			string(e.Pair),
			string(e.Direction),
			price(e.EntryPrice),
			price(e.SL),
			price(e.TP),
			strconv.FormatFloat(e.ATR, 'f', -1, 64),
			strconv.FormatFloat(e.SLMultiplier, 'f', -1, 64),
			strconv.FormatFloat(e.TPMultiplier, 'f', -1, 64),
			price(e.EMAFast),
			price(e.EMASlow),
			strconv.FormatFloat(e.RSI, 'f', 1, 64),
			string(e.Pattern),
			string(e.Outcome()),
		})
	}
	return t
}

func runLedgerShow(cmd *cobra.Command, args []string) error {
	n := 1
	if len(args) == 1 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v < 1 {
			return fmt.Errorf("n must be a positive number, got %q", args[0])
		}
		n = v
	}

	entries, err := loadView(cmd.Context())
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No trades saved yet.")
		return nil
	}
	if n < len(entries) {
		entries = entries[len(entries)-n:]
	}
	fmt.Fprintln(cmd.OutOrStdout(), ledger.FormatEntriesOrg(entries))
	return nil
}

func runLedgerStats(cmd *cobra.Command, args []string) error {
	entries, err := loadView(cmd.Context())
	if err != nil {
		return err
	}
	s := ledger.Summarize(entries)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Trades   %d\n", s.Total)
	fmt.Fprintf(out, "Wins     %d\n", s.Wins)
	fmt.Fprintf(out, "Losses   %d\n", s.Losses)
	fmt.Fprintf(out, "Win rate %.1f%%\n", s.WinRate*100)
	fmt.Fprintf(out, "Mean R:R %.2f\n", s.MeanRR)
	for _, p := range market.AllInstruments() {
		if c := s.ByPair[p]; c > 0 {
			fmt.Fprintf(out, "  %-8s %d\n", p, c)
		}
	}
	for _, d := range []trade.Direction{trade.Buy, trade.Sell} {
		if c := s.ByDirection[d]; c > 0 {
			fmt.Fprintf(out, "  %-8s %d\n", d, c)
		}
	}
	return nil
}

func runLedgerExport(cmd *cobra.Command, args []string) error {
	format, err := exportFormat()
	if err != nil {
		return err
	}
	entries, err := loadView(cmd.Context())
	if err != nil {
		return err
	}

	opts := ledger.ExportOptions{Pretty: ledgerPretty}
	if ledgerOutput == "-" {
		if err := ledger.Export(cmd.OutOrStdout(), format, entries, opts); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		return nil
	}

	f, err := os.Create(ledgerOutput)
	if err != nil {
		return fmt.Errorf("create %s: %w", ledgerOutput, err)
	}
	if err := writeExport(f, format, entries, opts); err != nil {
		return fmt.Errorf("%s: %w", ledgerOutput, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "✓ Exported %d trades to %s\n", len(entries), ledgerOutput)
	return nil
}

// writeExport exports into wc and closes it. A failed flush only shows up
// in the close error, so that error is returned too.
func writeExport(wc io.WriteCloser, format ledger.Format, entries []ledger.Entry, opts ledger.ExportOptions) error {
	if err := ledger.Export(wc, format, entries, opts); err != nil {
		_ = wc.Close()
		return fmt.Errorf("export: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	return nil
}

func exportFormat() (ledger.Format, error) {
	if ledgerFormat != "" {
		return ledger.ParseFormat(ledgerFormat)
	}
	if ledgerOutput != "-" {
		if f, err := ledger.FormatFromPath(ledgerOutput); err == nil {
			return f, nil
		}
	}
	return ledger.FormatCSV, nil
}
