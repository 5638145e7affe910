package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradeplan/indicators"
	"github.com/rustyeddy/tradeplan/ledger"
	"github.com/rustyeddy/tradeplan/market"
	"github.com/rustyeddy/tradeplan/quote"
	"github.com/rustyeddy/tradeplan/risk"
	"github.com/rustyeddy/tradeplan/trade"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Compute SL/TP, confirmation and position size for a trade idea",
	Long: `Evaluate a trade snapshot: stop-loss and take-profit from the ATR,
EMA and RSI alignment, the confirmation verdict and the position size
for the configured account.

Examples:
  tradeplan evaluate -p EUR/USD -e 1.07 --atr 0.00185 --ema-fast 1.071 --ema-slow 1.069 --rsi 56 --pattern Hammer
  tradeplan evaluate -p XAU/USD --live --prefill -d Sell --save`,
	Args: cobra.NoArgs,
	RunE: runEvaluate,
}

var (
	evalFlags   snapshotFlags
	evalSave    bool
	evalLive    bool
	evalPrefill bool
)

// candles requested for --prefill
const prefillCandles = 200

func init() {
	rootCmd.AddCommand(evaluateCmd)
	evalFlags.register(evaluateCmd)
	evaluateCmd.Flags().BoolVar(&evalSave, "save", false, "append the trade to the ledger")
	evaluateCmd.Flags().BoolVar(&evalLive, "live", false, "use the live price as entry, --entry is the fallback")
	evaluateCmd.Flags().BoolVar(&evalPrefill, "prefill", false, "fill ATR, EMA, RSI and pattern from recent candles")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	snap, source, err := buildSnapshot(cmd, &evalFlags, evalLive, evalPrefill)
	if err != nil {
		return err
	}

	ev := trade.Evaluate(snap)
	out := cmd.OutOrStdout()
	printEvaluation(out, snap, ev, source)
	if !ev.Finite() {
		fmt.Fprintf(out, "  ! levels overflow: inputs are too large\n")
	}
	printSizing(out, snap.Pair, risk.Inputs{
		Equity:      cfg.Account.Balance,
		RiskPct:     cfg.Account.RiskPercent,
		EntryPrice:  snap.EntryPrice,
		StopPrice:   ev.SL,
		PipLocation: snap.Pair.Meta().PipLocation,
	}, ev.TP)

	if evalSave {
		return saveEntry(cmd.Context(), out, ledger.NewEntry(time.Now(), snap, ev))
	}
	return nil
}

// buildSnapshot reads the flags and then applies the live price and the
// indicator prefill. Both degrade to the typed-in values with a warning.
func buildSnapshot(cmd *cobra.Command, f *snapshotFlags, live, prefill bool) (trade.Snapshot, string, error) {
	snap, err := f.snapshot(cmd, cfg)
	if err != nil {
		return trade.Snapshot{}, "", err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	source := quote.ManualSource
	if live {
		chain := quote.DefaultChain(cfg.QuoteOptions(), appLog)
		q, err := quote.Resolve(ctx, chain, snap.Pair, snap.EntryPrice)
		if err != nil {
			appLog.Warn().Err(err).Msg("live price unavailable, using manual entry price")
		}
		snap.EntryPrice = q.Price
		source = q.Source
	}

	if prefill {
		snap = prefillSnapshot(ctx, cmd, snap)
	}

	if err := requirePositive("entry", snap.EntryPrice); err != nil {
		return trade.Snapshot{}, "", err
	}
	return snap, source, nil
}

func prefillSnapshot(ctx context.Context, cmd *cobra.Command, snap trade.Snapshot) trade.Snapshot {
	src := quote.DefaultCandles(cfg.QuoteOptions(), quote.Interval(cfg.Evaluator.Interval))
	candles, err := src.Candles(ctx, snap.Pair, prefillCandles)
	if err != nil {
		appLog.Warn().Err(err).Msg("could not fetch candles, keeping manual indicator values")
		return snap
	}
	r, err := indicators.Prefill(candles)
	if err != nil {
		appLog.Warn().Err(err).Msg("could not compute indicators, keeping manual indicator values")
		return snap
	}

	set := indicatorFlagsSet(cmd)
	filled := r.Apply(snap)
	if set["atr"] {
		filled.ATR = snap.ATR
	}
	if set["ema-fast"] {
		filled.EMAFast = snap.EMAFast
	}
	if set["ema-slow"] {
		filled.EMASlow = snap.EMASlow
	}
	if set["rsi"] {
		filled.RSI = snap.RSI
	}
	if set["pattern"] {
		filled.Pattern = snap.Pattern
	}
	if filled.EntryPrice <= 0 {
		filled.EntryPrice = r.Close
	}
	return filled
}

func printEvaluation(w io.Writer, s trade.Snapshot, ev trade.Evaluation, source string) {
	price := func(p float64) string { return market.FormatPrice(s.Pair, p) }

	fmt.Fprintf(w, "%s %s @ %s (%s)\n", s.Pair, s.Direction, price(s.EntryPrice), source)
	fmt.Fprintf(w, "  SL       %s  (%.1f pips)\n", price(ev.SL), market.Pips(s.Pair, ev.SL-s.EntryPrice))
	fmt.Fprintf(w, "  TP       %s  (%.1f pips)\n", price(ev.TP), market.Pips(s.Pair, ev.TP-s.EntryPrice))
	fmt.Fprintf(w, "  R:R      %.2f\n", ev.RewardRisk)
	fmt.Fprintf(w, "  EMA      %s (10: %s, 50: %s)\n", aligned(ev.EMAAligned), price(s.EMAFast), price(s.EMASlow))
	fmt.Fprintf(w, "  RSI      %s (%.1f)\n", aligned(ev.RSIAligned), s.RSI)
	fmt.Fprintf(w, "  Pattern  %s\n", s.Pattern)
	fmt.Fprintf(w, "  Verdict  %s\n", verdictText(ev.Verdict))
}

func printSizing(w io.Writer, pair market.Instrument, in risk.Inputs, takeProfit float64) {
	res, err := risk.Size(in)
	if errors.Is(err, risk.ErrDivisionUndefined) {
		fmt.Fprintf(w, "  Size     undefined: stop equals entry\n")
		return
	}
	fmt.Fprintf(w, "  Size     %.2f units (%.2f lots), risking %.2f %s\n",
		res.Units, res.Lots(pair.Meta().LotSize), res.RiskAmount, cfg.Account.Currency)

	d := risk.Check(cfg.RiskPolicy(), in, takeProfit)
	for _, v := range d.Violations {
		fmt.Fprintf(w, "  ! %s: %s\n", v.Code, v.Msg)
	}
}

func saveEntry(ctx context.Context, w io.Writer, e ledger.Entry) error {
	if ctx == nil {
		ctx = context.Background()
	}
	store, err := openStore()
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	defer store.Close()

	if err := store.Append(ctx, e); err != nil {
		return fmt.Errorf("save trade: %w", err)
	}
	fmt.Fprintf(w, "✓ Saved to %s\n", cfg.Ledger.Path)
	return nil
}

func aligned(ok bool) string {
	if ok {
		return "aligned"
	}
	return "not aligned"
}

func verdictText(v trade.Verdict) string {
	switch v {
	case trade.VerdictFull:
		return "Full confirmation"
	case trade.VerdictPartial:
		return "Partial confirmation"
	default:
		return "No confirmation"
	}
}
