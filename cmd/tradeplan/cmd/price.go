package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradeplan/market"
	"github.com/rustyeddy/tradeplan/quote"
)

var priceCmd = &cobra.Command{
	Use:   "price <pair>",
	Short: "Fetch the live price, falling back to a manual price",
	Long: `Try OANDA (when a token is configured), then Yahoo by interval, then
the Yahoo quote. When all fail the --manual price is shown with a warning.

Example:
  tradeplan price XAU/USD --manual 2350.45`,
	Args: cobra.ExactArgs(1),
	RunE: runPrice,
}

var priceManual float64

func init() {
	rootCmd.AddCommand(priceCmd)
	priceCmd.Flags().Float64VarP(&priceManual, "manual", "m", 0, "price to use when no live price is available")
}

func runPrice(cmd *cobra.Command, args []string) error {
	inst, err := market.ParseInstrument(args[0])
	if err != nil {
		return err
	}
	if err := requireFinite("manual", priceManual); err != nil {
		return err
	}

	chain := quote.DefaultChain(cfg.QuoteOptions(), appLog)
	q, err := quote.Resolve(cmd.Context(), chain, inst, priceManual)
	if err != nil {
		appLog.Warn().Err(err).Msg("live price unavailable")
	}

	printQuote(cmd.OutOrStdout(), inst, q, priceManual, err == nil)
	return nil
}

// printQuote shows q and, when it is live and an entry was given, how far
// the live price sits from that entry.
func printQuote(w io.Writer, inst market.Instrument, q quote.Quote, entry float64, live bool) {
	fmt.Fprintf(w, "%s %s (%s)\n", inst, market.FormatPrice(inst, q.Price), q.Source)
	if live && entry > 0 {
		diff := q.Price - entry
		fmt.Fprintf(w, "  vs entry %s: %+.*f (%.1f pips)\n",
			market.FormatPrice(inst, entry), inst.Meta().DisplayDigits, diff, market.Pips(inst, diff))
	}
}
