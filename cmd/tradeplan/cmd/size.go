package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradeplan/market"
	"github.com/rustyeddy/tradeplan/risk"
)

var sizeCmd = &cobra.Command{
	Use:   "size",
	Short: "Compute the position size for an entry and stop",
	Long: `Size a position so that hitting the stop loses the given percent of
the account. Account size and risk default to the config.

Example:
  tradeplan size -p EUR/USD --account 10000 --risk 1 -e 1.07 --sl 1.06815 --tp 1.0737`,
	Args: cobra.NoArgs,
	RunE: runSize,
}

var (
	sizePair    string
	sizeAccount float64
	sizeRisk    float64
	sizeEntry   float64
	sizeStop    float64
	sizeTarget  float64
)

func init() {
	rootCmd.AddCommand(sizeCmd)
	sizeCmd.Flags().StringVarP(&sizePair, "pair", "p", "", "instrument (default from config)")
	sizeCmd.Flags().Float64Var(&sizeAccount, "account", 0, "account size (default from config)")
	sizeCmd.Flags().Float64Var(&sizeRisk, "risk", 0, "percent of the account to risk (default from config)")
	sizeCmd.Flags().Float64VarP(&sizeEntry, "entry", "e", 0, "entry price")
	sizeCmd.Flags().Float64Var(&sizeStop, "sl", 0, "stop-loss price")
	sizeCmd.Flags().Float64Var(&sizeTarget, "tp", 0, "take-profit price, for the reward:risk check")
	sizeCmd.MarkFlagRequired("entry")
	sizeCmd.MarkFlagRequired("sl")
}

func runSize(cmd *cobra.Command, args []string) error {
	pair := cfg.Pair()
	if sizePair != "" {
		p, err := market.ParseInstrument(sizePair)
		if err != nil {
			return err
		}
		pair = p
	}

	in := risk.Inputs{
		Equity:      cfg.Account.Balance,
		RiskPct:     cfg.Account.RiskPercent,
		EntryPrice:  sizeEntry,
		StopPrice:   sizeStop,
		PipLocation: pair.Meta().PipLocation,
	}
	if cmd.Flags().Changed("account") {
		in.Equity = sizeAccount
	}
	if cmd.Flags().Changed("risk") {
		in.RiskPct = sizeRisk
	}

	if err := requireFinite("entry", in.EntryPrice, "sl", in.StopPrice, "tp", sizeTarget,
		"account", in.Equity, "risk", in.RiskPct); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	res, err := risk.Size(in)
	fmt.Fprintf(out, "%s  account %.2f  risk %.2f%%  (%.2f %s)\n",
		pair, in.Equity, in.RiskPct, res.RiskAmount, cfg.Account.Currency)
	fmt.Fprintf(out, "  Entry    %s\n", market.FormatPrice(pair, in.EntryPrice))
	fmt.Fprintf(out, "  Stop     %s  (%s, %.1f pips)\n",
		market.FormatPrice(pair, in.StopPrice), market.FormatPrice(pair, res.PriceDiff), res.StopPips)
	if errors.Is(err, risk.ErrDivisionUndefined) {
		fmt.Fprintf(out, "  Size     undefined: stop equals entry\n")
		return nil
	}
	printSizing(out, pair, in, sizeTarget)
	fmt.Fprintf(out, "  Meter    %.0f%%\n", risk.RiskLevel(in.RiskPct)*100)
	return nil
}
