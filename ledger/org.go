package ledger

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/tradeplan/market"
)

// FormatEntryOrg renders an Entry as an Org-mode block suitable for pasting
// into a journal. Structured facts live in the PROPERTIES drawer; the
// narrative headings are left for the trader to fill in.
func FormatEntryOrg(e Entry) string {
	price := func(p float64) string { return market.FormatPrice(e.Pair, p) }

	var b strings.Builder
	b.WriteString(fmt.Sprintf("** Trade: %s %s (%s)\n", e.Pair, e.Direction, e.Date.UTC().Format(DateLayout)))
	b.WriteString(":PROPERTIES:\n")
	b.WriteString(fmt.Sprintf(":PAIR: %s\n", e.Pair))
	b.WriteString(fmt.Sprintf(":DIRECTION: %s\n", e.Direction))
	b.WriteString(fmt.Sprintf(":ENTRY_PRICE: %s\n", price(e.EntryPrice)))
	b.WriteString(fmt.Sprintf(":SL: %s\n", price(e.SL)))
	b.WriteString(fmt.Sprintf(":TP: %s\n", price(e.TP)))
	b.WriteString(fmt.Sprintf(":ATR: %s\n", f(e.ATR)))
	b.WriteString(fmt.Sprintf(":SL_MULT: %s\n", f(e.SLMultiplier)))
	b.WriteString(fmt.Sprintf(":TP_MULT: %s\n", f(e.TPMultiplier)))
	b.WriteString(fmt.Sprintf(":EMA_10: %s\n", price(e.EMAFast)))
	b.WriteString(fmt.Sprintf(":EMA_50: %s\n", price(e.EMASlow)))
	b.WriteString(fmt.Sprintf(":RSI: %.1f\n", e.RSI))
	b.WriteString(fmt.Sprintf(":PATTERN: %s\n", e.Pattern))
	b.WriteString(fmt.Sprintf(":OUTCOME: %s\n", e.Outcome()))
	b.WriteString(":END:\n")
	b.WriteString("\n")
	b.WriteString("*** Thesis\n- \n\n")
	b.WriteString("*** Execution\n- \n\n")
	b.WriteString("*** Review\n- \n")

	return b.String()
}

// FormatEntriesOrg renders multiple entries separated by blank lines.
func FormatEntriesOrg(entries []Entry) string {
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(FormatEntryOrg(e))
	}
	return b.String()
}
