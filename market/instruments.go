// market/instruments.go
package market

import (
	"fmt"
	"strings"
)

// Instrument is one of the supported pairs, written the way traders
// read them ("EUR/USD").
type Instrument string

const (
	EURUSD Instrument = "EUR/USD"
	GBPUSD Instrument = "GBP/USD"
	XAUUSD Instrument = "XAU/USD"
)

type InstrumentMeta struct {
	Name          Instrument
	BaseCurrency  string
	QuoteCurrency string
	PipLocation   int
	DisplayDigits int
	LotSize       float64
	YahooSymbol   string
	OandaName     string
}

var Instruments = map[Instrument]InstrumentMeta{
	EURUSD: {
		Name:          EURUSD,
		BaseCurrency:  "EUR",
		QuoteCurrency: "USD",
		PipLocation:   -4,
		DisplayDigits: 5,
		LotSize:       100_000,
		YahooSymbol:   "EURUSD=X",
		OandaName:     "EUR_USD",
	},
	GBPUSD: {
		Name:          GBPUSD,
		BaseCurrency:  "GBP",
		QuoteCurrency: "USD",
		PipLocation:   -4,
		DisplayDigits: 5,
		LotSize:       100_000,
		YahooSymbol:   "GBPUSD=X",
		OandaName:     "GBP_USD",
	},
	XAUUSD: {
		Name:          XAUUSD,
		BaseCurrency:  "XAU",
		QuoteCurrency: "USD",
		PipLocation:   -2,
		DisplayDigits: 2,
		LotSize:       100,
		YahooSymbol:   "GC=F",
		OandaName:     "XAU_USD",
	},
}

// AllInstruments returns every supported instrument in display order.
func AllInstruments() []Instrument {
	return []Instrument{EURUSD, GBPUSD, XAUUSD}
}

// ParseInstrument accepts "EUR/USD", "EUR_USD", "eurusd" and friends.
func ParseInstrument(s string) (Instrument, error) {
	k := strings.ToUpper(strings.TrimSpace(s))
	k = strings.NewReplacer("/", "", "_", "", "-", "", " ", "").Replace(k)
	for _, inst := range AllInstruments() {
		if strings.ReplaceAll(string(inst), "/", "") == k {
			return inst, nil
		}
	}
	return "", fmt.Errorf("unknown instrument: %q", s)
}

// Meta returns the metadata for i. Unknown instruments get EUR/USD-like
// defaults so display code never has to special-case them.
func (i Instrument) Meta() InstrumentMeta {
	if m, ok := Instruments[i]; ok {
		return m
	}
	return InstrumentMeta{Name: i, PipLocation: -4, DisplayDigits: 5, LotSize: 100_000}
}

func (i Instrument) Valid() bool {
	_, ok := Instruments[i]
	return ok
}

func (i Instrument) String() string {
	return string(i)
}
