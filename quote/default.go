package quote

import (
	"github.com/rs/zerolog"

	"github.com/rustyeddy/tradeplan/oanda"
)

// DefaultIntervals is the Yahoo fallback order, finest first.
var DefaultIntervals = []Interval{Interval1m, Interval5m, Interval1h}

type Options struct {
	OandaToken    string
	OandaPractice bool
	// Intervals overrides DefaultIntervals when set.
	Intervals []Interval
	Breaker   bool
}

// DefaultChain builds OANDA (only with a token), then Yahoo chart closes
// by interval, then the Yahoo quote endpoint.
func DefaultChain(opts Options, log zerolog.Logger) *Chain {
	var sources []Source

	if opts.OandaToken != "" {
		sources = append(sources, NewOanda(oanda.NewClient(opts.OandaToken, opts.OandaPractice), oanda.M1))
	}

	intervals := opts.Intervals
	if len(intervals) == 0 {
		intervals = DefaultIntervals
	}
	for _, iv := range intervals {
		sources = append(sources, NewYahoo(iv))
	}
	sources = append(sources, NewYahooQuote())

	if opts.Breaker {
		for i, s := range sources {
			sources[i] = WithBreaker(s)
		}
	}
	return NewChain(log, sources...)
}

// DefaultCandles picks the source used to prefill indicators.
func DefaultCandles(opts Options, interval Interval) CandleSource {
	if opts.OandaToken != "" {
		g := oanda.H1
		switch interval {
		case Interval1m:
			g = oanda.M1
		case Interval5m:
			g = oanda.M5
		case Interval15m:
			g = oanda.M15
		case Interval1d:
			g = oanda.D
		}
		return NewOanda(oanda.NewClient(opts.OandaToken, opts.OandaPractice), g)
	}
	return NewYahoo(interval)
}
