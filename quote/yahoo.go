package quote

import (
	"context"
	"fmt"

	"github.com/wnjoon/go-yfinance/pkg/models"
	"github.com/wnjoon/go-yfinance/pkg/ticker"

	"github.com/rustyeddy/tradeplan/market"
)

// Interval is a Yahoo chart interval.
type Interval string

const (
	Interval1m  Interval = "1m"
	Interval5m  Interval = "5m"
	Interval15m Interval = "15m"
	Interval1h  Interval = "1h"
	Interval1d  Interval = "1d"
)

// lookback is the shortest Yahoo period that reliably holds enough bars
// of each interval.
var lookback = map[Interval]string{
	Interval1m:  "1d",
	Interval5m:  "5d",
	Interval15m: "5d",
	Interval1h:  "1mo",
	Interval1d:  "1y",
}

type historyFunc func(symbol string, interval Interval, period string) ([]market.Candle, error)

type quoteFunc func(symbol string) (float64, error)

// Yahoo reads the latest close of one chart interval.
type Yahoo struct {
	interval Interval
	history  historyFunc
}

func NewYahoo(interval Interval) *Yahoo {
	return &Yahoo{interval: interval, history: yahooHistory}
}

func (y *Yahoo) Name() string {
	return "yahoo:" + string(y.interval)
}

func (y *Yahoo) LivePrice(ctx context.Context, inst market.Instrument) (float64, error) {
	candles, err := y.Candles(ctx, inst, 1)
	if err != nil {
		return 0, err
	}
	return candles[len(candles)-1].Close, nil
}

// Candles returns up to count of the most recent bars, oldest first.
func (y *Yahoo) Candles(ctx context.Context, inst market.Instrument, count int) ([]market.Candle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !inst.Valid() {
		return nil, fmt.Errorf("unknown instrument: %q", inst)
	}

	period, ok := lookback[y.interval]
	if !ok {
		return nil, fmt.Errorf("unsupported interval %q", y.interval)
	}

	candles, err := y.history(inst.Meta().YahooSymbol, y.interval, period)
	if err != nil {
		return nil, err
	}
	if len(candles) == 0 {
		return nil, fmt.Errorf("no %s bars for %s", y.interval, inst)
	}
	if count > 0 && len(candles) > count {
		candles = candles[len(candles)-count:]
	}
	return candles, nil
}

// YahooQuote reads the regular market price from the quote endpoint. It is
// the coarsest Yahoo fallback.
type YahooQuote struct {
	quote quoteFunc
}

func NewYahooQuote() *YahooQuote {
	return &YahooQuote{quote: yahooQuote}
}

func (y *YahooQuote) Name() string {
	return "yahoo:quote"
}

func (y *YahooQuote) LivePrice(ctx context.Context, inst market.Instrument) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if !inst.Valid() {
		return 0, fmt.Errorf("unknown instrument: %q", inst)
	}
	return y.quote(inst.Meta().YahooSymbol)
}

func yahooHistory(symbol string, interval Interval, period string) ([]market.Candle, error) {
	t, err := ticker.New(symbol)
	if err != nil {
		return nil, fmt.Errorf("create ticker: %w", err)
	}
	defer t.Close()

	bars, err := t.History(models.HistoryParams{
		Period:   period,
		Interval: string(interval),
	})
	if err != nil {
		return nil, fmt.Errorf("history %s %s: %w", symbol, interval, err)
	}

	candles := make([]market.Candle, 0, len(bars))
	for _, bar := range bars {
		if bar.Close <= 0 {
			continue
		}
		candles = append(candles, market.Candle{
			Open:   bar.Open,
			High:   bar.High,
			Low:    bar.Low,
			Close:  bar.Close,
			Time:   bar.Date,
			Volume: float64(bar.Volume),
		})
	}
	return candles, nil
}

func yahooQuote(symbol string) (float64, error) {
	t, err := ticker.New(symbol)
	if err != nil {
		return 0, fmt.Errorf("create ticker: %w", err)
	}
	defer t.Close()

	q, err := t.Quote()
	if err != nil {
		return 0, fmt.Errorf("quote %s: %w", symbol, err)
	}
	if q == nil {
		return 0, fmt.Errorf("quote %s: empty response", symbol)
	}
	return q.RegularMarketPrice, nil
}
