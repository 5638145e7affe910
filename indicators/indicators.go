// Package indicators computes the technical readings a trade snapshot
// needs from a candle series.
package indicators

import (
	"errors"
	"fmt"
	"math"

	"github.com/markcheno/go-talib"

	"github.com/rustyeddy/tradeplan/market"
	"github.com/rustyeddy/tradeplan/trade"
)

const (
	ATRPeriod     = 14
	EMAFastPeriod = 10
	EMASlowPeriod = 50
	RSIPeriod     = 14
)

// MinCandles is the shortest series for which every reading is defined.
const MinCandles = EMASlowPeriod

var ErrNotEnoughCandles = errors.New("not enough candles")

// Reading holds the latest indicator values of a series.
type Reading struct {
	ATR     float64       `json:"atr"`
	EMAFast float64       `json:"ema_fast"`
	EMASlow float64       `json:"ema_slow"`
	RSI     float64       `json:"rsi"`
	Pattern trade.Pattern `json:"pattern"`
	Close   float64       `json:"close"`
}

// Apply copies the reading into s and returns the result.
func (r Reading) Apply(s trade.Snapshot) trade.Snapshot {
	s.ATR = r.ATR
	s.EMAFast = r.EMAFast
	s.EMASlow = r.EMASlow
	s.RSI = r.RSI
	s.Pattern = r.Pattern
	return s
}

// Prefill computes every reading from candles, oldest first.
func Prefill(candles []market.Candle) (Reading, error) {
	if len(candles) < MinCandles {
		return Reading{}, fmt.Errorf("%w: need %d, got %d", ErrNotEnoughCandles, MinCandles, len(candles))
	}

	var (
		r   Reading
		err error
	)
	if r.ATR, err = ATR(candles, ATRPeriod); err != nil {
		return Reading{}, err
	}
	closes := market.Closes(candles)
	if r.EMAFast, err = EMA(closes, EMAFastPeriod); err != nil {
		return Reading{}, err
	}
	if r.EMASlow, err = EMA(closes, EMASlowPeriod); err != nil {
		return Reading{}, err
	}
	if r.RSI, err = RSI(closes, RSIPeriod); err != nil {
		return Reading{}, err
	}
	r.Pattern = DetectPattern(candles)
	r.Close = closes[len(closes)-1]
	return r, nil
}

// EMA returns the latest exponential moving average of closes.
func EMA(closes []float64, period int) (float64, error) {
	if err := need(len(closes), period, period); err != nil {
		return 0, err
	}
	return last(talib.Ema(closes, period), "EMA", period)
}

// RSI returns the latest Wilder RSI of closes.
func RSI(closes []float64, period int) (float64, error) {
	if err := need(len(closes), period, period+1); err != nil {
		return 0, err
	}
	return last(talib.Rsi(closes, period), "RSI", period)
}

// ATR returns the latest Wilder average true range.
func ATR(candles []market.Candle, period int) (float64, error) {
	if err := need(len(candles), period, period+1); err != nil {
		return 0, err
	}
	h, l, c := market.HLC(candles)
	return last(talib.Atr(h, l, c, period), "ATR", period)
}

func need(have, period, min int) error {
	if period <= 0 {
		return fmt.Errorf("period must be positive, got %d", period)
	}
	if have < min {
		return fmt.Errorf("%w: need %d, got %d", ErrNotEnoughCandles, min, have)
	}
	return nil
}

func last(series []float64, name string, period int) (float64, error) {
	if len(series) == 0 {
		return 0, fmt.Errorf("%s(%d): empty result", name, period)
	}
	v := series[len(series)-1]
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%s(%d): undefined", name, period)
	}
	return v, nil
}
