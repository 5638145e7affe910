package quote

import (
	"context"
	"fmt"

	"github.com/rustyeddy/tradeplan/market"
	"github.com/rustyeddy/tradeplan/oanda"
)

type candleGetter interface {
	GetCandles(ctx context.Context, req oanda.CandlesRequest) ([]market.Candle, error)
}

// Oanda reads the close of the newest candle, forming or not.
type Oanda struct {
	client      candleGetter
	granularity oanda.Granularity
}

func NewOanda(client *oanda.Client, granularity oanda.Granularity) *Oanda {
	return &Oanda{client: client, granularity: granularity}
}

func (o *Oanda) Name() string {
	return "oanda:" + string(o.granularity)
}

func (o *Oanda) LivePrice(ctx context.Context, inst market.Instrument) (float64, error) {
	candles, err := o.client.GetCandles(ctx, oanda.CandlesRequest{
		Instrument:        inst,
		Granularity:       o.granularity,
		Count:             2,
		IncludeIncomplete: true,
	})
	if err != nil {
		return 0, err
	}
	if len(candles) == 0 {
		return 0, fmt.Errorf("no %s candles for %s", o.granularity, inst)
	}
	return candles[len(candles)-1].Close, nil
}

// Candles returns complete candles only.
func (o *Oanda) Candles(ctx context.Context, inst market.Instrument, count int) ([]market.Candle, error) {
	return o.client.GetCandles(ctx, oanda.CandlesRequest{
		Instrument:  inst,
		Granularity: o.granularity,
		Count:       count,
	})
}
