// Package quote fetches live prices through an ordered list of fallback
// sources, ending at the manually entered price.
package quote

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/tradeplan/market"
)

// ErrUnavailable means no source produced a usable price.
var ErrUnavailable = errors.New("live price unavailable")

// ManualSource names quotes that came from the user's own entry price.
const ManualSource = "manual"

type Quote struct {
	Instrument market.Instrument `json:"pair"`
	Price      float64           `json:"price"`
	Source     string            `json:"source"`
	Time       time.Time         `json:"time"`
}

// Source is one way of getting a live price.
type Source interface {
	Name() string
	LivePrice(ctx context.Context, inst market.Instrument) (float64, error)
}

// CandleSource returns recent candles for indicator calculation.
type CandleSource interface {
	Candles(ctx context.Context, inst market.Instrument, count int) ([]market.Candle, error)
}

// Chain tries its sources once each, in order, and returns the first
// usable price. There are no retries.
type Chain struct {
	sources []Source
	log     zerolog.Logger
	now     func() time.Time
}

func NewChain(log zerolog.Logger, sources ...Source) *Chain {
	return &Chain{
		sources: sources,
		log:     log.With().Str("component", "quote").Logger(),
		now:     time.Now,
	}
}

func (c *Chain) Name() string {
	return "chain"
}

// Sources lists the source names in the order they are tried.
func (c *Chain) Sources() []string {
	names := make([]string, len(c.sources))
	for i, s := range c.sources {
		names[i] = s.Name()
	}
	return names
}

func (c *Chain) LivePrice(ctx context.Context, inst market.Instrument) (float64, error) {
	q, err := c.Quote(ctx, inst)
	if err != nil {
		return 0, err
	}
	return q.Price, nil
}

// Quote walks the chain. When every source fails the error wraps
// ErrUnavailable and joins each attempt's error.
func (c *Chain) Quote(ctx context.Context, inst market.Instrument) (Quote, error) {
	var errs []error
	for _, s := range c.sources {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		p, err := s.LivePrice(ctx, inst)
		if err == nil {
			err = validPrice(p)
		}
		if err != nil {
			c.log.Debug().Err(err).Str("source", s.Name()).Str("pair", string(inst)).Msg("price source failed")
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
			continue
		}

		return Quote{Instrument: inst, Price: p, Source: s.Name(), Time: c.now()}, nil
	}

	if len(errs) == 0 {
		return Quote{}, fmt.Errorf("%w: no sources configured", ErrUnavailable)
	}
	return Quote{}, fmt.Errorf("%w for %s: %w", ErrUnavailable, inst, errors.Join(errs...))
}

// Resolve returns the live price when one is available and the manual
// price otherwise. The error is a warning for the user: the returned
// Quote is usable either way.
func Resolve(ctx context.Context, c *Chain, inst market.Instrument, manual float64) (Quote, error) {
	if c != nil {
		q, err := c.Quote(ctx, inst)
		if err == nil {
			return q, nil
		}
		return manualQuote(inst, manual), err
	}
	return manualQuote(inst, manual), fmt.Errorf("%w: no sources configured", ErrUnavailable)
}

func manualQuote(inst market.Instrument, manual float64) Quote {
	return Quote{Instrument: inst, Price: manual, Source: ManualSource, Time: time.Now()}
}

func validPrice(p float64) error {
	if math.IsNaN(p) || math.IsInf(p, 0) || p <= 0 {
		return fmt.Errorf("invalid price %v", p)
	}
	return nil
}
