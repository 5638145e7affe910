package quote

import (
	"context"
	"time"

	"github.com/sony/gobreaker"

	"github.com/rustyeddy/tradeplan/market"
)

// breakerSource stops calling a source after repeated failures, so a
// long-running server skips a dead provider instead of waiting on it for
// every request. An open breaker fails the attempt immediately.
type breakerSource struct {
	Source
	cb *gobreaker.CircuitBreaker
}

func WithBreaker(s Source) Source {
	st := gobreaker.Settings{Name: s.Name()}
	st.Interval = 60 * time.Second
	st.Timeout = 60 * time.Second
	st.ReadyToTrip = func(counts gobreaker.Counts) bool {
		return counts.ConsecutiveFailures >= 3
	}
	return &breakerSource{Source: s, cb: gobreaker.NewCircuitBreaker(st)}
}

func (b *breakerSource) LivePrice(ctx context.Context, inst market.Instrument) (float64, error) {
	v, err := b.cb.Execute(func() (interface{}, error) {
		p, err := b.Source.LivePrice(ctx, inst)
		if err == nil {
			err = validPrice(p)
		}
		return p, err
	})
	if err != nil {
		return 0, err
	}
	return v.(float64), nil
}
