package quote

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradeplan/market"
)

type fakeSource struct {
	name  string
	price float64
	err   error
	calls int
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) LivePrice(ctx context.Context, inst market.Instrument) (float64, error) {
	f.calls++
	return f.price, f.err
}

func TestChain_FirstSuccessWins(t *testing.T) {
	t.Parallel()

	a := &fakeSource{name: "a", err: errors.New("down")}
	b := &fakeSource{name: "b", price: 1.0712}
	c := &fakeSource{name: "c", price: 9.99}

	chain := NewChain(zerolog.Nop(), a, b, c)
	q, err := chain.Quote(context.Background(), market.EURUSD)
	require.NoError(t, err)

	assert.Equal(t, 1.0712, q.Price)
	assert.Equal(t, "b", q.Source)
	assert.Equal(t, market.EURUSD, q.Instrument)
	assert.False(t, q.Time.IsZero())

	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 1, b.calls)
	assert.Equal(t, 0, c.calls)
}

func TestChain_RejectsUnusablePrices(t *testing.T) {
	t.Parallel()

	bad := []*fakeSource{
		{name: "zero", price: 0},
		{name: "neg", price: -1},
		{name: "nan", price: math.NaN()},
		{name: "inf", price: math.Inf(1)},
	}
	good := &fakeSource{name: "good", price: 2350.45}

	var sources []Source
	for _, s := range bad {
		sources = append(sources, s)
	}
	sources = append(sources, good)

	q, err := NewChain(zerolog.Nop(), sources...).Quote(context.Background(), market.XAUUSD)
	require.NoError(t, err)
	assert.Equal(t, "good", q.Source)
	for _, s := range bad {
		assert.Equal(t, 1, s.calls, s.name)
	}
}

func TestChain_AllFail(t *testing.T) {
	t.Parallel()

	a := &fakeSource{name: "a", err: errors.New("timeout")}
	b := &fakeSource{name: "b", err: errors.New("no data")}

	chain := NewChain(zerolog.Nop(), a, b)
	_, err := chain.Quote(context.Background(), market.GBPUSD)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "a: timeout")
	assert.Contains(t, err.Error(), "b: no data")

	// each source is tried exactly once
	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 1, b.calls)
}

func TestChain_Empty(t *testing.T) {
	t.Parallel()

	_, err := NewChain(zerolog.Nop()).Quote(context.Background(), market.EURUSD)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestChain_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := &fakeSource{name: "a", price: 1.1}
	_, err := NewChain(zerolog.Nop(), a).Quote(ctx, market.EURUSD)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, a.calls)
}

func TestChain_Sources(t *testing.T) {
	t.Parallel()

	chain := NewChain(zerolog.Nop(), &fakeSource{name: "x"}, &fakeSource{name: "y"})
	assert.Equal(t, []string{"x", "y"}, chain.Sources())
}

func TestResolve(t *testing.T) {
	t.Parallel()

	t.Run("live", func(t *testing.T) {
		t.Parallel()
		chain := NewChain(zerolog.Nop(), &fakeSource{name: "live", price: 1.265})
		q, err := Resolve(context.Background(), chain, market.GBPUSD, 1.26345)
		require.NoError(t, err)
		assert.Equal(t, 1.265, q.Price)
		assert.Equal(t, "live", q.Source)
	})

	t.Run("falls back to manual with warning", func(t *testing.T) {
		t.Parallel()
		chain := NewChain(zerolog.Nop(), &fakeSource{name: "a", err: errors.New("down")})
		q, err := Resolve(context.Background(), chain, market.GBPUSD, 1.26345)
		assert.ErrorIs(t, err, ErrUnavailable)
		assert.Equal(t, 1.26345, q.Price)
		assert.Equal(t, ManualSource, q.Source)
	})

	t.Run("nil chain", func(t *testing.T) {
		t.Parallel()
		q, err := Resolve(context.Background(), nil, market.EURUSD, 1.07)
		assert.ErrorIs(t, err, ErrUnavailable)
		assert.Equal(t, 1.07, q.Price)
		assert.Equal(t, ManualSource, q.Source)
	})
}

func TestWithBreaker_OpensAfterFailures(t *testing.T) {
	t.Parallel()

	src := &fakeSource{name: "flaky", err: errors.New("down")}
	b := WithBreaker(src)
	assert.Equal(t, "flaky", b.Name())

	for i := 0; i < 3; i++ {
		_, err := b.LivePrice(context.Background(), market.EURUSD)
		require.Error(t, err)
	}
	assert.Equal(t, 3, src.calls)

	// open: the source is not called again
	_, err := b.LivePrice(context.Background(), market.EURUSD)
	require.Error(t, err)
	assert.Equal(t, 3, src.calls)
}

func TestWithBreaker_PassesPrice(t *testing.T) {
	t.Parallel()

	b := WithBreaker(&fakeSource{name: "ok", price: 1.0712})
	p, err := b.LivePrice(context.Background(), market.EURUSD)
	require.NoError(t, err)
	assert.Equal(t, 1.0712, p)
}

func TestDefaultChain_Order(t *testing.T) {
	t.Parallel()

	chain := DefaultChain(Options{}, zerolog.Nop())
	assert.Equal(t, []string{"yahoo:1m", "yahoo:5m", "yahoo:1h", "yahoo:quote"}, chain.Sources())

	chain = DefaultChain(Options{OandaToken: "tok", OandaPractice: true, Intervals: []Interval{Interval5m}, Breaker: true}, zerolog.Nop())
	assert.Equal(t, []string{"oanda:M1", "yahoo:5m", "yahoo:quote"}, chain.Sources())
}
