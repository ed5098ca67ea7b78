package runner

import (
	"context"
	"sync"
	"testing"
	"time"
	"zyntra/internal/calc"
	"zyntra/internal/models"
	"zyntra/internal/sim"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type harness struct {
	r      *Runner
	ticks  chan time.Time
	trades chan time.Time
	sub    <-chan models.Snapshot
	cancel context.CancelFunc
}

func testConfig() Config {
	return Config{
		Symbol:       "BTC",
		StartPrice:   45000,
		TickInterval: time.Second,
		DriftK:       sim.DefaultDriftK,
		Book:         sim.DefaultBookConfig(),
		TradeMin:     2 * time.Second,
		TradeMax:     5 * time.Second,
		TapeSize:     3,
		Seed:         42,
		LeverageMin:  1,
		LeverageMax:  125,
	}
}

func start(t *testing.T, cfg Config, obs TickObserver) *harness {
	t.Helper()
	r := New(cfg, zap.NewNop(), obs)
	r.now = func() time.Time { return fixedNow }

	ctx, cancel := context.WithCancel(context.Background())
	h := &harness{
		r:      r,
		ticks:  make(chan time.Time),
		trades: make(chan time.Time),
		cancel: cancel,
	}
	sub, unsub := r.Subscribe()
	h.sub = sub
	t.Cleanup(func() {
		unsub()
		cancel()
		<-r.Done()
	})

	go r.loop(ctx, h.ticks, h.trades)
	h.next(t)
	return h
}

func (h *harness) next(t *testing.T) models.Snapshot {
	t.Helper()
	select {
	case s := <-h.sub:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot")
		return models.Snapshot{}
	}
}

// sync делает круг через цикл: всё отправленное до него уже обработано.
func (h *harness) sync(t *testing.T) {
	t.Helper()
	_, err := h.r.ClosePosition(context.Background(), "sync")
	require.True(t, errors.Is(err, ErrUnknownPosition))
}

func TestFirstTickPublishesImmediately(t *testing.T) {
	h := start(t, testConfig(), nil)

	snap, ok := h.r.Latest()
	require.True(t, ok)
	require.Equal(t, uint64(1), snap.Seq)
	require.Equal(t, "BTC", snap.Symbol)
	require.NotEqual(t, 45000.0, snap.Price)
	require.InDelta(t, 45000, snap.Price, 45000*0.001)
	require.Len(t, snap.Book.Asks, sim.DefaultDepth)
	require.Len(t, snap.Book.Bids, sim.DefaultDepth)
	require.Len(t, snap.Funding.History, 24)
	require.Equal(t, sim.DefaultFundingRate, snap.Funding.Rate)
	require.Equal(t, 3*time.Hour+45*time.Minute+11*time.Second, snap.Funding.NextIn)
	require.Empty(t, snap.Positions)
}

func TestSameSeedSameMarket(t *testing.T) {
	a := start(t, testConfig(), nil)
	b := start(t, testConfig(), nil)

	for i := 0; i < 3; i++ {
		a.ticks <- fixedNow
		b.ticks <- fixedNow
		sa, sb := a.next(t), b.next(t)
		require.Equal(t, sa.Price, sb.Price)
		require.Equal(t, sa.Book, sb.Book)
	}
}

func TestOpenRevalueClose(t *testing.T) {
	h := start(t, testConfig(), nil)
	ctx := context.Background()

	pos, err := h.r.OpenPosition(ctx, models.OpenPositionRequest{
		Symbol:     "btc-usdt",
		Side:       "buy",
		Size:       0.5,
		EntryPrice: 45000,
		Leverage:   10,
	})
	require.NoError(t, err)
	require.NotEmpty(t, pos.ID)
	require.Equal(t, "BTC", pos.Symbol)
	require.Equal(t, models.SideLong, pos.Side)
	require.InDelta(t, 40950, pos.LiquidationPrice, 1e-6)
	require.InDelta(t, 2250, pos.Margin, 1e-6)
	require.Equal(t, fixedNow, pos.OpenedAt)

	snap, _ := h.r.Latest()
	require.Len(t, snap.Positions, 1)

	h.ticks <- fixedNow
	h.sync(t)
	snap, _ = h.r.Latest()
	require.Len(t, snap.Positions, 1)
	p := snap.Positions[0]
	require.Equal(t, snap.Price, p.MarkPrice)
	require.InDelta(t, (snap.Price-45000)*0.5, p.UnrealizedPnL, 1e-9)
	require.InDelta(t, (snap.Price-45000)/45000*100*10, p.UnrealizedPnLPercent, 1e-9)

	closed, err := h.r.ClosePosition(ctx, pos.ID)
	require.NoError(t, err)
	require.Equal(t, pos.ID, closed.ID)
	require.Empty(t, h.r.Positions())

	_, err = h.r.ClosePosition(ctx, pos.ID)
	require.True(t, errors.Is(err, ErrUnknownPosition))
}

func TestOpenShortHasNoLiquidationEstimate(t *testing.T) {
	h := start(t, testConfig(), nil)

	pos, err := h.r.OpenPosition(context.Background(), models.OpenPositionRequest{Side: "short", Size: 1, Leverage: 5})
	require.NoError(t, err)
	require.Equal(t, models.SideShort, pos.Side)
	require.Zero(t, pos.LiquidationPrice)
	require.Equal(t, "BTC", pos.Symbol)

	snap, _ := h.r.Latest()
	require.Equal(t, snap.Price, pos.EntryPrice)
}

func TestOpenRejectsBadInput(t *testing.T) {
	h := start(t, testConfig(), nil)
	ctx := context.Background()

	_, err := h.r.OpenPosition(ctx, models.OpenPositionRequest{Side: "long", Size: 1, Leverage: 0})
	require.True(t, errors.Is(err, calc.ErrInvalidLeverage))

	_, err = h.r.OpenPosition(ctx, models.OpenPositionRequest{Side: "long", Size: 1, Leverage: 200})
	require.True(t, errors.Is(err, calc.ErrInvalidLeverage))

	_, err = h.r.OpenPosition(ctx, models.OpenPositionRequest{Side: "sideways", Size: 1, Leverage: 5})
	require.True(t, errors.Is(err, calc.ErrInvalidInput))

	_, err = h.r.OpenPosition(ctx, models.OpenPositionRequest{Side: "long", Size: 0, Leverage: 5})
	require.True(t, errors.Is(err, calc.ErrInvalidInput))

	require.Empty(t, h.r.Positions())
}

func TestAddMargin(t *testing.T) {
	h := start(t, testConfig(), nil)
	ctx := context.Background()

	pos, err := h.r.OpenPosition(ctx, models.OpenPositionRequest{Side: "long", Size: 1, EntryPrice: 1000, Leverage: 10})
	require.NoError(t, err)

	upd, err := h.r.AddMargin(ctx, pos.ID, 50)
	require.NoError(t, err)
	require.InDelta(t, 150, upd.Margin, 1e-9)
	require.Equal(t, pos.LiquidationPrice, upd.LiquidationPrice)

	_, err = h.r.AddMargin(ctx, pos.ID, -1)
	require.True(t, errors.Is(err, calc.ErrInvalidInput))

	_, err = h.r.AddMargin(ctx, "missing", 10)
	require.True(t, errors.Is(err, ErrUnknownPosition))
}

func TestTradeTape(t *testing.T) {
	h := start(t, testConfig(), nil)

	for i := 0; i < 5; i++ {
		h.trades <- fixedNow
	}
	h.sync(t)

	snap, _ := h.r.Latest()
	require.Len(t, snap.Trades, 3)
	for _, tr := range snap.Trades {
		require.NotEmpty(t, tr.ID)
		require.Equal(t, fixedNow, tr.Time)
		require.Less(t, tr.Amount, 0.5)
	}
}

func TestSlowSubscriberGetsLatest(t *testing.T) {
	h := start(t, testConfig(), nil)

	for i := 0; i < 4; i++ {
		h.ticks <- fixedNow
	}
	h.sync(t)

	latest, _ := h.r.Latest()
	got := h.next(t)
	require.Equal(t, latest.Seq, got.Seq)
	require.Equal(t, uint64(5), got.Seq)

	select {
	case s := <-h.sub:
		t.Fatalf("unexpected pending snapshot %d", s.Seq)
	default:
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	h := start(t, testConfig(), nil)

	ch, unsub := h.r.Subscribe()
	<-ch
	unsub()
	unsub()

	h.ticks <- fixedNow
	h.sync(t)

	select {
	case <-ch:
		t.Fatal("delivered after unsubscribe")
	default:
	}
}

type fakeObserver struct {
	mu    sync.Mutex
	ticks int
	ready bool
}

func (f *fakeObserver) TouchTick(time.Time) {
	f.mu.Lock()
	f.ticks++
	f.mu.Unlock()
}

func (f *fakeObserver) SetReady(v bool) {
	f.mu.Lock()
	f.ready = v
	f.mu.Unlock()
}

func TestObserverAndShutdown(t *testing.T) {
	obs := &fakeObserver{}
	h := start(t, testConfig(), obs)

	h.ticks <- fixedNow
	h.sync(t)

	obs.mu.Lock()
	require.Equal(t, 2, obs.ticks)
	require.True(t, obs.ready)
	obs.mu.Unlock()

	h.cancel()
	<-h.r.Done()

	obs.mu.Lock()
	require.False(t, obs.ready)
	obs.mu.Unlock()

	_, err := h.r.OpenPosition(context.Background(), models.OpenPositionRequest{Side: "long", Size: 1, Leverage: 5})
	require.True(t, errors.Is(err, ErrNotRunning))
}

func TestCommandsBeforeStart(t *testing.T) {
	r := New(testConfig(), zap.NewNop(), nil)
	_, ok := r.Latest()
	require.False(t, ok)
	require.Nil(t, r.Positions())

	_, err := r.ClosePosition(context.Background(), "x")
	require.True(t, errors.Is(err, ErrNotRunning))
}

func TestCommandRightAfterStart(t *testing.T) {
	for i := 0; i < 50; i++ {
		r := New(testConfig(), zap.NewNop(), nil)
		ctx, cancel := context.WithCancel(context.Background())
		r.Start(ctx)
		r.Start(ctx)

		pos, err := r.OpenPosition(ctx, models.OpenPositionRequest{Side: "long", Size: 1, Leverage: 10})
		require.NoError(t, err)
		require.NotEmpty(t, pos.ID)

		cancel()
		<-r.Done()

		_, err = r.ClosePosition(context.Background(), pos.ID)
		require.True(t, errors.Is(err, ErrNotRunning))
	}
}
