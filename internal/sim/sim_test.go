package sim

import (
	"testing"
	"time"
	"zyntra/internal/models"

	"github.com/stretchr/testify/require"
)

func TestDrift(t *testing.T) {
	require.InDelta(t, 1000.25, Drift(1000, 0.001, NewSequenceSource(0.75)), 1e-9)
	require.InDelta(t, 1000.0, Drift(1000, 0.001, NewSequenceSource(0.5)), 1e-9)

	w := NewPriceWalk(1000, 0.001, NewSequenceSource(0.5, 1.0, 0.0))
	require.InDelta(t, 1000.0, w.Next(), 1e-9)
	require.InDelta(t, 1000.5, w.Next(), 1e-9)
	require.InDelta(t, 999.99975, w.Next(), 1e-9)
	require.InDelta(t, 999.99975, w.Current(), 1e-9)
}

func TestPriceWalkStaysPositive(t *testing.T) {
	w := NewPriceWalk(0.0001, 0, NewSource(7))
	for i := 0; i < 10000; i++ {
		require.Greater(t, w.Next(), 0.0)
	}
}

func TestGenerateBookExactLevels(t *testing.T) {
	book := GenerateBook(100, DefaultBookConfig(), NewSequenceSource(0.5))

	require.Len(t, book.Asks, DefaultDepth)
	require.Len(t, book.Bids, DefaultDepth)

	require.InDelta(t, 100.76, book.Asks[0].Price, 1e-9)
	require.InDelta(t, 100.06, book.Asks[DefaultDepth-1].Price, 1e-9)
	require.InDelta(t, 99.94, book.Bids[0].Price, 1e-9)
	require.InDelta(t, 99.24, book.Bids[DefaultDepth-1].Price, 1e-9)

	lvl := book.Asks[0]
	require.InDelta(t, 1.1, lvl.Amount, 1e-9)
	require.InDelta(t, lvl.Price*lvl.Amount, lvl.Total, 1e-9)
	require.InDelta(t, 50.0, lvl.DepthPercent, 1e-9)

	ask, ok := book.BestAsk()
	require.True(t, ok)
	require.InDelta(t, 100.06, ask.Price, 1e-9)
	bid, ok := book.BestBid()
	require.True(t, ok)
	require.InDelta(t, 99.94, bid.Price, 1e-9)
}

func TestGenerateBookInvariants(t *testing.T) {
	src := NewSource(42)
	cfg := DefaultBookConfig()
	price := 45234.5

	for tick := 0; tick < 200; tick++ {
		price = Drift(price, DefaultDriftK, src)
		book := GenerateBook(price, cfg, src)

		for i, lvl := range book.Asks {
			require.Greater(t, lvl.Price, price)
			checkLevel(t, lvl)
			if i > 0 {
				require.Less(t, lvl.Price, book.Asks[i-1].Price)
			}
		}
		for i, lvl := range book.Bids {
			require.Less(t, lvl.Price, price)
			checkLevel(t, lvl)
			if i > 0 {
				require.Less(t, lvl.Price, book.Bids[i-1].Price)
			}
		}
	}
}

func checkLevel(t *testing.T, lvl models.OrderBookLevel) {
	t.Helper()
	require.GreaterOrEqual(t, lvl.Amount, 0.1)
	require.Less(t, lvl.Amount, 2.1)
	require.GreaterOrEqual(t, lvl.DepthPercent, 0.0)
	require.Less(t, lvl.DepthPercent, 100.0)
	require.InDelta(t, lvl.Price*lvl.Amount, lvl.Total, 1e-6)
}

func TestGenerateBookDeterministic(t *testing.T) {
	a := GenerateBook(64250, DefaultBookConfig(), NewSource(99))
	b := GenerateBook(64250, DefaultBookConfig(), NewSource(99))
	require.Equal(t, a, b)
}

func TestGenerateBookFallbacks(t *testing.T) {
	empty := GenerateBook(0, DefaultBookConfig(), NewSource(1))
	require.Empty(t, empty.Asks)
	require.Empty(t, empty.Bids)

	_, ok := empty.BestAsk()
	require.False(t, ok)

	empty = GenerateBook(100, BookConfig{}, NewSource(1))
	require.Empty(t, empty.Asks)
}

func TestBookConfigValidate(t *testing.T) {
	require.NoError(t, DefaultBookConfig().Validate())

	err := BookConfig{Depth: 15, Step: 0.0005, Jitter: 0.0005}.Validate()
	require.ErrorIs(t, err, ErrJitterTooWide)

	require.Error(t, BookConfig{Depth: 0, Step: 0.0005}.Validate())
	require.Error(t, BookConfig{Depth: 5, Step: 0}.Validate())
}

func TestDepthSeries(t *testing.T) {
	pts := DepthSeries(100, DefaultDepthPoints, DefaultDepthRange, NewSequenceSource(0))
	require.Len(t, pts, 2*DefaultDepthPoints+1)

	require.InDelta(t, 98.0, pts[0].Price, 1e-9)
	require.InDelta(t, 10.0, pts[0].BidVolume, 1e-9)
	require.Zero(t, pts[0].AskVolume)

	require.InDelta(t, 100.0, pts[DefaultDepthPoints].Price, 1e-9)
	require.Greater(t, pts[DefaultDepthPoints].BidVolume, pts[0].BidVolume)

	last := pts[len(pts)-1]
	require.InDelta(t, 102.0, last.Price, 1e-9)
	require.Zero(t, last.BidVolume)
	require.Greater(t, last.AskVolume, 0.0)

	require.Nil(t, DepthSeries(0, 10, 0.02, NewSource(1)))
}

func TestTape(t *testing.T) {
	now := time.Unix(1700000000, 0)
	tr := NewTrade("t1", 45000, NewSequenceSource(0.5, 0.2, 0.9), now)
	require.InDelta(t, 45000.0, tr.Price, 1e-9)
	require.InDelta(t, 0.1, tr.Amount, 1e-9)
	require.Equal(t, models.TradeBuy, tr.Side)
	require.Equal(t, now, tr.Time)

	var tape []models.Trade
	for i := 0; i < 60; i++ {
		tape = PushTrade(tape, models.Trade{ID: string(rune('a' + i%26))}, 50)
	}
	require.Len(t, tape, 50)
	require.Equal(t, string(rune('a'+59%26)), tape[0].ID)

	require.Equal(t, 2*time.Second, NextTradeDelay(2*time.Second, 5*time.Second, NewSequenceSource(0)))
	require.Equal(t, 3500*time.Millisecond, NextTradeDelay(2*time.Second, 5*time.Second, NewSequenceSource(0.5)))
	require.Equal(t, 2*time.Second, NextTradeDelay(2*time.Second, time.Second, NewSequenceSource(0.5)))
}

func TestFunding(t *testing.T) {
	hist := FundingHistory(NewSource(3))
	require.Len(t, hist, 24)
	require.Equal(t, 23, hist[0].HoursAgo)
	require.Equal(t, 0, hist[23].HoursAgo)
	for _, p := range hist {
		require.GreaterOrEqual(t, p.Rate, 0.0)
		require.Less(t, p.Rate, 0.02)
	}

	c := NewFundingClock(time.Second)
	require.Equal(t, time.Duration(0), c.Tick(time.Second))
	require.Equal(t, FundingCycle-time.Second, c.Tick(time.Second))

	require.Equal(t, FundingCycle-time.Second, NewFundingClock(0).Remaining())
}
