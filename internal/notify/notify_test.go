package notify

import (
	"fmt"
	"testing"
	"zyntra/internal/models"

	"github.com/stretchr/testify/require"
)

type recorder struct {
	msgs []string
}

func (r *recorder) Send(msg string)                  { r.msgs = append(r.msgs, msg) }
func (r *recorder) Sendf(format string, args ...any) { r.Send(fmt.Sprintf(format, args...)) }

func snapWith(mark float64, positions ...models.Position) models.Snapshot {
	for i := range positions {
		positions[i].MarkPrice = mark
	}
	return models.Snapshot{Symbol: "BTC", Price: mark, Positions: positions}
}

func TestRiskWatcherLong(t *testing.T) {
	r := &recorder{}
	w := NewRiskWatcher(r, 2)
	pos := models.Position{ID: "long-1", Symbol: "BTC", Side: models.SideLong, LiquidationPrice: 100}

	w.Observe(snapWith(110, pos))
	require.Empty(t, r.msgs)

	w.Observe(snapWith(101.5, pos))
	require.Len(t, r.msgs, 1)
	require.Contains(t, r.msgs[0], "близко к ликвидации")

	// повторно в той же зоне: тишина
	w.Observe(snapWith(101, pos))
	require.Len(t, r.msgs, 1)

	w.Observe(snapWith(99, pos))
	require.Len(t, r.msgs, 2)
	require.Contains(t, r.msgs[1], "ликвидации")

	// выход из зоны и повторный вход: снова алерт
	w.Observe(snapWith(120, pos))
	w.Observe(snapWith(101, pos))
	require.Len(t, r.msgs, 3)
}

func TestRiskWatcherShortAndUnknown(t *testing.T) {
	r := &recorder{}
	w := NewRiskWatcher(r, 2)
	short := models.Position{ID: "short-1", Symbol: "ETH", Side: models.SideShort, LiquidationPrice: 100}
	noLiq := models.Position{ID: "short-2", Symbol: "ETH", Side: models.SideShort}

	w.Observe(snapWith(99, short, noLiq))
	require.Len(t, r.msgs, 1)

	w.Observe(snapWith(100, short, noLiq))
	require.Len(t, r.msgs, 2)

	// закрытая позиция забывается
	w.Observe(snapWith(100))
	require.Empty(t, w.state)
}

func TestFormat(t *testing.T) {
	snap := models.Snapshot{
		Symbol: "BTC",
		Price:  45000,
		Book: models.OrderBook{
			Asks: []models.OrderBookLevel{{Price: 45030}, {Price: 45010}},
			Bids: []models.OrderBookLevel{{Price: 44990}, {Price: 44970}},
		},
	}
	require.Equal(t, "💹 BTC/USDT 45000.00 | bid 44990.00 | ask 45010.00", FormatPrice(snap))
	require.Equal(t, "📭 Открытых позиций нет", FormatPositions(snap))

	snap.Positions = []models.Position{{Symbol: "BTC", Side: models.SideLong, Size: 1, EntryPrice: 44000, MarkPrice: 45000, Leverage: 10, UnrealizedPnL: 1000}}
	out := FormatPositions(snap)
	require.Contains(t, out, "[LONG]")
	require.Contains(t, out, "Total PnL: 1000.00")
}
