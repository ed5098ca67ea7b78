package sim

import (
	"time"
	"zyntra/internal/models"
)

const (
	DefaultTapeSize         = 50
	DefaultTradeMinInterval = 2 * time.Second
	DefaultTradeMaxInterval = 5 * time.Second
)

// NewTrade: одна симулированная сделка возле референсной цены.
func NewTrade(id string, ref float64, src Source, now time.Time) models.Trade {
	t := models.Trade{
		ID:     id,
		Price:  ref + (src.Float64()-0.5)*ref*DefaultDriftK,
		Amount: src.Float64() * 0.5,
		Side:   models.TradeSell,
		Time:   now,
	}
	if src.Float64() > 0.5 {
		t.Side = models.TradeBuy
	}
	return t
}

// NextTradeDelay: случайная пауза в [min, max).
func NextTradeDelay(min, max time.Duration, src Source) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(src.Float64()*float64(max-min))
}

// PushTrade кладёт сделку в начало ленты и обрезает её до size.
func PushTrade(tape []models.Trade, t models.Trade, size int) []models.Trade {
	if size <= 0 {
		size = DefaultTapeSize
	}
	n := len(tape) + 1
	if n > size {
		n = size
	}
	out := make([]models.Trade, n)
	out[0] = t
	copy(out[1:], tape)
	return out
}
