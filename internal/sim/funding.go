package sim

import (
	"time"
	"zyntra/internal/models"
)

const (
	FundingCycle       = 8 * time.Hour
	DefaultFundingRate = 0.01 // %
	fundingHistoryLen  = 24
)

// FundingHistory: ставки за последние 24 часа, от старых к свежим.
func FundingHistory(src Source) []models.FundingPoint {
	out := make([]models.FundingPoint, 0, fundingHistoryLen)
	for i := fundingHistoryLen - 1; i >= 0; i-- {
		out = append(out, models.FundingPoint{
			HoursAgo: i,
			Rate:     DefaultFundingRate + (src.Float64()-0.5)*0.02,
		})
	}
	return out
}

// FundingClock: обратный отсчёт до следующего фандинга. После нуля
// начинается новый 8-часовой цикл.
type FundingClock struct {
	remaining time.Duration
}

func NewFundingClock(remaining time.Duration) *FundingClock {
	if remaining <= 0 || remaining > FundingCycle {
		remaining = FundingCycle - time.Second
	}
	return &FundingClock{remaining: remaining}
}

func (c *FundingClock) Remaining() time.Duration { return c.remaining }

func (c *FundingClock) Tick(d time.Duration) time.Duration {
	c.remaining -= d
	if c.remaining < 0 {
		c.remaining = FundingCycle - time.Second
	}
	return c.remaining
}
