package recorder

import (
	"context"
	"time"
	"zyntra/internal/models"
)

// TickRow: выборка из снапшота, которая уходит в журнал.
type TickRow struct {
	Seq       uint64
	Symbol    string
	Price     float64
	BestBid   float64
	BestAsk   float64
	Positions int
	TotalPnL  float64
	At        time.Time
}

func TickRowFrom(snap models.Snapshot) TickRow {
	row := TickRow{
		Seq:       snap.Seq,
		Symbol:    snap.Symbol,
		Price:     snap.Price,
		Positions: len(snap.Positions),
		TotalPnL:  snap.TotalUnrealizedPnL(),
		At:        snap.At,
	}
	if bid, ok := snap.Book.BestBid(); ok {
		row.BestBid = bid.Price
	}
	if ask, ok := snap.Book.BestAsk(); ok {
		row.BestAsk = ask.Price
	}
	return row
}

// StakeRow: подтверждённый симулированный стейк.
type StakeRow struct {
	ID         string
	PlanID     string
	Principal  float64
	Compound   bool
	Projection models.Projection
	At         time.Time
}

type Journal interface {
	RecordTick(ctx context.Context, row TickRow) error
	RecordStake(ctx context.Context, row StakeRow) error
}

// Nop: журнал по умолчанию, когда postgres не настроен.
type Nop struct{}

func (Nop) RecordTick(context.Context, TickRow) error   { return nil }
func (Nop) RecordStake(context.Context, StakeRow) error { return nil }
