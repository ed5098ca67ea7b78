package models

import "time"

// OrderBookLevel: одна строка стакана. DepthPercent чисто косметический,
// это не накопленный объём.
type OrderBookLevel struct {
	Price        float64 `json:"price"`
	Amount       float64 `json:"amount"`
	Total        float64 `json:"total"`
	DepthPercent float64 `json:"depthPercent"`
}

// OrderBook хранит обе стороны в порядке отображения: asks от дальних к спреду,
// bids от спреда к дальним. Обе стороны убывают по цене.
type OrderBook struct {
	RefPrice float64          `json:"refPrice"`
	Asks     []OrderBookLevel `json:"asks"`
	Bids     []OrderBookLevel `json:"bids"`
}

func (b OrderBook) BestAsk() (OrderBookLevel, bool) {
	if len(b.Asks) == 0 {
		return OrderBookLevel{}, false
	}
	return b.Asks[len(b.Asks)-1], true
}

func (b OrderBook) BestBid() (OrderBookLevel, bool) {
	if len(b.Bids) == 0 {
		return OrderBookLevel{}, false
	}
	return b.Bids[0], true
}

type TradeSide string

const (
	TradeBuy  TradeSide = "buy"
	TradeSell TradeSide = "sell"
)

type Trade struct {
	ID     string    `json:"id"`
	Price  float64   `json:"price"`
	Amount float64   `json:"amount"`
	Side   TradeSide `json:"side"`
	Time   time.Time `json:"time"`
}

type FundingPoint struct {
	HoursAgo int     `json:"hoursAgo"`
	Rate     float64 `json:"rate"` // в процентах
}

type Funding struct {
	Rate    float64        `json:"rate"`
	NextIn  time.Duration  `json:"nextIn"`
	History []FundingPoint `json:"history"`
}

type DepthPoint struct {
	Price     float64 `json:"price"`
	BidVolume float64 `json:"bidVolume"`
	AskVolume float64 `json:"askVolume"`
}

// Snapshot: неизменяемый срез состояния симуляции, который раннер отдаёт наружу.
type Snapshot struct {
	Seq       uint64     `json:"seq"`
	Symbol    string     `json:"symbol"`
	Price     float64    `json:"price"`
	Book      OrderBook  `json:"book"`
	Positions []Position `json:"positions"`
	Trades    []Trade    `json:"trades"`
	Funding   Funding    `json:"funding"`
	At        time.Time  `json:"at"`
}

// TotalUnrealizedPnL: сумма по всем открытым позициям.
func (s Snapshot) TotalUnrealizedPnL() float64 {
	var sum float64
	for _, p := range s.Positions {
		sum += p.UnrealizedPnL
	}
	return sum
}
