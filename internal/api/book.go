package api

import (
	"zyntra/internal/helper"
	"zyntra/internal/models"

	"github.com/shopspring/decimal"
)

var groupings = map[string]decimal.Decimal{
	"0.01": decimal.RequireFromString("0.01"),
	"0.1":  decimal.RequireFromString("0.1"),
	"1":    decimal.RequireFromString("1"),
	"10":   decimal.RequireFromString("10"),
}

type BookRow struct {
	Price        string  `json:"price"`
	Amount       string  `json:"amount"`
	Total        string  `json:"total"`
	DepthPercent float64 `json:"depth"`
}

type BookView struct {
	Symbol    string    `json:"symbol"`
	RefPrice  string    `json:"refPrice"`
	Grouping  string    `json:"grouping"`
	Spread    string    `json:"spread"`
	SpreadPct string    `json:"spreadPct"`
	Asks      []BookRow `json:"asks"`
	Bids      []BookRow `json:"bids"`
}

// GroupBook склеивает уровни по шагу цены: аски округляются вверх, биды вниз,
// чтобы сгруппированная цена не заходила за спред.
func GroupBook(book models.OrderBook, tick float64) models.OrderBook {
	return models.OrderBook{
		RefPrice: book.RefPrice,
		Asks:     mergeLevels(book.Asks, tick, helper.RoundUpToTick),
		Bids:     mergeLevels(book.Bids, tick, helper.RoundDownToTick),
	}
}

func mergeLevels(levels []models.OrderBookLevel, tick float64, round func(px, tick float64) float64) []models.OrderBookLevel {
	out := make([]models.OrderBookLevel, 0, len(levels))
	for _, l := range levels {
		px := round(l.Price, tick)
		// уровни отсортированы, одинаковые цены идут подряд
		if n := len(out); n > 0 && out[n-1].Price == px {
			last := &out[n-1]
			last.Amount += l.Amount
			last.Total += l.Total
			if l.DepthPercent > last.DepthPercent {
				last.DepthPercent = l.DepthPercent
			}
			continue
		}
		l.Price = px
		out = append(out, l)
	}
	return out
}

func formatLevel(l models.OrderBookLevel) BookRow {
	return BookRow{
		Price:        decimal.NewFromFloat(l.Price).StringFixed(2),
		Amount:       decimal.NewFromFloat(l.Amount).StringFixed(4),
		Total:        decimal.NewFromFloat(l.Total).StringFixed(2),
		DepthPercent: l.DepthPercent,
	}
}

func formatRows(levels []models.OrderBookLevel) []BookRow {
	rows := make([]BookRow, len(levels))
	for i, l := range levels {
		rows[i] = formatLevel(l)
	}
	return rows
}

func NewBookView(symbol string, book models.OrderBook, grouping string) BookView {
	view := BookView{
		Symbol:    symbol,
		RefPrice:  decimal.NewFromFloat(book.RefPrice).StringFixed(2),
		Grouping:  grouping,
		Spread:    "0.00",
		SpreadPct: "0.000",
		Asks:      formatRows(book.Asks),
		Bids:      formatRows(book.Bids),
	}
	ask, okA := book.BestAsk()
	bid, okB := book.BestBid()
	if okA && okB {
		spread := decimal.NewFromFloat(ask.Price).Sub(decimal.NewFromFloat(bid.Price))
		view.Spread = spread.StringFixed(2)
		if book.RefPrice > 0 {
			view.SpreadPct = spread.Div(decimal.NewFromFloat(book.RefPrice)).Mul(decimal.NewFromInt(100)).StringFixed(3)
		}
	}
	return view
}
