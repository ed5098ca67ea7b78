package api

import (
	"fmt"
	"net/http"
	"zyntra/internal/helper"
	"zyntra/internal/models"
	"zyntra/internal/sim"

	"github.com/gin-gonic/gin"
)

type fundingView struct {
	Rate      float64               `json:"rate"`
	NextInSec int64                 `json:"nextInSec"`
	Countdown string                `json:"countdown"`
	History   []models.FundingPoint `json:"history"`
}

type marketView struct {
	Seq       uint64            `json:"seq"`
	Symbol    string            `json:"symbol"`
	Price     float64           `json:"price"`
	Book      models.OrderBook  `json:"book"`
	Trades    []models.Trade    `json:"trades"`
	Positions []models.Position `json:"positions"`
	TotalPnL  float64           `json:"totalPnl"`
	Funding   fundingView       `json:"funding"`
	At        int64             `json:"at"`
}

// MarketView: снапшот в том виде, в каком его видят клиенты API и фида.
func MarketView(snap models.Snapshot) any {
	h, m, s := helper.SplitCountdown(snap.Funding.NextIn)
	return marketView{
		Seq:       snap.Seq,
		Symbol:    snap.Symbol,
		Price:     snap.Price,
		Book:      snap.Book,
		Trades:    snap.Trades,
		Positions: snap.Positions,
		TotalPnL:  snap.TotalUnrealizedPnL(),
		Funding: fundingView{
			Rate:      snap.Funding.Rate,
			NextInSec: int64(snap.Funding.NextIn.Seconds()),
			Countdown: fmt.Sprintf("%02d:%02d:%02d", h, m, s),
			History:   snap.Funding.History,
		},
		At: snap.At.UnixMilli(),
	}
}

func (h *Handler) latest(c *gin.Context) (models.Snapshot, bool) {
	snap, ok := h.market.Latest()
	if !ok {
		writeError(c, http.StatusServiceUnavailable, errNotStarted)
	}
	return snap, ok
}

func (h *Handler) getMarket(c *gin.Context) {
	snap, ok := h.latest(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, MarketView(snap))
}

// GET /market/book?grouping=0.1
func (h *Handler) getBook(c *gin.Context) {
	grouping := c.DefaultQuery("grouping", "0.01")
	tick, ok := groupings[grouping]
	if !ok {
		writeError(c, http.StatusBadRequest, errBadGrouping)
		return
	}
	snap, ok := h.latest(c)
	if !ok {
		return
	}
	book := GroupBook(snap.Book, tick.InexactFloat64())
	c.JSON(http.StatusOK, NewBookView(snap.Symbol, book, grouping))
}

func (h *Handler) getDepth(c *gin.Context) {
	snap, ok := h.latest(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"symbol": snap.Symbol,
		"price":  snap.Price,
		"points": sim.DepthSeries(snap.Price, sim.DefaultDepthPoints, sim.DefaultDepthRange, h.depthSrc),
	})
}

func (h *Handler) getChart(c *gin.Context) {
	symbol := h.settings.Symbol
	if q := c.Query("symbol"); q != "" {
		symbol = q
	}
	c.JSON(http.StatusOK, gin.H{
		"symbol":   helper.ChartSymbol(symbol),
		"interval": h.settings.ChartInterval,
		"theme":    h.settings.ChartTheme,
	})
}

func (h *Handler) getCoins(c *gin.Context) {
	if q := c.Query("symbol"); q != "" {
		coin, err := h.catalog.Coin(q)
		if err != nil {
			writeDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, coin)
		return
	}
	c.JSON(http.StatusOK, h.catalog.Coins())
}
