package api

import (
	"net/http"
	"zyntra/internal/calc"
	"zyntra/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

type marginPayload struct {
	Amount float64 `json:"amount"`
}

type leveragePayload struct {
	EntryPrice float64 `json:"entryPrice"` // 0 = текущая цена
	Margin     float64 `json:"margin"`
	Leverage   int     `json:"leverage"`
}

func (h *Handler) listPositions(c *gin.Context) {
	positions := h.market.Positions()
	if positions == nil {
		positions = []models.Position{}
	}
	var total float64
	for _, p := range positions {
		total += p.UnrealizedPnL
	}
	c.JSON(http.StatusOK, gin.H{"positions": positions, "totalPnl": total})
}

func (h *Handler) openPosition(c *gin.Context) {
	var req models.OpenPositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	pos, err := h.market.OpenPosition(c.Request.Context(), req)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, pos)
}

func (h *Handler) closePosition(c *gin.Context) {
	pos, err := h.market.ClosePosition(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, pos)
}

func (h *Handler) addMargin(c *gin.Context) {
	var payload marginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	pos, err := h.market.AddMargin(c.Request.Context(), c.Param("id"), payload.Amount)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, pos)
}

// POST /leverage/quote: цена ликвидации, риск и максимальный размер для слайдера плеча.
func (h *Handler) quoteLeverage(c *gin.Context) {
	var payload leveragePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	entry := payload.EntryPrice
	if entry == 0 {
		snap, ok := h.latest(c)
		if !ok {
			return
		}
		entry = snap.Price
	}
	if payload.Margin < 0 {
		writeDomainError(c, errors.Wrap(calc.ErrInvalidInput, "margin must not be negative"))
		return
	}
	quote, err := calc.QuoteLeverage(entry, payload.Margin, payload.Leverage)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}
