package models

import (
	"strings"
	"time"
)

type Side string

const (
	SideLong  Side = "long"
	SideShort Side = "short"
)

// ParseSide принимает long/short и биржевые buy/sell.
func ParseSide(raw string) (Side, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "long", "buy":
		return SideLong, true
	case "short", "sell":
		return SideShort, true
	default:
		return "", false
	}
}

// Sign: +1 для long, -1 для short.
func (s Side) Sign() float64 {
	if s == SideShort {
		return -1
	}
	return 1
}

type Position struct {
	ID                   string    `json:"id"`
	Symbol               string    `json:"symbol"`
	Side                 Side      `json:"side"`
	Size                 float64   `json:"size"`
	EntryPrice           float64   `json:"entryPrice"`
	MarkPrice            float64   `json:"markPrice"`
	LiquidationPrice     float64   `json:"liquidationPrice"` // 0 = не оценена
	Leverage             int       `json:"leverage"`
	Margin               float64   `json:"margin"`
	UnrealizedPnL        float64   `json:"unrealizedPnL"`
	UnrealizedPnLPercent float64   `json:"unrealizedPnLPercent"`
	MarginRatio          float64   `json:"marginRatio"` // задаётся снаружи, не вычисляется
	OpenedAt             time.Time `json:"openedAt"`
}

func (p *Position) IsLong() bool  { return p.Side == SideLong }
func (p *Position) IsShort() bool { return p.Side == SideShort }

// OpenPositionRequest: команда на открытие симулированной позиции.
type OpenPositionRequest struct {
	Symbol      string  `json:"symbol"`
	Side        Side    `json:"side"`
	Size        float64 `json:"size"`
	EntryPrice  float64 `json:"entryPrice"` // 0 = по текущей цене
	Leverage    int     `json:"leverage"`
	MarginRatio float64 `json:"marginRatio"`
}
