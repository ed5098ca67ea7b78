package helper

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// NormSymbol: "btc", "BTC-USDT", "btcusdt" -> "BTC".
func NormSymbol(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, "/", "")
	if len(s) > len("USDT") {
		s = strings.TrimSuffix(s, "USDT")
	}
	return s
}

// ChartSymbol: символ для встраиваемого виджета графика.
func ChartSymbol(symbol string) string {
	return "BINANCE:" + NormSymbol(symbol) + "USDT"
}

// RoundDownToTick / RoundUpToTick считают в decimal: цена ровно на тике остаётся на месте
// при любом масштабе цены.
func RoundDownToTick(px, tick float64) float64 {
	if tick <= 0 {
		return px
	}
	t := decimal.NewFromFloat(tick)
	return decimal.NewFromFloat(px).Div(t).Floor().Mul(t).InexactFloat64()
}

func RoundUpToTick(px, tick float64) float64 {
	if tick <= 0 {
		return px
	}
	t := decimal.NewFromFloat(tick)
	return decimal.NewFromFloat(px).Div(t).Ceil().Mul(t).InexactFloat64()
}

// SplitCountdown раскладывает длительность на часы/минуты/секунды для таймера фандинга.
func SplitCountdown(d time.Duration) (hours, minutes, seconds int) {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return total / 3600, (total % 3600) / 60, total % 60
}
