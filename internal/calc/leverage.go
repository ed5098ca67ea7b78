package calc

import (
	"zyntra/internal/models"

	"github.com/pkg/errors"
)

const (
	// доля маржи, после потери которой позиция считается ликвидированной
	liquidationMarginShare = 0.9
	// тейкер-комиссия из фьючерсного демо
	TakerFeeRate = 0.0002
)

// LiquidationPrice: упрощённая формула для long: entry*(1-0.9/leverage).
// Для целого плеча >= 1 результат лежит в [0.1*entry, entry), поэтому кламп к нулю не нужен.
func LiquidationPrice(entry float64, leverage int) (float64, error) {
	if leverage <= 0 {
		return 0, errors.Wrapf(ErrInvalidLeverage, "leverage=%d", leverage)
	}
	return entry * (1 - liquidationMarginShare/float64(leverage)), nil
}

// EstimateLiquidation: то же с учётом стороны. Формула для short не определена,
// симметрию не выдумываем.
func EstimateLiquidation(side models.Side, entry float64, leverage int) (float64, error) {
	if side == models.SideShort {
		return 0, ErrShortLiquidationUnsupported
	}
	return LiquidationPrice(entry, leverage)
}

type RiskLevel string

const (
	RiskLow     RiskLevel = "Low Risk"
	RiskMedium  RiskLevel = "Medium Risk"
	RiskHigh    RiskLevel = "High Risk"
	RiskExtreme RiskLevel = "Extreme Risk"
)

// LeverageRisk: подпись риска для плеча и флаг предупреждения.
func LeverageRisk(leverage int) (RiskLevel, bool) {
	switch {
	case leverage <= 10:
		return RiskLow, false
	case leverage <= 25:
		return RiskMedium, false
	case leverage <= 50:
		return RiskHigh, true
	default:
		return RiskExtreme, true
	}
}

// MaxPositionSize: сколько базового актива можно открыть на баланс с плечом.
func MaxPositionSize(balance float64, leverage int, price float64) (float64, error) {
	if leverage <= 0 {
		return 0, ErrInvalidLeverage
	}
	if price <= 0 {
		return 0, errors.Wrap(ErrInvalidInput, "price must be positive")
	}
	return balance * float64(leverage) / price, nil
}

// PositionNotional = collateral*leverage.
func PositionNotional(collateral float64, leverage int) float64 {
	return collateral * float64(leverage)
}

func OpeningFee(notional float64) float64 {
	return notional * TakerFeeRate
}

// LeverageQuote: всё, что показывает слайдер плеча.
type LeverageQuote struct {
	Leverage         int       `json:"leverage"`
	EntryPrice       float64   `json:"entryPrice"`
	Margin           float64   `json:"margin"`
	LiquidationPrice float64   `json:"liquidationPrice"`
	Risk             RiskLevel `json:"risk"`
	Warning          bool      `json:"warning"`
	PositionSize     float64   `json:"positionSize"` // в базовом активе
	Notional         float64   `json:"notional"`
	Fee              float64   `json:"fee"`
}

func QuoteLeverage(entry, margin float64, leverage int) (LeverageQuote, error) {
	liq, err := LiquidationPrice(entry, leverage)
	if err != nil {
		return LeverageQuote{}, err
	}
	size, err := MaxPositionSize(margin, leverage, entry)
	if err != nil {
		return LeverageQuote{}, err
	}
	risk, warn := LeverageRisk(leverage)
	notional := PositionNotional(margin, leverage)
	return LeverageQuote{
		Leverage:         leverage,
		EntryPrice:       entry,
		Margin:           margin,
		LiquidationPrice: liq,
		Risk:             risk,
		Warning:          warn,
		PositionSize:     size,
		Notional:         notional,
		Fee:              OpeningFee(notional),
	}, nil
}
