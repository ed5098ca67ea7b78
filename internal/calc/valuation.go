package calc

import "zyntra/internal/models"

// UnrealizedPnL = (mark-entry)*size, для short знак обратный.
func UnrealizedPnL(side models.Side, entry, mark, size float64) float64 {
	return (mark - entry) * size * side.Sign()
}

// UnrealizedPnLPercent: процент к марже с учётом плеча. Без округления и клампа,
// при большом плече легко выходит за ±100%. entry == 0 даёт 0.
func UnrealizedPnLPercent(side models.Side, entry, mark float64, leverage int) float64 {
	if entry == 0 {
		return 0
	}
	return ((mark - entry) / entry) * 100 * side.Sign() * float64(leverage)
}

// Revalue возвращает копию позиции, пересчитанную по новой марк-цене.
// MarginRatio не трогаем: он приходит снаружи.
func Revalue(p models.Position, mark float64) models.Position {
	p.MarkPrice = mark
	p.UnrealizedPnL = UnrealizedPnL(p.Side, p.EntryPrice, mark, p.Size)
	p.UnrealizedPnLPercent = UnrealizedPnLPercent(p.Side, p.EntryPrice, mark, p.Leverage)
	return p
}

func RevalueAll(positions []models.Position, mark float64) []models.Position {
	out := make([]models.Position, len(positions))
	for i, p := range positions {
		out[i] = Revalue(p, mark)
	}
	return out
}

// InitialMargin: маржа под позицию: notional / leverage.
func InitialMargin(entry, size float64, leverage int) (float64, error) {
	if leverage <= 0 {
		return 0, ErrInvalidLeverage
	}
	return entry * size / float64(leverage), nil
}
