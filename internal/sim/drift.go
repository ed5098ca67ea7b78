package sim

// DefaultDriftK: доля цены, на которую цена может уйти за тик (±k/2).
const DefaultDriftK = 0.001

// Drift: p' = p + (r-0.5)*p*k. Ноль и отрицательные цены не отсекаются:
// при p > 0 и k < 2 результат остаётся положительным.
func Drift(p, k float64, src Source) float64 {
	return p + (src.Float64()-0.5)*p*k
}

// PriceWalk: бесконечная последовательность цен, перезапуска нет.
type PriceWalk struct {
	price float64
	k     float64
	src   Source
}

func NewPriceWalk(start, k float64, src Source) *PriceWalk {
	if k <= 0 {
		k = DefaultDriftK
	}
	return &PriceWalk{price: start, k: k, src: src}
}

func (w *PriceWalk) Current() float64 { return w.price }

func (w *PriceWalk) Next() float64 {
	w.price = Drift(w.price, w.k, w.src)
	return w.price
}
