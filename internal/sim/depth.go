package sim

import (
	"math"
	"zyntra/internal/models"
)

const (
	DefaultDepthPoints = 50
	DefaultDepthRange  = 0.02
)

// DepthSeries: данные для графика глубины: points+1 точек бидов (от дальней к цене)
// и points точек асков. Объём растёт от цены как k^1.5.
func DepthSeries(p float64, points int, rangePct float64, src Source) []models.DepthPoint {
	if p <= 0 || points <= 0 {
		return nil
	}
	spread := p * rangePct
	out := make([]models.DepthPoint, 0, 2*points+1)

	for i := points; i >= 0; i-- {
		out = append(out, models.DepthPoint{
			Price:     p - spread*float64(i)/float64(points),
			BidVolume: math.Pow(float64(points-i+1), 1.5) * (10 + src.Float64()*5),
		})
	}
	for i := 1; i <= points; i++ {
		out = append(out, models.DepthPoint{
			Price:     p + spread*float64(i)/float64(points),
			AskVolume: math.Pow(float64(i+1), 1.5) * (10 + src.Float64()*5),
		})
	}
	return out
}
