package sim

import (
	"zyntra/internal/models"

	"github.com/pkg/errors"
)

const (
	DefaultDepth      = 15
	DefaultSpreadStep = 0.0005
	DefaultJitter     = 0.0002
)

var ErrJitterTooWide = errors.New("jitter must be below spread step")

type BookConfig struct {
	Depth  int     // уровней на сторону
	Step   float64 // шаг между уровнями, доля цены
	Jitter float64 // максимальный случайный сдвиг уровня, доля цены
}

func DefaultBookConfig() BookConfig {
	return BookConfig{Depth: DefaultDepth, Step: DefaultSpreadStep, Jitter: DefaultJitter}
}

// Validate: пока jitter < step, asks строго выше цены, bids строго ниже,
// а уровни внутри стороны монотонны.
func (c BookConfig) Validate() error {
	if c.Depth <= 0 {
		return errors.Errorf("depth must be positive, got %d", c.Depth)
	}
	if c.Step <= 0 {
		return errors.Errorf("spread step must be positive, got %v", c.Step)
	}
	if c.Jitter < 0 || c.Jitter >= c.Step {
		return errors.Wrapf(ErrJitterTooWide, "jitter=%v step=%v", c.Jitter, c.Step)
	}
	return nil
}

// GenerateBook строит стакан заново вокруг p. Никакой преемственности между тиками нет.
// При p <= 0 или пустой глубине: пустой стакан.
func GenerateBook(p float64, cfg BookConfig, src Source) models.OrderBook {
	book := models.OrderBook{RefPrice: p}
	if p <= 0 || cfg.Depth <= 0 {
		return book
	}

	book.Asks = make([]models.OrderBookLevel, 0, cfg.Depth)
	for i := cfg.Depth - 1; i >= 0; i-- {
		price := p + float64(i+1)*p*cfg.Step + src.Float64()*p*cfg.Jitter
		book.Asks = append(book.Asks, newLevel(price, src))
	}

	book.Bids = make([]models.OrderBookLevel, 0, cfg.Depth)
	for i := 0; i < cfg.Depth; i++ {
		price := p - float64(i+1)*p*cfg.Step - src.Float64()*p*cfg.Jitter
		book.Bids = append(book.Bids, newLevel(price, src))
	}
	return book
}

func newLevel(price float64, src Source) models.OrderBookLevel {
	amount := src.Float64()*2 + 0.1
	return models.OrderBookLevel{
		Price:        price,
		Amount:       amount,
		Total:        price * amount,
		DepthPercent: src.Float64() * 100,
	}
}
