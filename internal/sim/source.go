package sim

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Source: источник псевдослучайных чисел в [0,1). Инжектится везде, где нужен джиттер,
// чтобы тесты могли проверять точные последовательности.
type Source interface {
	Float64() float64
}

// NewSource: при seed == 0 сид от текущего времени.
func NewSource(seed uint64) Source {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// SequenceSource отдаёт заданные значения по кругу.
type SequenceSource struct {
	mu   sync.Mutex
	vals []float64
	i    int
}

func NewSequenceSource(vals ...float64) *SequenceSource {
	if len(vals) == 0 {
		vals = []float64{0.5}
	}
	return &SequenceSource{vals: vals}
}

func (s *SequenceSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}

// LockedSource: обёртка для источника, который дёргают из нескольких горутин (HTTP-хендлеры).
type LockedSource struct {
	mu  sync.Mutex
	src Source
}

func NewLockedSource(src Source) *LockedSource { return &LockedSource{src: src} }

func (l *LockedSource) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Float64()
}
