package notify

import (
	"strings"
	"zyntra/internal/models"
)

type band int

const (
	bandSafe band = iota
	bandWarn
	bandLiquidated
)

// RiskWatcher шлёт одно уведомление при входе позиции в зону у цены ликвидации
// и одно при её пересечении. После выхода из зоны алерт снова взводится.
// Не потокобезопасен: вызывается из одной горутины-подписчика.
type RiskWatcher struct {
	n       Notifier
	warnPct float64
	state   map[string]band
}

func NewRiskWatcher(n Notifier, warnPct float64) *RiskWatcher {
	return &RiskWatcher{n: n, warnPct: warnPct, state: make(map[string]band)}
}

func (w *RiskWatcher) Observe(snap models.Snapshot) {
	alive := make(map[string]bool, len(snap.Positions))
	for _, p := range snap.Positions {
		alive[p.ID] = true
		b := w.classify(p)
		prev := w.state[p.ID]
		w.state[p.ID] = b
		if b <= prev {
			continue
		}
		side := strings.ToUpper(string(p.Side))
		switch b {
		case bandWarn:
			w.n.Sendf("⚠️ [%s] %s %s близко к ликвидации: mark=%.2f liq=%.2f pnl=%.2f%%",
				p.Symbol, side, shortID(p.ID), p.MarkPrice, p.LiquidationPrice, p.UnrealizedPnLPercent)
		case bandLiquidated:
			w.n.Sendf("💥 [%s] %s %s достигла цены ликвидации: mark=%.2f liq=%.2f",
				p.Symbol, side, shortID(p.ID), p.MarkPrice, p.LiquidationPrice)
		}
	}
	for id := range w.state {
		if !alive[id] {
			delete(w.state, id)
		}
	}
}

func (w *RiskWatcher) classify(p models.Position) band {
	liq := p.LiquidationPrice
	if liq <= 0 {
		return bandSafe
	}
	var dist float64
	if p.IsShort() {
		if p.MarkPrice >= liq {
			return bandLiquidated
		}
		dist = (liq - p.MarkPrice) / liq * 100
	} else {
		if p.MarkPrice <= liq {
			return bandLiquidated
		}
		dist = (p.MarkPrice - liq) / liq * 100
	}
	if dist <= w.warnPct {
		return bandWarn
	}
	return bandSafe
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
