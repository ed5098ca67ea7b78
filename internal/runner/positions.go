package runner

import (
	"context"
	"zyntra/internal/calc"
	"zyntra/internal/helper"
	"zyntra/internal/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// OpenPosition открывает симулированную позицию по текущей (или заданной) цене входа.
func (r *Runner) OpenPosition(ctx context.Context, req models.OpenPositionRequest) (models.Position, error) {
	side, ok := models.ParseSide(string(req.Side))
	if !ok {
		return models.Position{}, errors.Wrapf(calc.ErrInvalidInput, "side %q", req.Side)
	}
	if req.Size <= 0 || req.EntryPrice < 0 {
		return models.Position{}, errors.Wrap(calc.ErrInvalidInput, "size must be positive")
	}
	if err := r.checkLeverage(req.Leverage); err != nil {
		return models.Position{}, err
	}
	symbol := helper.NormSymbol(req.Symbol)
	if symbol == "" {
		symbol = r.cfg.Symbol
	}

	pos, err := r.submit(ctx, func(st *state) (models.Position, error) {
		mark := st.walk.Current()
		entry := req.EntryPrice
		if entry == 0 {
			entry = mark
		}

		var liq float64
		if side == models.SideLong {
			v, err := calc.EstimateLiquidation(side, entry, req.Leverage)
			if err != nil {
				return models.Position{}, err
			}
			liq = v
		}
		margin, err := calc.InitialMargin(entry, req.Size, req.Leverage)
		if err != nil {
			return models.Position{}, err
		}

		p := calc.Revalue(models.Position{
			ID:               uuid.NewString(),
			Symbol:           symbol,
			Side:             side,
			Size:             req.Size,
			EntryPrice:       entry,
			LiquidationPrice: liq,
			Leverage:         req.Leverage,
			Margin:           margin,
			MarginRatio:      req.MarginRatio,
			OpenedAt:         r.now(),
		}, mark)
		st.positions = append(st.positions, p)
		return p, nil
	})
	if err != nil {
		return models.Position{}, err
	}

	r.log.Info("[RUNNER] position opened",
		zap.String("id", pos.ID),
		zap.String("side", string(pos.Side)),
		zap.Float64("size", pos.Size),
		zap.Float64("entry", pos.EntryPrice),
		zap.Int("lev", pos.Leverage),
	)
	return pos, nil
}

// ClosePosition убирает позицию и возвращает её последнее состояние.
func (r *Runner) ClosePosition(ctx context.Context, id string) (models.Position, error) {
	pos, err := r.submit(ctx, func(st *state) (models.Position, error) {
		for i, p := range st.positions {
			if p.ID != id {
				continue
			}
			st.positions = append(st.positions[:i:i], st.positions[i+1:]...)
			return p, nil
		}
		return models.Position{}, errors.Wrapf(ErrUnknownPosition, "id %s", id)
	})
	if err != nil {
		return models.Position{}, err
	}
	r.log.Info("[RUNNER] position closed", zap.String("id", id), zap.Float64("pnl", pos.UnrealizedPnL))
	return pos, nil
}

// AddMargin докидывает маржу в позицию. Цена ликвидации считается от плеча и не меняется.
func (r *Runner) AddMargin(ctx context.Context, id string, amount float64) (models.Position, error) {
	if amount <= 0 {
		return models.Position{}, errors.Wrap(calc.ErrInvalidInput, "margin amount must be positive")
	}
	return r.submit(ctx, func(st *state) (models.Position, error) {
		for i := range st.positions {
			if st.positions[i].ID != id {
				continue
			}
			st.positions[i].Margin += amount
			return st.positions[i], nil
		}
		return models.Position{}, errors.Wrapf(ErrUnknownPosition, "id %s", id)
	})
}

// Positions: открытые позиции из последнего снапшота.
func (r *Runner) Positions() []models.Position {
	snap, ok := r.Latest()
	if !ok {
		return nil
	}
	return snap.Positions
}

func (r *Runner) checkLeverage(lev int) error {
	min, max := r.cfg.LeverageMin, r.cfg.LeverageMax
	if min <= 0 {
		min = 1
	}
	if lev < min || (max > 0 && lev > max) {
		return errors.Wrapf(calc.ErrInvalidLeverage, "leverage %d out of [%d, %d]", lev, min, max)
	}
	return nil
}
