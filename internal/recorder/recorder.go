package recorder

import (
	"context"
	"zyntra/internal/models"

	"go.uber.org/zap"
)

// Recorder сэмплирует снапшоты: пишет один из каждых every.
// Пропущенные подписчиком снапшоты тоже считаются, поэтому сравниваем по Seq.
type Recorder struct {
	j     Journal
	every uint64
	log   *zap.Logger

	lastSeq uint64
}

func New(j Journal, every int, log *zap.Logger) *Recorder {
	if every <= 0 {
		every = 1
	}
	return &Recorder{j: j, every: uint64(every), log: log}
}

func (r *Recorder) Observe(ctx context.Context, snap models.Snapshot) {
	if r.lastSeq != 0 && snap.Seq-r.lastSeq < r.every {
		return
	}
	r.lastSeq = snap.Seq
	if err := r.j.RecordTick(ctx, TickRowFrom(snap)); err != nil {
		r.log.Warn("[RECORDER] tick not recorded", zap.Uint64("seq", snap.Seq), zap.Error(err))
	}
}

// Run читает снапшоты до закрытия ctx.
func (r *Recorder) Run(ctx context.Context, snaps <-chan models.Snapshot) {
	for {
		select {
		case <-ctx.Done():
			return
		case snap := <-snaps:
			r.Observe(ctx, snap)
		}
	}
}
