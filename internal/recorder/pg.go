package recorder

import (
	"context"
	"zyntra/pkg/db"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
)

const (
	schemaSQL = `
CREATE TABLE IF NOT EXISTS market_ticks (
	id          BIGSERIAL PRIMARY KEY,
	seq         BIGINT           NOT NULL,
	symbol      TEXT             NOT NULL,
	price       DOUBLE PRECISION NOT NULL,
	best_bid    DOUBLE PRECISION NOT NULL,
	best_ask    DOUBLE PRECISION NOT NULL,
	positions   INTEGER          NOT NULL,
	total_pnl   DOUBLE PRECISION NOT NULL,
	recorded_at TIMESTAMPTZ      NOT NULL
);
CREATE TABLE IF NOT EXISTS stakes (
	id          UUID PRIMARY KEY,
	plan_id     TEXT             NOT NULL,
	principal   DOUBLE PRECISION NOT NULL,
	compound    BOOLEAN          NOT NULL,
	projection  JSONB            NOT NULL,
	confirmed_at TIMESTAMPTZ     NOT NULL
);`

	insertTickSQL = `INSERT INTO market_ticks
	(seq, symbol, price, best_bid, best_ask, positions, total_pnl, recorded_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	insertStakeSQL = `INSERT INTO stakes
	(id, plan_id, principal, compound, projection, confirmed_at)
	VALUES ($1, $2, $3, $4, $5, $6)`
)

// PgJournal пишет журнал в postgres через tx-менеджер.
type PgJournal struct {
	tx db.TxManager
}

var _ Journal = (*PgJournal)(nil)

func NewPgJournal(tx db.TxManager) *PgJournal {
	return &PgJournal{tx: tx}
}

func (j *PgJournal) EnsureSchema(ctx context.Context) error {
	if _, err := j.tx.Conn().Exec(ctx, schemaSQL); err != nil {
		return errors.Wrap(err, "PgJournal.EnsureSchema")
	}
	return nil
}

func (j *PgJournal) RecordTick(ctx context.Context, row TickRow) (err error) {
	defer func() {
		if err != nil {
			err = errors.Wrap(err, "PgJournal.RecordTick")
		}
	}()
	_, err = j.tx.Conn().Exec(ctx, insertTickSQL,
		int64(row.Seq), row.Symbol, row.Price, row.BestBid, row.BestAsk,
		row.Positions, row.TotalPnL, row.At)
	return err
}

func (j *PgJournal) RecordStake(ctx context.Context, row StakeRow) (err error) {
	defer func() {
		if err != nil {
			err = errors.Wrap(err, "PgJournal.RecordStake")
		}
	}()

	var data []byte
	data, err = sonic.Marshal(row.Projection)
	if err != nil {
		return err
	}
	return j.tx.RunMaster(ctx, func(ctxTx context.Context, tx db.Transaction) error {
		_, err := tx.Exec(ctxTx, insertStakeSQL,
			row.ID, row.PlanID, row.Principal, row.Compound, data, row.At)
		return err
	})
}
