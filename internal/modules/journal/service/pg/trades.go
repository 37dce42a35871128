package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"inside_value_bot/internal/models"
	"inside_value_bot/pkg/db"
)

// TradeLog — журнал сделок в Postgres. Файловый журнал остаётся основным,
// таблица нужна для истории между днями.
//
// Схема:
//
//	CREATE TABLE trade_events (
//	    id        BIGSERIAL PRIMARY KEY,
//	    symbol    TEXT        NOT NULL,
//	    strategy  TEXT        NOT NULL,
//	    kind      TEXT        NOT NULL,
//	    order_id  TEXT        NOT NULL,
//	    price     NUMERIC     NOT NULL,
//	    quantity  INT         NOT NULL,
//	    at        TIMESTAMPTZ NOT NULL
//	);
type TradeLog struct {
	txm *db.PgTxManager
}

// NewTradeLog принимает nil-менеджер: тогда запись — no-op.
func NewTradeLog(txm *db.PgTxManager) *TradeLog {
	return &TradeLog{txm: txm}
}

func (l *TradeLog) Enabled() bool { return l != nil && l.txm != nil }

func (l *TradeLog) Record(ctx context.Context, ev models.TradeEvent) (err error) {
	if !l.Enabled() {
		return nil
	}

	defer func() {
		if err != nil {
			err = fmt.Errorf("TradeLog.Record: %w", err)
		}
	}()

	if ev.At.IsZero() {
		ev.At = time.Now()
	}

	return l.txm.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctxTx,
			`INSERT INTO trade_events (symbol, strategy, kind, order_id, price, quantity, at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			ev.Symbol, string(ev.Strategy), ev.Kind, ev.OrderID, ev.Price, ev.Quantity, ev.At,
		)
		return err
	})
}

// ListDay — события за торговый день, в порядке записи.
func (l *TradeLog) ListDay(ctx context.Context, day time.Time) (out []models.TradeEvent, err error) {
	if !l.Enabled() {
		return nil, nil
	}

	defer func() {
		if err != nil {
			err = fmt.Errorf("TradeLog.ListDay: %w", err)
		}
	}()

	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	to := from.AddDate(0, 0, 1)

	err = l.txm.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		rows, err := tx.Query(ctxTx,
			`SELECT symbol, strategy, kind, order_id, price, quantity, at
			   FROM trade_events
			  WHERE at >= $1 AND at < $2
			  ORDER BY id`,
			from, to,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var ev models.TradeEvent
			var strategy string
			if err := rows.Scan(&ev.Symbol, &strategy, &ev.Kind, &ev.OrderID, &ev.Price, &ev.Quantity, &ev.At); err != nil {
				return err
			}
			ev.Strategy = models.Direction(strategy)
			out = append(out, ev)
		}
		return rows.Err()
	})
	return out, err
}
