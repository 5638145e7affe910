package ledger

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/rustyeddy/tradeplan/market"
	"github.com/rustyeddy/tradeplan/pkg/id"
	"github.com/rustyeddy/tradeplan/trade"
)

// SQLiteStore keeps the ledger in a SQLite table. Rows are keyed by ULID,
// so ordering by id is insertion order.
type SQLiteStore struct {
	db  *sql.DB
	log zerolog.Logger
}

func NewSQLite(path string, log zerolog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteStore{
		db:  db,
		log: log.With().Str("component", "ledger").Str("db", path).Logger(),
	}, nil
}

func (s *SQLiteStore) Append(ctx context.Context, e Entry) error {
	if !e.Finite() {
		return ErrNonFinite
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ledger
		(id, date, pair, direction, entry_price, sl, tp, atr, sl_multiplier, tp_multiplier, ema_fast, ema_slow, rsi, pattern)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id.New(), e.Date.UTC(), string(e.Pair), string(e.Direction), e.EntryPrice,
		e.SL, e.TP, e.ATR, e.SLMultiplier, e.TPMultiplier,
		e.EMAFast, e.EMASlow, e.RSI, string(e.Pattern),
	)
	if err != nil {
		return fmt.Errorf("insert ledger entry: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT date, pair, direction, entry_price, sl, tp, atr, sl_multiplier, tp_multiplier, ema_fast, ema_slow, rsi, pattern
		FROM ledger
		ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e                  Entry
			pair, dir, pattern string
		)
		if err := rows.Scan(
			&e.Date,
			&pair,
			&dir,
			&e.EntryPrice,
			&e.SL,
			&e.TP,
			&e.ATR,
			&e.SLMultiplier,
			&e.TPMultiplier,
			&e.EMAFast,
			&e.EMASlow,
			&e.RSI,
			&pattern,
		); err != nil {
			return nil, err
		}
		e.Date = e.Date.UTC()
		e.Pair = market.Instrument(pair)
		e.Direction = trade.Direction(dir)
		e.Pattern = trade.Pattern(pattern)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
