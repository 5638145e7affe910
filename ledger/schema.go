// ledger/schema.go
package ledger

const Schema = `
CREATE TABLE IF NOT EXISTS ledger (
	id TEXT PRIMARY KEY,
	date DATETIME NOT NULL,
	pair TEXT NOT NULL,
	direction TEXT NOT NULL,
	entry_price REAL NOT NULL,
	sl REAL NOT NULL,
	tp REAL NOT NULL,
	atr REAL NOT NULL,
	sl_multiplier REAL NOT NULL,
	tp_multiplier REAL NOT NULL,
	ema_fast REAL NOT NULL,
	ema_slow REAL NOT NULL,
	rsi REAL NOT NULL,
	pattern TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_ledger_pair ON ledger(pair);
`
