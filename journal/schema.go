package journal

const Schema = `
CREATE TABLE IF NOT EXISTS orders (
	id TEXT PRIMARY KEY,
	order_id INTEGER NOT NULL,
	account TEXT NOT NULL,
	symbol TEXT NOT NULL,
	side TEXT NOT NULL,
	quantity INTEGER NOT NULL,
	order_type TEXT NOT NULL,
	status TEXT NOT NULL,
	filled REAL NOT NULL,
	avg_fill_price REAL NOT NULL,
	submitted_at DATETIME NOT NULL,
	resolved_at DATETIME NOT NULL,
	note TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_orders_symbol ON orders(symbol);
CREATE INDEX IF NOT EXISTS idx_orders_submitted_at ON orders(submitted_at);
`
