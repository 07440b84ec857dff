package journal

import (
	"context"
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		return nil, err
	}

	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordOrder(r OrderRecord) error {
	if r.ID == "" {
		r.ID = NewID()
	}
	_, err := j.db.Exec(`
		INSERT INTO orders
		(id, order_id, account, symbol, side, quantity, order_type, status, filled, avg_fill_price, submitted_at, resolved_at, note)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.OrderID, r.Account, r.Symbol, r.Side, r.Quantity, r.OrderType,
		r.Status, r.Filled, r.AvgFillPrice, r.SubmittedAt, r.ResolvedAt, r.Note,
	)
	return err
}

// ListOrders returns records sorted by id, i.e. submission order. An
// empty symbol lists everything.
func (j *SQLiteJournal) ListOrders(ctx context.Context, symbol string) ([]OrderRecord, error) {
	query := `
		SELECT id, order_id, account, symbol, side, quantity, order_type, status, filled, avg_fill_price, submitted_at, resolved_at, note
		FROM orders`
	args := []any{}
	if symbol != "" {
		query += ` WHERE symbol = ?`
		args = append(args, symbol)
	}
	query += ` ORDER BY id`

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OrderRecord
	for rows.Next() {
		var r OrderRecord
		err := rows.Scan(&r.ID, &r.OrderID, &r.Account, &r.Symbol, &r.Side, &r.Quantity,
			&r.OrderType, &r.Status, &r.Filled, &r.AvgFillPrice, &r.SubmittedAt, &r.ResolvedAt, &r.Note)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
