// Package journal records submitted orders and their terminal status.
package journal

import (
	"context"
	"time"
)

// OrderRecord is one submitted order and its resolution.
type OrderRecord struct {
	ID           string // ULID, time-sortable
	OrderID      int64
	Account      string
	Symbol       string
	Side         string
	Quantity     int64
	OrderType    string
	Status       string
	Filled       float64
	AvgFillPrice float64
	SubmittedAt  time.Time
	ResolvedAt   time.Time
	Note         string
}

type Journal interface {
	RecordOrder(OrderRecord) error
	ListOrders(ctx context.Context, symbol string) ([]OrderRecord, error)
	Close() error
}
