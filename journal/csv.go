package journal

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"
)

type CSVJournal struct {
	w    *csv.Writer
	file *os.File
}

func NewCSV(path string) (*CSVJournal, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	w := csv.NewWriter(file)
	header := []string{"id", "order_id", "account", "symbol", "side", "quantity",
		"order_type", "status", "filled", "avg_fill_price", "submitted_at", "resolved_at", "note"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return &CSVJournal{w: w, file: file}, nil
}

func (j *CSVJournal) RecordOrder(r OrderRecord) error {
	if r.ID == "" {
		r.ID = NewID()
	}
	err := j.w.Write([]string{
		r.ID,
		strconv.FormatInt(r.OrderID, 10),
		r.Account,
		r.Symbol,
		r.Side,
		strconv.FormatInt(r.Quantity, 10),
		r.OrderType,
		r.Status,
		f(r.Filled),
		f(r.AvgFillPrice),
		r.SubmittedAt.Format(time.RFC3339),
		r.ResolvedAt.Format(time.RFC3339),
		r.Note,
	})
	if err != nil {
		return err
	}
	j.w.Flush()
	return j.w.Error()
}

// ListOrders is not supported by the append-only csv backend.
func (j *CSVJournal) ListOrders(ctx context.Context, symbol string) ([]OrderRecord, error) {
	return nil, fmt.Errorf("journal: csv backend does not support listing")
}

func (j *CSVJournal) Close() error {
	j.w.Flush()
	if err := j.w.Error(); err != nil {
		return err
	}
	return j.file.Close()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
