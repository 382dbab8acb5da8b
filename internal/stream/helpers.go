package stream

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLRowScanner scans the current row of rows into a T.
type SQLRowScanner[T any] func(rows *sql.Rows) (T, error)

// ReadRows scans every row through scanner and closes rows before
// returning, so no connection is held while the items are written out.
// It stops early when ctx is cancelled.
func ReadRows[T any](ctx context.Context, rows *sql.Rows, scanner SQLRowScanner[T]) ([]T, error) {
	defer rows.Close()

	items := make([]T, 0, 64)
	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		item, err := scanner(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	if err := rows.Close(); err != nil {
		return nil, fmt.Errorf("failed to close rows: %w", err)
	}
	return items, nil
}

// SliceFetcher streams an in-memory slice.
func SliceFetcher[T any](items []T) DataFetcher[T] {
	return func(ctx context.Context) (<-chan T, <-chan error) {
		dataChan := make(chan T, 10)
		errChan := make(chan error, 1)

		go func() {
			defer close(dataChan)
			defer close(errChan)

			for _, item := range items {
				select {
				case dataChan <- item:
				case <-ctx.Done():
					return
				}
			}
		}()

		return dataChan, errChan
	}
}

// PassThroughTransformer returns items unchanged.
func PassThroughTransformer[T any]() Transformer[T] {
	return func(item T) (interface{}, error) {
		return item, nil
	}
}
