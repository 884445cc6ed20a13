package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

// SQLExecutor is satisfied by both *sql.DB and *sql.Tx, so repository methods
// can run standalone or inside a caller-owned transaction.
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func checkAffectedRows(result sql.Result, notFoundError error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return notFoundError
	}
	return nil
}

// int64Array converts an []int for an INTEGER[] column parameter.
func int64Array(values []int) pq.Int64Array {
	arr := make(pq.Int64Array, len(values))
	for i, v := range values {
		arr[i] = int64(v)
	}
	return arr
}

func intSlice(arr pq.Int64Array) []int {
	if len(arr) == 0 {
		return nil
	}
	values := make([]int, len(arr))
	for i, v := range arr {
		values[i] = int(v)
	}
	return values
}
