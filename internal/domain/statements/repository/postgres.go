package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool the repository needs; pgxmock satisfies
// it in tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// PostgresBatchWriter implements BatchWriter using PostgreSQL.
type PostgresBatchWriter struct {
	db DB
}

func NewPostgresBatchWriter(db DB) *PostgresBatchWriter {
	return &PostgresBatchWriter{db: db}
}

var transactionColumns = []string{
	"batch_id", "user_id", "occurred_on", "description", "amount", "direction",
}

// WriteBatch inserts the batch row and bulk-copies its transactions.
func (w *PostgresBatchWriter) WriteBatch(ctx context.Context, batch *Batch) error {
	query := `
		INSERT INTO statement_batches (id, user_id, filename, source, provider, upload_id, received_at, transaction_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := w.db.Exec(ctx, query,
		batch.ID,
		batch.UserID,
		batch.Filename,
		batch.Source,
		batch.Provider,
		batch.UploadID,
		batch.ReceivedAt,
		len(batch.Transactions),
	)
	if err != nil {
		return fmt.Errorf("failed to insert statement batch: %w", err)
	}

	rows := make([][]any, 0, len(batch.Transactions))
	for _, tx := range batch.Transactions {
		rows = append(rows, []any{
			batch.ID,
			batch.UserID,
			tx.Date,
			tx.Description,
			tx.Amount,
			string(tx.Direction),
		})
	}

	copied, err := w.db.CopyFrom(ctx,
		pgx.Identifier{"statement_transactions"},
		transactionColumns,
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("failed to copy statement transactions: %w", err)
	}
	if copied != int64(len(rows)) {
		return fmt.Errorf("expected to copy %d transactions, copied %d", len(rows), copied)
	}
	return nil
}
