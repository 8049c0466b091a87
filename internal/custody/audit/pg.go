//nolint:ireturn
package audit

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
)

// pgRecorder persists records in the withdrawals table.
type pgRecorder struct {
	db *sql.DB
}

// NewPGRecorder returns a Postgres-backed Recorder.
func NewPGRecorder(db *sql.DB) Recorder {
	return &pgRecorder{db: db}
}

func (r *pgRecorder) Record(ctx context.Context, record *Record) error {
	if record == nil {
		return errors.New("record must not be nil")
	}

	const query = `
		INSERT INTO withdrawals
			(id, caller, position_id, liquidity, amount0, amount1, recipient, tx_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	if _, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.Caller,
		record.PositionID,
		record.Liquidity,
		record.Amount0,
		record.Amount1,
		record.Recipient,
		record.TxHash,
		record.CreatedAt,
	); err != nil {
		return errors.Wrap(err, "failed to insert withdrawal record")
	}

	return nil
}

func (r *pgRecorder) List(ctx context.Context, filter Filter) ([]*Record, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	const query = `
		SELECT id, caller, position_id, liquidity, amount0, amount1, recipient, tx_hash, created_at
		FROM withdrawals
		WHERE ($1 = '' OR caller = $1)
		  AND ($2 = '' OR position_id = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`

	rows, err := r.db.QueryContext(ctx, query, filter.Caller, filter.PositionID, limit, filter.Offset)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query withdrawal records")
	}
	defer func() { _ = rows.Close() }()

	var records []*Record
	for rows.Next() {
		record := new(Record)
		if err := rows.Scan(
			&record.ID,
			&record.Caller,
			&record.PositionID,
			&record.Liquidity,
			&record.Amount0,
			&record.Amount1,
			&record.Recipient,
			&record.TxHash,
			&record.CreatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan withdrawal record")
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate withdrawal records")
	}

	return records, nil
}
