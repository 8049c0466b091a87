//nolint:ireturn
package audit

import (
	"context"
	"sync"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/pkg/errors"
)

// Record is the durable audit trail entry written for every successful
// withdrawal (the LiquidityRemoved event).
type Record struct {
	ID         string
	Caller     string
	PositionID string
	Liquidity  string
	Amount0    string
	Amount1    string
	Recipient  string
	TxHash     null.String
	CreatedAt  time.Time
}

// Filter narrows List results. Zero values match everything.
type Filter struct {
	Caller     string
	PositionID string
	Limit      int
	Offset     int
}

const defaultListLimit = 20

// Recorder persists withdrawal audit records.
type Recorder interface {
	Record(ctx context.Context, record *Record) error
	List(ctx context.Context, filter Filter) ([]*Record, error)
}

// memoryRecorder keeps records in process memory, newest first. Used in
// tests and when the service runs without a database.
type memoryRecorder struct {
	mu      sync.RWMutex
	records []*Record
}

// NewMemoryRecorder returns an in-memory Recorder.
func NewMemoryRecorder() Recorder {
	return &memoryRecorder{}
}

func (r *memoryRecorder) Record(_ context.Context, record *Record) error {
	if record == nil {
		return errors.New("record must not be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *record
	r.records = append([]*Record{&stored}, r.records...)
	return nil
}

func (r *memoryRecorder) List(_ context.Context, filter Filter) ([]*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	matched := make([]*Record, 0, limit)
	skipped := 0
	for _, record := range r.records {
		if filter.Caller != "" && record.Caller != filter.Caller {
			continue
		}
		if filter.PositionID != "" && record.PositionID != filter.PositionID {
			continue
		}
		if skipped < filter.Offset {
			skipped++
			continue
		}
		stored := *record
		matched = append(matched, &stored)
		if len(matched) >= limit {
			break
		}
	}

	return matched, nil
}
