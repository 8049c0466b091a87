package audit_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github/chapool/lp-custody/internal/custody/audit"
)

func seedRecords(t *testing.T, recorder audit.Recorder, count int) {
	t.Helper()

	ctx := context.Background()
	for i := 0; i < count; i++ {
		caller := "0xaaa"
		if i%2 == 1 {
			caller = "0xbbb"
		}
		require.NoError(t, recorder.Record(ctx, &audit.Record{
			ID:         fmt.Sprintf("record-%d", i),
			Caller:     caller,
			PositionID: fmt.Sprintf("%d", i%3),
			Liquidity:  "100",
			Amount0:    "10",
			Amount1:    "20",
			Recipient:  "0xccc",
			CreatedAt:  time.Now(),
		}))
	}
}

func TestMemoryRecorderListNewestFirst(t *testing.T) {
	recorder := audit.NewMemoryRecorder()
	seedRecords(t, recorder, 5)

	records, err := recorder.List(context.Background(), audit.Filter{})
	require.NoError(t, err)
	require.Len(t, records, 5)

	assert.Equal(t, "record-4", records[0].ID)
	assert.Equal(t, "record-0", records[4].ID)
}

func TestMemoryRecorderFilters(t *testing.T) {
	recorder := audit.NewMemoryRecorder()
	seedRecords(t, recorder, 6)

	records, err := recorder.List(context.Background(), audit.Filter{Caller: "0xbbb"})
	require.NoError(t, err)
	require.Len(t, records, 3)
	for _, record := range records {
		assert.Equal(t, "0xbbb", record.Caller)
	}

	records, err = recorder.List(context.Background(), audit.Filter{PositionID: "1"})
	require.NoError(t, err)
	require.Len(t, records, 2)
}

func TestMemoryRecorderPagination(t *testing.T) {
	recorder := audit.NewMemoryRecorder()
	seedRecords(t, recorder, 30)

	records, err := recorder.List(context.Background(), audit.Filter{})
	require.NoError(t, err)
	assert.Len(t, records, 20)

	records, err = recorder.List(context.Background(), audit.Filter{Limit: 10, Offset: 25})
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, "record-4", records[0].ID)
}

func TestMemoryRecorderCopiesRecords(t *testing.T) {
	recorder := audit.NewMemoryRecorder()
	ctx := context.Background()

	original := &audit.Record{ID: "a", Caller: "0xaaa"}
	require.NoError(t, recorder.Record(ctx, original))

	original.Caller = "mutated"

	records, err := recorder.List(ctx, audit.Filter{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "0xaaa", records[0].Caller)
}

func TestMemoryRecorderRejectsNil(t *testing.T) {
	recorder := audit.NewMemoryRecorder()
	require.Error(t, recorder.Record(context.Background(), nil))
}
