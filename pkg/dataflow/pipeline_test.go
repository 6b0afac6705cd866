package dataflow_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/locvowork/employee_records/pkg/dataflow"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type row struct {
	ID   string
	Name string
}

func TestPipeline(t *testing.T) {
	ctx := context.Background()

	lines := []string{"1,Alice", "2,Bob", "retry,Charlie", "broken"}
	source := dataflow.Generate(ctx, len(lines), func(i int) string { return lines[i] })

	var dropped int32
	parsed := dataflow.Map(ctx, source, func(s string) (row, error) {
		parts := strings.Split(s, ",")
		if len(parts) != 2 {
			return row{}, fmt.Errorf("invalid format %q", s)
		}
		return row{ID: parts[0], Name: parts[1]}, nil
	}, dataflow.WithWorkers(2), dataflow.WithErrorHandler(func(error) bool {
		atomic.AddInt32(&dropped, 1)
		return true
	}))

	var attempts int32
	saved := dataflow.Map(ctx, parsed, func(r row) (row, error) {
		if r.ID == "retry" && atomic.AddInt32(&attempts, 1) < 3 {
			return row{}, errors.New("transient error")
		}
		return r, nil
	}, dataflow.WithRetry(3, func(int) time.Duration { return time.Millisecond }))

	var mu sync.Mutex
	var ids []string
	err := dataflow.ForEach(ctx, saved, func(r row) error {
		mu.Lock()
		defer mu.Unlock()
		ids = append(ids, r.ID)
		return nil
	})
	require.NoError(t, err)

	sort.Strings(ids)
	assert.Equal(t, []string{"1", "2", "retry"}, ids)
	assert.Equal(t, int32(1), atomic.LoadInt32(&dropped))
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
}

func TestGenerateKeepsOrder(t *testing.T) {
	ctx := context.Background()

	squares := dataflow.Generate(ctx, 5, func(i int) int { return i * i })

	var got []int
	require.NoError(t, dataflow.ForEach(ctx, squares, func(i int) error {
		got = append(got, i)
		return nil
	}))
	assert.Equal(t, []int{0, 1, 4, 9, 16}, got)
}

func TestMapDropsHandledErrors(t *testing.T) {
	ctx := context.Background()

	halves := dataflow.Map(ctx, dataflow.Generate(ctx, 6, func(i int) int { return i }), func(i int) (int, error) {
		if i%2 != 0 {
			return 0, errors.New("odd")
		}
		return i / 2, nil
	}, dataflow.WithWorkers(3))

	var mu sync.Mutex
	var got []int
	require.NoError(t, dataflow.ForEach(ctx, halves, func(i int) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, i)
		return nil
	}))
	sort.Ints(got)
	assert.Equal(t, []int{0, 1, 2}, got)
}

func TestForEachReturnsFirstUnhandledError(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	var seen int32
	err := dataflow.ForEach(ctx, dataflow.Generate(ctx, 3, func(i int) int { return i + 1 }), func(i int) error {
		atomic.AddInt32(&seen, 1)
		if i == 2 {
			return boom
		}
		return nil
	}, dataflow.WithWorkers(3))

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int32(3), atomic.LoadInt32(&seen))
}

func TestForEachStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	stream := dataflow.Generate(ctx, 1000, func(i int) int { return i })
	err := dataflow.ForEach(ctx, stream, func(i int) error {
		if i == 10 {
			cancel()
		}
		return nil
	}, dataflow.WithWorkers(4))

	assert.ErrorIs(t, err, context.Canceled)
}
