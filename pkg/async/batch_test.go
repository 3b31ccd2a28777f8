package async_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"amiverse/pkg/async"
)

func TestBatch(t *testing.T) {
	t.Parallel()

	t.Run("flushes full batches and the rest on close", func(t *testing.T) {
		t.Parallel()

		ch := make(chan int)
		batches := async.Batch(t.Context(), ch, 2, time.Hour)

		go func() {
			for i := range 5 {
				ch <- i
			}
			close(ch)
		}()

		var got [][]int
		for batch := range batches {
			got = append(got, batch)
		}
		require.Equal(t, [][]int{{0, 1}, {2, 3}, {4}}, got)
	})

	t.Run("flushes after timeout", func(t *testing.T) {
		t.Parallel()

		ch := make(chan int)
		batches := async.Batch(t.Context(), ch, 100, 10*time.Millisecond)

		ch <- 1
		ch <- 2

		select {
		case batch := <-batches:
			require.Equal(t, []int{1, 2}, batch)
		case <-time.After(time.Second):
			t.Fatal("batch was not flushed")
		}
	})

	t.Run("closes on cancel", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(t.Context())
		batches := async.Batch(ctx, make(chan int), 10, time.Hour)
		cancel()

		require.Eventually(t, func() bool {
			select {
			case _, ok := <-batches:
				return !ok
			default:
				return false
			}
		}, time.Second, time.Millisecond)
	})
}
