package async

import (
	"context"
	"time"
)

// Batch groups items received from ch into slices of at most size items. A
// partial batch is flushed when no item arrived for timeout and when ch is
// closed. The returned channel is closed once ch is closed or ctx is done.
func Batch[T any](ctx context.Context, ch <-chan T, size int, timeout time.Duration) <-chan []T {
	batches := make(chan []T, 1)

	go func() {
		timer := time.NewTimer(timeout)

		defer func() {
			timer.Stop()
			close(batches)
		}()

		buffer := make([]T, 0, size)

		flush := func() bool {
			if len(buffer) == 0 {
				return true
			}

			select {
			case batches <- buffer:
			case <-ctx.Done():
				return false
			}
			buffer = make([]T, 0, size)
			return true
		}

		for {
			select {
			case <-ctx.Done():
				if len(buffer) > 0 {
					select {
					case batches <- buffer:
					default:
					}
				}
				return

			case <-timer.C:
				if !flush() {
					return
				}
				timer.Reset(timeout)

			case item, ok := <-ch:
				if !ok {
					flush()
					return
				}
				buffer = append(buffer, item)

				if len(buffer) >= size {
					if !flush() {
						return
					}
				}

				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(timeout)
			}
		}
	}()

	return batches
}
