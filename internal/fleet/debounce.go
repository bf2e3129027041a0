package fleet

import (
	"context"
	"time"

	"github.com/chaz8081/ledctl/internal/light"
)

// Debounce coalesces bursts of settings updates, trading latency for BLE
// link bandwidth: a snapshot is forwarded only after window passes with no
// newer one, and intermediate snapshots are dropped (last value wins).
//
// The returned channel closes after in closes (flushing any pending value)
// or when ctx is cancelled.
func Debounce(ctx context.Context, in <-chan light.Settings, window time.Duration) <-chan light.Settings {
	out := make(chan light.Settings)

	go func() {
		defer close(out)

		var (
			pending light.Settings
			have    bool
			timer   *time.Timer
			timerC  <-chan time.Time
		)

		for {
			select {
			case <-ctx.Done():
				return

			case v, ok := <-in:
				if !ok {
					if have {
						select {
						case out <- pending:
						case <-ctx.Done():
						}
					}
					return
				}
				pending, have = v, true
				if timer != nil {
					timer.Stop()
				}
				timer = time.NewTimer(window)
				timerC = timer.C

			case <-timerC:
				timer, timerC = nil, nil
				if !have {
					continue
				}
				have = false
				select {
				case out <- pending:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}
