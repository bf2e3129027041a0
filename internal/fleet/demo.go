package fleet

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// RunDemo fabricates fixtures so the UI can be exercised when no lights are
// around to connect to. Fixtures appear staggered, as real discoveries
// would, and every snapshot that survives the debounce window is logged
// instead of written to a radio.
func RunDemo(ctx context.Context, registry *Registry, opts Options) error {
	opts = opts.withDefaults()

	delays := []time.Duration{0, 5 * time.Second, 10 * time.Second}
	for i, delay := range delays {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		h := newHandle(uuid.NewString(), fmt.Sprintf("LED %d", i+1), opts.QueueSize)
		registry.Add(h)

		updates := Debounce(ctx, h.updates, opts.DebounceWindow)
		go func(name string) {
			for s := range updates {
				log.Info().
					Str("fixture", name).
					Bool("enabled", s.Enabled).
					Stringer("mode", s.Mode).
					Uint8("hue", s.Hue).
					Uint8("saturation", s.Saturation).
					Uint8("intensity", s.Intensity).
					Int("kelvin", s.Kelvin()).
					Msg("state applied")
			}
		}(h.Name)

		log.Info().Str("fixture", h.Name).Str("id", h.ID).Msg("demo fixture online")
	}

	<-ctx.Done()
	return ctx.Err()
}
