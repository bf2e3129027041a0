package fleet

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/chaz8081/ledctl/internal/ble"
)

// Manager ties discovery and sessions together: it consumes connected
// sessions from the scanner, registers a handle for each fixture, and spawns
// the session goroutine fed by that handle's debounced queue.
type Manager struct {
	scanner  *Scanner
	registry *Registry
	opts     Options
}

func NewManager(adapter ble.Adapter, registry *Registry, opts Options) *Manager {
	opts = opts.withDefaults()
	return &Manager{
		scanner:  NewScanner(adapter, opts),
		registry: registry,
		opts:     opts,
	}
}

// Run blocks until ctx is cancelled or discovery fails fatally. Individual
// session failures stop only that fixture's session; the device silently
// stops receiving updates until it is rediscovered.
func (m *Manager) Run(ctx context.Context) error {
	sessions := make(chan *Session)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return m.scanner.Run(ctx, sessions)
	})

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case sess := <-sessions:
				m.spawn(ctx, sess)
				log.Info().Int("fixtures", m.registry.Len()).Msg("fixture registered")
			}
		}
	})

	return g.Wait()
}

func (m *Manager) spawn(ctx context.Context, sess *Session) {
	name := "New LED"
	if addr := sess.Addr(); addr != "unknown" {
		name = addr
	}

	h := newHandle(sess.ID(), name, m.opts.QueueSize)
	m.registry.Add(h)

	updates := Debounce(ctx, h.updates, m.opts.DebounceWindow)

	go func() {
		err := sess.Run(ctx, updates)
		if err != nil && !errors.Is(err, context.Canceled) {
			sess.log.Error().Err(err).Msg("session ended")
			return
		}
		sess.log.Info().Msg("session closed")
	}()
}
