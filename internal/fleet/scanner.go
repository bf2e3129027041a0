package fleet

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/chaz8081/ledctl/internal/ble"
)

// Scanner discovers compatible fixtures and hands out connected sessions.
// Discovery never terminates on its own; it runs until ctx is cancelled.
type Scanner struct {
	adapter ble.Adapter
	opts    Options

	// seen is keyed by transport id, not hardware address: the address may
	// still be unknown when a fixture is first discovered. A fixture stays
	// in the set even if its setup attempt fails.
	seen map[string]struct{}
}

// NewScanner creates a scanner over the given adapter.
func NewScanner(adapter ble.Adapter, opts Options) *Scanner {
	return &Scanner{
		adapter: adapter,
		opts:    opts.withDefaults(),
		seen:    make(map[string]struct{}),
	}
}

// Run enables the adapter, starts the background scan, and polls the visible
// peripheral set, yielding a ready session on out for every new fixture.
// Per-fixture setup failures are logged and skipped; Run itself returns only
// when ctx is cancelled or the adapter cannot start.
func (s *Scanner) Run(ctx context.Context, out chan<- *Session) error {
	if err := s.adapter.Enable(); err != nil {
		return fmt.Errorf("fleet: enable adapter: %w", err)
	}
	if err := s.adapter.StartScan(ctx); err != nil {
		return fmt.Errorf("fleet: start scan: %w", err)
	}

	ticker := time.NewTicker(s.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		for _, p := range s.adapter.Peripherals() {
			if p.LocalName() != s.opts.DeviceName {
				continue
			}
			if _, ok := s.seen[p.ID()]; ok {
				continue
			}
			s.seen[p.ID()] = struct{}{}

			sess, err := s.setup(p)
			if err != nil {
				log.Error().Err(err).Str("peripheral", p.ID()).Msg("fixture setup failed")
				continue
			}

			select {
			case out <- sess:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// setup connects a peripheral and resolves its control characteristic.
func (s *Scanner) setup(p ble.Peripheral) (*Session, error) {
	if err := p.Connect(); err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	char, err := p.ControlCharacteristic(s.opts.ServiceUUID)
	if err != nil {
		return nil, fmt.Errorf("resolve control characteristic: %w", err)
	}

	sess := NewSession(p, char, s.opts)
	sess.resolveAddr()

	log.Info().
		Str("peripheral", p.ID()).
		Str("addr", sess.Addr()).
		Msg("fixture connected")

	return sess, nil
}
