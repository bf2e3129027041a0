package fleet

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/chaz8081/ledctl/internal/ble"
	"github.com/chaz8081/ledctl/internal/light"
	"github.com/chaz8081/ledctl/internal/protocol"
)

// Session owns the connection to one fixture: the peripheral, the control
// characteristic resolved at discovery time, and the last settings written
// to the device. A session is only constructed already connected.
type Session struct {
	peripheral ble.Peripheral
	char       ble.Characteristic
	opts       Options
	log        zerolog.Logger

	// mu protects addr, which transitions from nil (unknown) to a resolved
	// address at most once.
	mu   sync.Mutex
	addr net.HardwareAddr
}

// NewSession wraps an already connected peripheral.
func NewSession(peripheral ble.Peripheral, char ble.Characteristic, opts Options) *Session {
	return &Session{
		peripheral: peripheral,
		char:       char,
		opts:       opts.withDefaults(),
		log:        log.With().Str("peripheral", peripheral.ID()).Logger(),
	}
}

// ID returns the fixture's transport identifier.
func (s *Session) ID() string { return s.peripheral.ID() }

// Addr returns the fixture's hardware address, or "unknown" while it has not
// been recovered from advertisement data.
func (s *Session) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.addr == nil {
		return "unknown"
	}
	return s.addr.String()
}

// resolveAddr recovers the 6-byte hardware address from advertisement
// manufacturer data: the little-endian company id forms the first two bytes
// and a 4-byte payload the rest. Some platforms hide the address entirely,
// so this can stay unresolved for the life of the session. It reports
// whether the address is now known.
func (s *Session) resolveAddr() bool {
	for _, md := range s.peripheral.ManufacturerData() {
		if len(md.Data) != 4 {
			continue
		}
		addr := net.HardwareAddr{
			byte(md.CompanyID),
			byte(md.CompanyID >> 8),
			md.Data[0],
			md.Data[1],
			md.Data[2],
			md.Data[3],
		}

		s.mu.Lock()
		s.addr = addr
		s.mu.Unlock()
		return true
	}
	return false
}

// Run drives the fixture until updates closes, ctx is cancelled, or a write
// fails. The full initial state is written unconditionally; afterwards each
// incoming snapshot is diffed against the last applied one.
func (s *Session) Run(ctx context.Context, updates <-chan light.Settings) error {
	prev := s.opts.InitialState

	if s.opts.SendHandshake {
		if err := s.write(protocol.Handshake(), "handshake"); err != nil {
			return err
		}
	}
	if err := s.apply(light.FullSync(prev)); err != nil {
		return err
	}

	// Notifications carry no actionable payload; they are drained so the
	// wire traffic is visible at trace level.
	if err := s.char.Subscribe(func(data []byte) {
		s.log.Trace().Hex("payload", data).Msg("notification")
	}); err != nil {
		s.log.Warn().Err(err).Msg("notification subscribe failed")
	}

	ticker := time.NewTicker(s.opts.HealthInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case next, ok := <-updates:
			if !ok {
				return nil
			}
			if err := s.apply(light.Diff(prev, next)); err != nil {
				return err
			}
			prev = next
		case <-ticker.C:
			s.healthCheck(ctx)
		}
	}
}

// apply encodes and writes a command batch in order. Any write failure is
// fatal to the session.
func (s *Session) apply(cmds []protocol.Command) error {
	for _, cmd := range cmds {
		if err := s.write(protocol.Encode(cmd), fmt.Sprint(cmd)); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) write(frame []byte, cmd string) error {
	s.log.Trace().Str("cmd", cmd).Hex("frame", frame).Msg("write")
	if err := s.char.Write(frame); err != nil {
		return fmt.Errorf("fleet: write %s: %w", cmd, err)
	}
	return nil
}

// healthCheck retries address resolution while the address is unknown, and
// blocks in a reconnect loop when the link is down. A disconnected fixture
// cannot usefully process settings or notifications, so stalling the event
// loop here is intentional.
func (s *Session) healthCheck(ctx context.Context) {
	s.mu.Lock()
	unknown := s.addr == nil
	s.mu.Unlock()
	if unknown && s.resolveAddr() {
		s.log.Info().Str("addr", s.Addr()).Msg("hardware address resolved")
	}

	if s.peripheral.Connected() {
		return
	}

	s.log.Warn().Str("addr", s.Addr()).Msg("fixture disconnected")

	for ctx.Err() == nil {
		if err := s.peripheral.Connect(); err != nil {
			s.log.Warn().Err(err).Msg("reconnect failed")
			select {
			case <-ctx.Done():
				return
			case <-time.After(s.opts.ReconnectDelay):
			}
			continue
		}

		if s.peripheral.Connected() {
			s.log.Info().Str("addr", s.Addr()).Msg("fixture reconnected")
			return
		}
	}
}
