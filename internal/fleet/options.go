// Package fleet discovers BT_LED fixtures and runs one managed session per
// fixture: it converges each fixture to the settings snapshots pushed
// through its handle and keeps the link alive.
package fleet

import (
	"time"

	"github.com/chaz8081/ledctl/internal/ble"
	"github.com/chaz8081/ledctl/internal/light"
)

// Options configures discovery and session behavior.
type Options struct {
	DeviceName     string        // advertised local name to match exactly
	ServiceUUID    string        // control service to resolve after connect
	PollInterval   time.Duration // how often the visible peripheral set is enumerated
	HealthInterval time.Duration // liveness check cadence per session
	ReconnectDelay time.Duration // pause between reconnect attempts
	DebounceWindow time.Duration // quiet window for coalescing settings bursts
	QueueSize      int           // settings updates buffered per fixture
	SendHandshake  bool          // write the captured session-init frame after connecting
	InitialState   light.Settings
}

// DefaultOptions returns the timings observed to work well with GVM
// fixtures.
func DefaultOptions() Options {
	return Options{
		DeviceName:     "BT_LED",
		ServiceUUID:    ble.ServiceUUID,
		PollInterval:   500 * time.Millisecond,
		HealthInterval: time.Second,
		ReconnectDelay: 5 * time.Second,
		DebounceWindow: 100 * time.Millisecond,
		QueueSize:      10,
		InitialState:   light.Default(10),
	}
}

// withDefaults fills zero-valued fields, mirroring DefaultOptions.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.DeviceName == "" {
		o.DeviceName = d.DeviceName
	}
	if o.ServiceUUID == "" {
		o.ServiceUUID = d.ServiceUUID
	}
	if o.PollInterval <= 0 {
		o.PollInterval = d.PollInterval
	}
	if o.HealthInterval <= 0 {
		o.HealthInterval = d.HealthInterval
	}
	if o.ReconnectDelay <= 0 {
		o.ReconnectDelay = d.ReconnectDelay
	}
	if o.DebounceWindow <= 0 {
		o.DebounceWindow = d.DebounceWindow
	}
	if o.QueueSize <= 0 {
		o.QueueSize = d.QueueSize
	}
	return o
}
