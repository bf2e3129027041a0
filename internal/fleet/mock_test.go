package fleet

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/chaz8081/ledctl/internal/ble"
)

// mockCharacteristic records writes and allows notification callbacks.
type mockCharacteristic struct {
	mu       sync.Mutex
	writes   [][]byte
	callback func([]byte)
	writeErr error
}

func (c *mockCharacteristic) Write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeErr != nil {
		return c.writeErr
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	c.writes = append(c.writes, cp)
	return nil
}

func (c *mockCharacteristic) Subscribe(cb func([]byte)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.callback = cb
	return nil
}

func (c *mockCharacteristic) writesSnapshot() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([][]byte, len(c.writes))
	copy(out, c.writes)
	return out
}

// simulateNotification pushes a notification to the subscriber.
func (c *mockCharacteristic) simulateNotification(data []byte) {
	c.mu.Lock()
	cb := c.callback
	c.mu.Unlock()
	if cb != nil {
		cb(data)
	}
}

// mockPeripheral simulates one discovered fixture.
type mockPeripheral struct {
	mu           sync.Mutex
	id           string
	name         string
	mfData       []ble.ManufacturerData
	char         *mockCharacteristic
	connected    bool
	connectCalls int
	failConnects int // how many upcoming Connect calls should fail
	charErr      error
}

func newMockPeripheral(id, name string) *mockPeripheral {
	return &mockPeripheral{id: id, name: name, char: &mockCharacteristic{}}
}

func (p *mockPeripheral) ID() string        { return p.id }
func (p *mockPeripheral) LocalName() string { return p.name }

func (p *mockPeripheral) Connect() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.connectCalls++
	if p.failConnects > 0 {
		p.failConnects--
		return errMockConnect
	}
	p.connected = true
	return nil
}

func (p *mockPeripheral) Connected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.connected
}

func (p *mockPeripheral) setConnected(v bool) {
	p.mu.Lock()
	p.connected = v
	p.mu.Unlock()
}

func (p *mockPeripheral) connectCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.connectCalls
}

func (p *mockPeripheral) ManufacturerData() []ble.ManufacturerData {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mfData
}

func (p *mockPeripheral) ControlCharacteristic(string) (ble.Characteristic, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.charErr != nil {
		return nil, p.charErr
	}
	return p.char, nil
}

func (p *mockPeripheral) Disconnect() error {
	p.setConnected(false)
	return nil
}

// mockAdapter simulates the radio.
type mockAdapter struct {
	mu          sync.Mutex
	peripherals []*mockPeripheral
	enableErr   error
}

func (a *mockAdapter) Enable() error { return a.enableErr }

func (a *mockAdapter) StartScan(context.Context) error { return nil }

func (a *mockAdapter) Peripherals() []ble.Peripheral {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]ble.Peripheral, 0, len(a.peripherals))
	for _, p := range a.peripherals {
		out = append(out, p)
	}
	return out
}

func (a *mockAdapter) add(p *mockPeripheral) {
	a.mu.Lock()
	a.peripherals = append(a.peripherals, p)
	a.mu.Unlock()
}

type mockError string

func (e mockError) Error() string { return string(e) }

const errMockConnect = mockError("mock: connect refused")

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", msg)
}

// testOptions returns options with timings small enough for tests.
func testOptions() Options {
	opts := DefaultOptions()
	opts.PollInterval = time.Millisecond
	opts.HealthInterval = time.Hour // keep health checks out of the way unless a test wants them
	opts.ReconnectDelay = time.Millisecond
	opts.DebounceWindow = time.Millisecond
	return opts
}

func TestMockAdapterImplementsInterface(t *testing.T) {
	var _ ble.Adapter = (*mockAdapter)(nil)
}

func TestMockPeripheralImplementsInterface(t *testing.T) {
	var _ ble.Peripheral = (*mockPeripheral)(nil)
}

func TestMockCharacteristicImplementsInterface(t *testing.T) {
	var _ ble.Characteristic = (*mockCharacteristic)(nil)
}
