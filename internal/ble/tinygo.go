package ble

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"tinygo.org/x/bluetooth"
)

// TinyGoAdapter drives the platform radio through tinygo.org/x/bluetooth
// (BlueZ on Linux, CoreBluetooth on macOS, WinRT on Windows).
type TinyGoAdapter struct {
	adapter *bluetooth.Adapter

	// mu protects the peripherals map.
	mu          sync.Mutex
	peripherals map[string]*tinygoPeripheral
}

// NewAdapter wraps the platform default adapter.
func NewAdapter() *TinyGoAdapter {
	return &TinyGoAdapter{
		adapter:     bluetooth.DefaultAdapter,
		peripherals: make(map[string]*tinygoPeripheral),
	}
}

func (a *TinyGoAdapter) Enable() error {
	if err := a.adapter.Enable(); err != nil {
		return fmt.Errorf("ble: enable adapter: %w", err)
	}

	// The adapter-level handler is the only reliable cross-platform way to
	// observe link state; peripherals read the flag it maintains.
	a.adapter.SetConnectHandler(func(device bluetooth.Device, connected bool) {
		id := device.Address.String()
		a.mu.Lock()
		p, ok := a.peripherals[id]
		a.mu.Unlock()
		if ok {
			p.setConnected(connected)
		}
	})

	return nil
}

func (a *TinyGoAdapter) StartScan(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		a.adapter.StopScan()
	}()

	go func() {
		// Scan blocks until StopScan; advertisements are folded into the
		// peripherals map as they arrive.
		err := a.adapter.Scan(func(_ *bluetooth.Adapter, result bluetooth.ScanResult) {
			a.observe(result)
		})
		if err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("ble scan stopped")
		}
	}()

	return nil
}

// observe records or refreshes the peripheral behind a scan result.
func (a *TinyGoAdapter) observe(result bluetooth.ScanResult) {
	id := result.Address.String()

	a.mu.Lock()
	defer a.mu.Unlock()

	p, ok := a.peripherals[id]
	if !ok {
		p = &tinygoPeripheral{adapter: a.adapter, addr: result.Address}
		a.peripherals[id] = p
	}
	p.refresh(result)
}

func (a *TinyGoAdapter) Peripherals() []Peripheral {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]Peripheral, 0, len(a.peripherals))
	for _, p := range a.peripherals {
		out = append(out, p)
	}
	return out
}

var _ Adapter = (*TinyGoAdapter)(nil)

type tinygoPeripheral struct {
	adapter *bluetooth.Adapter
	addr    bluetooth.Address

	mu          sync.Mutex
	name        string
	mfData      []ManufacturerData
	device      bluetooth.Device
	char        *bluetooth.DeviceCharacteristic
	serviceUUID string
	notify      func([]byte)
	connected   bool
}

// refresh folds a new advertisement into the peripheral. The local name is
// sticky: some advertisement frames omit it.
func (p *tinygoPeripheral) refresh(result bluetooth.ScanResult) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if name := result.LocalName(); name != "" {
		p.name = name
	}

	elements := result.ManufacturerData()
	if len(elements) == 0 {
		return
	}
	p.mfData = p.mfData[:0]
	for _, e := range elements {
		data := make([]byte, len(e.Data))
		copy(data, e.Data)
		p.mfData = append(p.mfData, ManufacturerData{CompanyID: e.CompanyID, Data: data})
	}
}

func (p *tinygoPeripheral) ID() string { return p.addr.String() }

func (p *tinygoPeripheral) LocalName() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.name
}

func (p *tinygoPeripheral) ManufacturerData() []ManufacturerData {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]ManufacturerData, len(p.mfData))
	copy(out, p.mfData)
	return out
}

func (p *tinygoPeripheral) Connect() error {
	device, err := p.adapter.Connect(p.addr, bluetooth.ConnectionParams{})
	if err != nil {
		return fmt.Errorf("ble: connect %s: %w", p.addr.String(), err)
	}

	p.mu.Lock()
	p.device = device
	p.connected = true
	serviceUUID := p.serviceUUID
	p.mu.Unlock()

	// A fresh connection invalidates previously discovered handles, so the
	// control characteristic is resolved again on every reconnect.
	if serviceUUID != "" {
		if err := p.resolveControl(serviceUUID); err != nil {
			return fmt.Errorf("ble: re-resolve control characteristic: %w", err)
		}
	}

	return nil
}

func (p *tinygoPeripheral) Connected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.connected
}

func (p *tinygoPeripheral) setConnected(connected bool) {
	p.mu.Lock()
	p.connected = connected
	p.mu.Unlock()
}

func (p *tinygoPeripheral) ControlCharacteristic(serviceUUID string) (Characteristic, error) {
	if err := p.resolveControl(serviceUUID); err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.serviceUUID = serviceUUID
	p.mu.Unlock()

	return &tinygoCharacteristic{p: p}, nil
}

// resolveControl discovers the control service and takes its first
// characteristic. BT_LED fixtures expose exactly one writable
// characteristic under the control service.
func (p *tinygoPeripheral) resolveControl(serviceUUID string) error {
	uuid, err := bluetooth.ParseUUID(serviceUUID)
	if err != nil {
		return fmt.Errorf("ble: parse service UUID: %w", err)
	}

	p.mu.Lock()
	device := p.device
	notify := p.notify
	p.mu.Unlock()

	svcs, err := device.DiscoverServices([]bluetooth.UUID{uuid})
	if err != nil {
		return fmt.Errorf("ble: discover services: %w", err)
	}
	if len(svcs) == 0 {
		return fmt.Errorf("ble: service %s not found", serviceUUID)
	}

	chars, err := svcs[0].DiscoverCharacteristics(nil)
	if err != nil {
		return fmt.Errorf("ble: discover characteristics: %w", err)
	}
	if len(chars) == 0 {
		return fmt.Errorf("ble: service %s has no characteristics", serviceUUID)
	}

	char := &chars[0]

	p.mu.Lock()
	p.char = char
	p.mu.Unlock()

	// Re-arm the notification subscription after a reconnect.
	if notify != nil {
		if err := char.EnableNotifications(notify); err != nil {
			return fmt.Errorf("ble: re-enable notifications: %w", err)
		}
	}

	return nil
}

func (p *tinygoPeripheral) Disconnect() error {
	p.mu.Lock()
	device := p.device
	p.mu.Unlock()
	return device.Disconnect()
}

var _ Peripheral = (*tinygoPeripheral)(nil)

// tinygoCharacteristic delegates to the peripheral's current characteristic
// handle so that the caller's reference survives reconnects.
type tinygoCharacteristic struct {
	p *tinygoPeripheral
}

func (c *tinygoCharacteristic) Write(data []byte) error {
	c.p.mu.Lock()
	char := c.p.char
	c.p.mu.Unlock()

	if char == nil {
		return fmt.Errorf("ble: characteristic not resolved")
	}
	if _, err := char.WriteWithoutResponse(data); err != nil {
		return fmt.Errorf("ble: write: %w", err)
	}
	return nil
}

func (c *tinygoCharacteristic) Subscribe(callback func(data []byte)) error {
	c.p.mu.Lock()
	c.p.notify = callback
	char := c.p.char
	c.p.mu.Unlock()

	if char == nil {
		return fmt.Errorf("ble: characteristic not resolved")
	}
	if err := char.EnableNotifications(callback); err != nil {
		return fmt.Errorf("ble: enable notifications: %w", err)
	}
	return nil
}

var _ Characteristic = (*tinygoCharacteristic)(nil)
