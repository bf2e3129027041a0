// Package ble abstracts the Bluetooth LE stack behind small interfaces so
// the fleet layer can be driven and tested without a radio.
package ble

import "context"

// ServiceUUID identifies the GATT service a BT_LED fixture exposes for
// control writes.
const ServiceUUID = "00010203-0405-0607-0809-0a0b0c0d1910"

// ManufacturerData is one manufacturer-data element from an advertisement.
type ManufacturerData struct {
	CompanyID uint16
	Data      []byte
}

// Characteristic is the writable GATT endpoint on a connected peripheral.
type Characteristic interface {
	// Write sends data with write-without-response semantics.
	Write(data []byte) error
	// Subscribe registers a callback for notifications from the peripheral.
	Subscribe(callback func(data []byte)) error
}

// Peripheral is one discovered BLE device. Implementations must keep the
// value usable across reconnects: Connect may be called again after the
// link drops.
type Peripheral interface {
	// ID is the stable transport identifier. On Linux this is the MAC
	// address; macOS hides the MAC and hands out a CoreBluetooth UUID.
	ID() string
	// LocalName is the advertised device name.
	LocalName() string
	// Connect establishes or re-establishes the connection.
	Connect() error
	// Connected reports current link liveness.
	Connected() bool
	// ManufacturerData returns the manufacturer-data elements from the most
	// recent advertisement.
	ManufacturerData() []ManufacturerData
	// ControlCharacteristic resolves the writable characteristic under the
	// given service. The result stays valid across reconnects.
	ControlCharacteristic(serviceUUID string) (Characteristic, error)
	// Disconnect terminates the connection.
	Disconnect() error
}

// Adapter abstracts the BLE hardware adapter.
type Adapter interface {
	// Enable powers on the adapter. Fails when no radio is present.
	Enable() error
	// StartScan begins a continuous background scan. Advertisements are
	// folded into the set returned by Peripherals. Cancelling ctx stops
	// the scan.
	StartScan(ctx context.Context) error
	// Peripherals snapshots the currently visible peripherals.
	Peripherals() []Peripheral
}
