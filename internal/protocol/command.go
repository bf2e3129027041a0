// Package protocol implements the GVM LED BLE wire protocol: every logical
// command becomes one fixed-size, checksummed frame written to the control
// characteristic.
package protocol

import "fmt"

// Mode selects how a fixture renders its channels: color temperature (CCT)
// or hue/saturation/intensity (HSI).
type Mode uint8

const (
	ModeCct Mode = iota
	ModeHsi
)

func (m Mode) String() string {
	switch m {
	case ModeCct:
		return "cct"
	case ModeHsi:
		return "hsi"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

// Command is one logical operation a fixture understands. The set is closed;
// every variant carries at most one scalar byte and encodes to exactly one
// frame via Encode.
type Command interface {
	// wire returns the opcode and value byte for the frame body.
	wire() (op, value byte)
}

// PowerCommand turns the fixture on (true) or off (false).
type PowerCommand bool

func (c PowerCommand) wire() (byte, byte) {
	if c {
		return opPower, 0x01
	}
	return opPower, 0x00
}

func (c PowerCommand) String() string {
	if c {
		return "power(on)"
	}
	return "power(off)"
}

// ModeCommand switches the fixture's rendering mode.
type ModeCommand Mode

func (c ModeCommand) wire() (byte, byte) {
	if Mode(c) == ModeHsi {
		return opMode, 0x02
	}
	return opMode, 0x01
}

func (c ModeCommand) String() string { return fmt.Sprintf("mode(%s)", Mode(c)) }

// HueCommand sets the hue channel. Range [0, 83).
type HueCommand uint8

func (c HueCommand) wire() (byte, byte) { return opHue, byte(c) }
func (c HueCommand) String() string     { return fmt.Sprintf("hue(%d)", uint8(c)) }

// SaturationCommand sets the saturation channel. Range [0, 100].
type SaturationCommand uint8

func (c SaturationCommand) wire() (byte, byte) { return opSaturation, byte(c) }
func (c SaturationCommand) String() string     { return fmt.Sprintf("saturation(%d)", uint8(c)) }

// IntensityCommand sets the brightness channel, used by both modes.
// Range [0, 100].
type IntensityCommand uint8

func (c IntensityCommand) wire() (byte, byte) { return opIntensity, byte(c) }
func (c IntensityCommand) String() string     { return fmt.Sprintf("intensity(%d)", uint8(c)) }

// TemperatureCommand sets the color temperature in 100 K steps above the
// 3200 K floor. Range [0, 24], i.e. 3200-5600 K.
type TemperatureCommand uint8

func (c TemperatureCommand) wire() (byte, byte) { return opTemperature, byte(c) }
func (c TemperatureCommand) String() string     { return fmt.Sprintf("temperature(%d)", uint8(c)) }

// Kelvin returns the absolute color temperature the command selects.
func (c TemperatureCommand) Kelvin() int { return 3200 + int(c)*100 }
