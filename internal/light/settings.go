// Package light models the desired state of a single fixture and computes
// the minimal ordered command sequence needed to converge a fixture to it.
package light

import "github.com/chaz8081/ledctl/internal/protocol"

// Settings is the declarative target state for one fixture. Two snapshots
// are equal iff every field matches exactly.
type Settings struct {
	Enabled bool
	Mode    protocol.Mode

	// Hue channel position, range [0, 83).
	Hue uint8

	// Saturation percentage, range [0, 100].
	Saturation uint8

	// Brightness percentage, range [0, 100]. Shared by both modes.
	Intensity uint8

	// Color temperature in 100 K steps above 3200 K, range [0, 24].
	Temperature uint8
}

// Default returns the state a fixture is driven to right after connecting,
// before any user input arrives.
func Default(intensity uint8) Settings {
	return Settings{
		Enabled:     true,
		Mode:        protocol.ModeCct,
		Hue:         0,
		Saturation:  100,
		Intensity:   intensity,
		Temperature: 0,
	}
}

// Kelvin returns the absolute color temperature the snapshot selects.
func (s Settings) Kelvin() int { return 3200 + int(s.Temperature)*100 }
