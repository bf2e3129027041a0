package light

import "github.com/chaz8081/ledctl/internal/protocol"

// Diff returns the ordered commands needed to move a fixture from prev to
// next. A power change is written first and a mode switch last, so the
// fixture receives its scalar values before it starts rendering under the
// new mode. Unchanged fields emit nothing; Diff(s, s) is empty.
//
// Field comparisons run even when next disables the fixture: value updates
// are still queued so the fixture is current when it is turned back on.
func Diff(prev, next Settings) []protocol.Command {
	var cmds []protocol.Command

	if next.Enabled != prev.Enabled {
		cmds = append(cmds, protocol.PowerCommand(next.Enabled))
	}

	switch next.Mode {
	case protocol.ModeHsi:
		if next.Hue != prev.Hue {
			cmds = append(cmds, protocol.HueCommand(next.Hue))
		}
		if next.Saturation != prev.Saturation {
			cmds = append(cmds, protocol.SaturationCommand(next.Saturation))
		}
		if next.Intensity != prev.Intensity {
			cmds = append(cmds, protocol.IntensityCommand(next.Intensity))
		}
		if next.Mode != prev.Mode {
			cmds = append(cmds, protocol.ModeCommand(protocol.ModeHsi))
		}
	case protocol.ModeCct:
		if next.Temperature != prev.Temperature {
			cmds = append(cmds, protocol.TemperatureCommand(next.Temperature))
		}
		if next.Intensity != prev.Intensity {
			cmds = append(cmds, protocol.IntensityCommand(next.Intensity))
		}
		if next.Mode != prev.Mode {
			cmds = append(cmds, protocol.ModeCommand(protocol.ModeCct))
		}
	}

	return cmds
}

// FullSync returns the commands that write every field of s, for the first
// write after connecting when no previous fixture state is known.
func FullSync(s Settings) []protocol.Command {
	cmds := []protocol.Command{protocol.PowerCommand(s.Enabled)}

	switch s.Mode {
	case protocol.ModeHsi:
		cmds = append(cmds,
			protocol.HueCommand(s.Hue),
			protocol.SaturationCommand(s.Saturation),
			protocol.IntensityCommand(s.Intensity),
			protocol.ModeCommand(protocol.ModeHsi),
		)
	case protocol.ModeCct:
		cmds = append(cmds,
			protocol.TemperatureCommand(s.Temperature),
			protocol.IntensityCommand(s.Intensity),
			protocol.ModeCommand(protocol.ModeCct),
		)
	}

	return cmds
}
