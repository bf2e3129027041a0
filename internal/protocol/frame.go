package protocol

import "encoding/binary"

// Frame layout, as captured from a BT_LED fixture:
//
//	4C 54       magic ("LT")
//	09 00       u16 LE length of the frame counted from its third byte
//	TT FF       target/family pair (0x30 0x57 for light commands)
//	00 00       reserved
//	OP VV       opcode and value byte
//	CC CC       CRC-16/XMODEM over all preceding bytes, big-endian
const (
	magic0 = 0x4C
	magic1 = 0x54

	cmdTarget = 0x30
	cmdFamily = 0x57

	handshakeTarget = 0x00
	handshakeFamily = 0x53
)

// Opcodes for the light command family.
const (
	opPower       = 0x01
	opMode        = 0x02
	opIntensity   = 0x03
	opTemperature = 0x04
	opHue         = 0x05
	opSaturation  = 0x06
)

// Encode builds the wire frame for a command. It is stateless and total:
// every command in the closed set encodes without error.
func Encode(c Command) []byte {
	op, value := c.wire()
	return frame(cmdTarget, cmdFamily, op, value)
}

// Handshake returns the fixed session-init frame some fixtures expect right
// after connecting. Captured verbatim; fixtures accept commands without it.
func Handshake() []byte {
	return frame(handshakeTarget, handshakeFamily, opPower, 0x00)
}

func frame(target, family, op, value byte) []byte {
	f := []byte{magic0, magic1, 0x00, 0x00, target, family, 0x00, 0x00, op, value, 0x00, 0x00}
	binary.LittleEndian.PutUint16(f[2:4], uint16(len(f)-3))
	binary.BigEndian.PutUint16(f[10:12], checksum(f[:10]))
	return f
}

// checksum is CRC-16/XMODEM (poly 0x1021, init 0x0000), which matches the
// trailer on every captured frame.
func checksum(data []byte) uint16 {
	var crc uint16
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
