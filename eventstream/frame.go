// Package eventstream implements the binary event-stream wire format
// per CONTRACT_WIRE.md: length-prefixed, CRC32-guarded frames carrying
// a typed header block and an opaque payload.
//
// The package is transport-agnostic. FrameReader turns an arbitrary
// sequence of byte chunks back into frame boundaries, and DecodeFrame
// validates and destructures a single frame. Interpretation of headers
// and payloads belongs to the stream package.
package eventstream

// Wire layout constants per CONTRACT_WIRE.md.
const (
	// preludeLen covers the total_length and headers_length words.
	preludeLen = 8
	// preludeEnd is the offset of the first header byte, past the
	// prelude and its CRC.
	preludeEnd = 12
	// trailerLen covers the trailing message CRC.
	trailerLen = 4

	// MinFrameLen is the fixed per-frame overhead. An empty frame is
	// exactly a prelude, a prelude CRC, and a message CRC.
	MinFrameLen = preludeEnd + trailerLen

	// DefaultMaxFrameLen caps declared frame lengths. A peer declaring
	// more is treated as corrupt rather than buffered without bound.
	DefaultMaxFrameLen = 16 << 20
)

// Frame is one decoded wire frame: its header block in wire order and
// its opaque payload. Both checksums have already been verified by the
// time a Frame exists, so holders may trust the bytes.
type Frame struct {
	Headers Headers
	Payload []byte
}

// MarshalBinary implements encoding.BinaryMarshaler as an alias for
// EncodeFrame.
func (f *Frame) MarshalBinary() ([]byte, error) {
	return EncodeFrame(f)
}
