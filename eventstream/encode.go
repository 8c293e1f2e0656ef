package eventstream

import (
	"encoding/binary"
	"math"
)

// EncodeFrame serialises headers and payload into one checksummed wire
// frame. It is the exact inverse of DecodeFrame: decoding its output
// reproduces the input, and encoding a decoded frame reproduces the
// original bytes. The capture tooling and the synthetic source are the
// main callers; decoding remains the hot path.
func EncodeFrame(f *Frame) ([]byte, error) {
	block, err := encodeHeaders(f.Headers)
	if err != nil {
		return nil, err
	}
	total := int64(MinFrameLen) + int64(len(block)) + int64(len(f.Payload))
	if total > math.MaxUint32 {
		return nil, structuralf("frame of %d bytes exceeds the 32-bit length word", total)
	}
	buf := make([]byte, 0, total)
	buf = binary.BigEndian.AppendUint32(buf, uint32(total))
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(block)))
	buf = binary.BigEndian.AppendUint32(buf, Checksum(buf))
	buf = append(buf, block...)
	buf = append(buf, f.Payload...)
	buf = binary.BigEndian.AppendUint32(buf, Checksum(buf))
	return buf, nil
}
