package eventstream

import "encoding/binary"

// DecodeFrame validates one complete frame and destructures it. The
// gates run in a fixed order: length invariant, prelude CRC, message
// CRC, header block, payload. A frame failing any gate yields no
// partial result. The returned Frame owns its bytes; data may be
// reused by the caller afterwards.
func DecodeFrame(data []byte) (*Frame, error) {
	if len(data) < MinFrameLen {
		return nil, structuralf("frame of %d bytes is below the %d-byte minimum", len(data), MinFrameLen)
	}
	total := binary.BigEndian.Uint32(data[0:4])
	if int64(total) != int64(len(data)) {
		return nil, structuralf("declared total length %d does not match frame of %d bytes", total, len(data))
	}
	headersLen := binary.BigEndian.Uint32(data[4:preludeLen])

	declared := binary.BigEndian.Uint32(data[preludeLen:preludeEnd])
	if computed := Checksum(data[:preludeLen]); computed != declared {
		return nil, checksumf("prelude", declared, computed)
	}
	declared = binary.BigEndian.Uint32(data[len(data)-trailerLen:])
	if computed := Checksum(data[:len(data)-trailerLen]); computed != declared {
		return nil, checksumf("message", declared, computed)
	}

	if int64(headersLen) > int64(len(data)-MinFrameLen) {
		return nil, structuralf("declared headers length %d exceeds frame body of %d bytes", headersLen, len(data)-MinFrameLen)
	}
	headers, err := decodeHeaders(data[preludeEnd : preludeEnd+int(headersLen)])
	if err != nil {
		return nil, err
	}
	payload := make([]byte, len(data)-MinFrameLen-int(headersLen))
	copy(payload, data[preludeEnd+int(headersLen):len(data)-trailerLen])
	return &Frame{Headers: headers, Payload: payload}, nil
}
