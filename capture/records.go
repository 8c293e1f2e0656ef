// Package capture records the raw transport chunks of a streaming
// session to a file and replays them later with the original chunk
// boundaries intact, per CONTRACT_CAPTURE.md. A capture file is a
// session record followed by chunk records, each written as a 4-byte
// big-endian length prefix and a msgpack body. Replaying a capture
// through the decoder reproduces the live session byte for byte,
// including how the bytes were split across reads.
package capture

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// MaxRecordLen caps the msgpack body of a single record (16 MiB).
const MaxRecordLen = 16 << 20

const lengthPrefixLen = 4

// RecordKind discriminator values per CONTRACT_CAPTURE.md.
const (
	RecordKindSession = "session"
	RecordKindChunk   = "chunk"
)

var (
	// ErrWriterClosed is returned by operations on a closed Writer.
	ErrWriterClosed = errors.New("capture: writer closed")
	// ErrNotCapture is returned when a file does not open with a
	// session record.
	ErrNotCapture = errors.New("capture: missing session record")
	// ErrTruncatedRecord is returned when a file ends inside a record.
	ErrTruncatedRecord = errors.New("capture: truncated record")
)

// SessionRecord opens a capture file and identifies the recording.
type SessionRecord struct {
	RecordKind string `msgpack:"record_kind"`

	// ClientVersion is the recording client's version.
	ClientVersion string `msgpack:"client_version"`
	// RequestID labels the recorded request, when the caller set one.
	RequestID string `msgpack:"request_id"`
	// Endpoint is the URL the session was streamed from.
	Endpoint string `msgpack:"endpoint"`
	// StartedAtMs is the recording start, milliseconds since the epoch.
	StartedAtMs int64 `msgpack:"started_at_ms"`
}

// ChunkRecord is one transport chunk exactly as it was read.
type ChunkRecord struct {
	RecordKind string `msgpack:"record_kind"`

	// Seq orders chunks within the session, starting at zero.
	Seq int64 `msgpack:"seq"`
	// OffsetMs is the chunk's arrival time relative to the session
	// start. Informational; replay does not pace itself by it.
	OffsetMs int64 `msgpack:"offset_ms"`
	// Data is the chunk verbatim.
	Data []byte `msgpack:"data"`
}

// recordKindProbe peeks at the discriminator without a full decode.
type recordKindProbe struct {
	RecordKind string `msgpack:"record_kind"`
}

// encodeRecord renders one record as length prefix plus msgpack body.
func encodeRecord(v any) ([]byte, error) {
	body, err := msgpack.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("capture: encode record: %w", err)
	}
	if len(body) > MaxRecordLen {
		return nil, fmt.Errorf("capture: record body %d exceeds the %d-byte limit", len(body), MaxRecordLen)
	}
	buf := make([]byte, lengthPrefixLen+len(body))
	binary.BigEndian.PutUint32(buf, uint32(len(body)))
	copy(buf[lengthPrefixLen:], body)
	return buf, nil
}

// readRecord reads one record body. It returns io.EOF only on a clean
// record boundary; a stream ending mid-record is ErrTruncatedRecord.
func readRecord(r io.Reader) ([]byte, error) {
	var prefix [lengthPrefixLen]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("%w: reading length prefix: %v", ErrTruncatedRecord, err)
	}
	n := binary.BigEndian.Uint32(prefix[:])
	if n > MaxRecordLen {
		return nil, fmt.Errorf("capture: record body %d exceeds the %d-byte limit", n, MaxRecordLen)
	}
	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("%w: reading %d-byte body: %v", ErrTruncatedRecord, n, err)
	}
	return body, nil
}
