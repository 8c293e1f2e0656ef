package capture

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// Reader replays a capture file. NextChunk walks the records; Read
// serves the recorded bytes as an io.Reader whose reads never cross a
// chunk boundary, so a replayed session reaches the decoder with the
// same chunking the live transport produced. Not safe for concurrent
// use.
type Reader struct {
	r       io.Reader
	session SessionRecord
	pending []byte
	nextSeq int64
}

// NewReader reads and validates the opening session record.
func NewReader(r io.Reader) (*Reader, error) {
	body, err := readRecord(r)
	if err != nil {
		if err == io.EOF {
			return nil, ErrNotCapture
		}
		return nil, err
	}
	var session SessionRecord
	if err := msgpack.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotCapture, err)
	}
	if session.RecordKind != RecordKindSession {
		return nil, fmt.Errorf("%w: file opens with a %q record", ErrNotCapture, session.RecordKind)
	}
	return &Reader{r: r, session: session}, nil
}

// Session returns the capture's opening record.
func (r *Reader) Session() SessionRecord {
	return r.session
}

// NextChunk returns the next recorded chunk, or io.EOF at a clean end
// of file. Chunks must appear in unbroken sequence order; a gap means
// the file was assembled or damaged outside the Writer.
func (r *Reader) NextChunk() (*ChunkRecord, error) {
	body, err := readRecord(r.r)
	if err != nil {
		return nil, err
	}
	var probe recordKindProbe
	if err := msgpack.Unmarshal(body, &probe); err != nil {
		return nil, fmt.Errorf("capture: decode record kind: %w", err)
	}
	if probe.RecordKind != RecordKindChunk {
		return nil, fmt.Errorf("capture: unexpected record kind %q", probe.RecordKind)
	}
	var chunk ChunkRecord
	if err := msgpack.Unmarshal(body, &chunk); err != nil {
		return nil, fmt.Errorf("capture: decode chunk record: %w", err)
	}
	if chunk.Seq != r.nextSeq {
		return nil, fmt.Errorf("capture: chunk sequence gap: got %d, want %d", chunk.Seq, r.nextSeq)
	}
	r.nextSeq++
	return &chunk, nil
}

// Read serves the recorded bytes preserving chunk boundaries: a call
// returns bytes from at most one recorded chunk. Zero-length chunks
// are skipped rather than surfaced as empty reads.
func (r *Reader) Read(p []byte) (int, error) {
	for len(r.pending) == 0 {
		chunk, err := r.NextChunk()
		if err != nil {
			return 0, err
		}
		r.pending = chunk.Data
	}
	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	return n, nil
}
