package eventstream

import "encoding/binary"

// FrameReader accumulates transport chunks and yields complete frames.
// Chunk boundaries carry no meaning: a frame may arrive split across
// many chunks or packed together with its neighbours, and the decoded
// sequence is identical either way. The reader never blocks and never
// touches the transport itself; callers feed bytes in and drain frames
// out. Not safe for concurrent use.
type FrameReader struct {
	max uint32
	buf []byte
	off int
}

// NewFrameReader returns a reader that rejects frames whose declared
// length exceeds maxFrameLen. Zero means DefaultMaxFrameLen.
func NewFrameReader(maxFrameLen uint32) *FrameReader {
	if maxFrameLen == 0 {
		maxFrameLen = DefaultMaxFrameLen
	}
	return &FrameReader{max: maxFrameLen}
}

// Feed appends one transport chunk to the internal buffer. The bytes
// are copied; the caller may reuse chunk immediately.
func (r *FrameReader) Feed(chunk []byte) {
	if r.off > 0 {
		n := copy(r.buf, r.buf[r.off:])
		r.buf = r.buf[:n]
		r.off = 0
	}
	r.buf = append(r.buf, chunk...)
}

// Frame extracts the next complete frame. It returns ok false with a
// nil error when more bytes are needed, and a structural error when
// the buffered prelude declares an impossible length. The returned
// slice is the caller's to keep.
func (r *FrameReader) Frame() ([]byte, bool, error) {
	if r.Buffered() < 4 {
		return nil, false, nil
	}
	total := binary.BigEndian.Uint32(r.buf[r.off:])
	if total < MinFrameLen {
		return nil, false, structuralf("declared total length %d is below the %d-byte minimum", total, MinFrameLen)
	}
	if total > r.max {
		return nil, false, structuralf("declared total length %d exceeds the %d-byte limit", total, r.max)
	}
	if uint32(r.Buffered()) < total {
		return nil, false, nil
	}
	frame := make([]byte, total)
	copy(frame, r.buf[r.off:])
	r.off += int(total)
	if r.off == len(r.buf) {
		r.buf = r.buf[:0]
		r.off = 0
	}
	return frame, true, nil
}

// Buffered reports how many fed bytes await extraction.
func (r *FrameReader) Buffered() int { return len(r.buf) - r.off }

// EndOfStream reports whether the source may finish cleanly. Anything
// left in the buffer at end of stream is a truncated final frame.
func (r *FrameReader) EndOfStream() error {
	if n := r.Buffered(); n > 0 {
		return truncatedf("source ended with %d bytes of an incomplete frame", n)
	}
	return nil
}

// Reset discards all buffered bytes and releases the buffer.
func (r *FrameReader) Reset() {
	r.buf = nil
	r.off = 0
}
