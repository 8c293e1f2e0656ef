package eventstream

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// drainFrames extracts every complete frame currently buffered.
func drainFrames(t *testing.T, r *FrameReader) [][]byte {
	t.Helper()
	var frames [][]byte
	for {
		frame, ok, err := r.Frame()
		if err != nil {
			t.Fatalf("Frame() error = %v", err)
		}
		if !ok {
			return frames
		}
		frames = append(frames, frame)
	}
}

func TestFrameReaderByteByByte(t *testing.T) {
	data := testFrame(t, "assistantResponseEvent", []byte(`{"content":"hi"}`))
	r := NewFrameReader(0)
	for i := 0; i < len(data)-1; i++ {
		r.Feed(data[i : i+1])
		if frame, ok, err := r.Frame(); ok || err != nil {
			t.Fatalf("Frame() after %d bytes = %v, %v, %v, want incomplete", i+1, frame, ok, err)
		}
	}
	r.Feed(data[len(data)-1:])
	frame, ok, err := r.Frame()
	if err != nil || !ok {
		t.Fatalf("Frame() = %v, %v, want complete frame", ok, err)
	}
	if !bytes.Equal(frame, data) {
		t.Errorf("extracted frame differs from input")
	}
	if err := r.EndOfStream(); err != nil {
		t.Errorf("EndOfStream() = %v, want nil", err)
	}
}

func TestFrameReaderCoalescedChunk(t *testing.T) {
	first := testFrame(t, "messageMetadataEvent", []byte(`{"conversationId":"c-1"}`))
	second := testFrame(t, "assistantResponseEvent", []byte(`{"content":"hello"}`))
	third := testFrame(t, "assistantResponseEvent", []byte(`{"content":" world"}`))

	var wire []byte
	wire = append(wire, first...)
	wire = append(wire, second...)
	wire = append(wire, third[:9]...)

	r := NewFrameReader(0)
	r.Feed(wire)
	frames := drainFrames(t, r)
	if len(frames) != 2 {
		t.Fatalf("extracted %d frames, want 2", len(frames))
	}
	if !bytes.Equal(frames[0], first) || !bytes.Equal(frames[1], second) {
		t.Error("extracted frames differ from inputs")
	}
	if got := r.Buffered(); got != 9 {
		t.Errorf("Buffered() = %d, want 9", got)
	}
	if err := r.EndOfStream(); !IsTruncated(err) {
		t.Errorf("EndOfStream() = %v, want truncated", err)
	}
}

// The decoded sequence must not depend on how the wire bytes were cut
// into chunks.
func TestFrameReaderChunkingInvariance(t *testing.T) {
	var wire []byte
	want := [][]byte{
		testFrame(t, "messageMetadataEvent", []byte(`{"conversationId":"c-1","utteranceId":"u-1"}`)),
		testFrame(t, "assistantResponseEvent", []byte(`{"content":"chunk boundaries"}`)),
		testFrame(t, "assistantResponseEvent", []byte(`{"content":" carry no meaning"}`)),
		testFrame(t, "followupPromptEvent", []byte(`{"followupPrompt":{"content":"anything else?"}}`)),
	}
	for _, f := range want {
		wire = append(wire, f...)
	}

	for _, size := range []int{1, 2, 3, 5, 7, 16, 64, 1 << 20} {
		r := NewFrameReader(0)
		var got [][]byte
		for off := 0; off < len(wire); off += size {
			end := off + size
			if end > len(wire) {
				end = len(wire)
			}
			r.Feed(wire[off:end])
			got = append(got, drainFrames(t, r)...)
		}
		if len(got) != len(want) {
			t.Fatalf("chunk size %d: extracted %d frames, want %d", size, len(got), len(want))
		}
		for i := range want {
			if !bytes.Equal(got[i], want[i]) {
				t.Errorf("chunk size %d: frame %d differs from input", size, i)
			}
		}
		if err := r.EndOfStream(); err != nil {
			t.Errorf("chunk size %d: EndOfStream() = %v, want nil", size, err)
		}
	}
}

func TestFrameReaderRejectsOversizedDeclaration(t *testing.T) {
	r := NewFrameReader(64)
	var prelude [4]byte
	binary.BigEndian.PutUint32(prelude[:], 65)
	r.Feed(prelude[:])
	if _, _, err := r.Frame(); !IsStructural(err) {
		t.Fatalf("Frame() error = %v, want structural", err)
	}
}

func TestFrameReaderRejectsUndersizedDeclaration(t *testing.T) {
	r := NewFrameReader(0)
	var prelude [4]byte
	binary.BigEndian.PutUint32(prelude[:], MinFrameLen-1)
	r.Feed(prelude[:])
	if _, _, err := r.Frame(); !IsStructural(err) {
		t.Fatalf("Frame() error = %v, want structural", err)
	}
}

func TestFrameReaderTruncationCuts(t *testing.T) {
	data := testFrame(t, "assistantResponseEvent", []byte(`{"content":"cut short"}`))
	for _, cut := range []int{1, 7, 15, len(data) - 1} {
		r := NewFrameReader(0)
		r.Feed(data[:cut])
		if _, ok, err := r.Frame(); ok || err != nil {
			t.Fatalf("cut %d: Frame() = %v, %v, want incomplete", cut, ok, err)
		}
		err := r.EndOfStream()
		if !IsTruncated(err) {
			t.Errorf("cut %d: EndOfStream() = %v, want truncated", cut, err)
		}
	}
}

func TestFrameReaderReset(t *testing.T) {
	data := testFrame(t, "assistantResponseEvent", []byte(`{"content":"x"}`))
	r := NewFrameReader(0)
	r.Feed(data[:10])
	if got := r.Buffered(); got != 10 {
		t.Fatalf("Buffered() = %d, want 10", got)
	}
	r.Reset()
	if got := r.Buffered(); got != 0 {
		t.Errorf("Buffered() after Reset = %d, want 0", got)
	}
	if err := r.EndOfStream(); err != nil {
		t.Errorf("EndOfStream() after Reset = %v, want nil", err)
	}
}

func BenchmarkFrameReader(b *testing.B) {
	frame := testFrame(b, "assistantResponseEvent", []byte(`{"content":"benchmark payload with a plausible length for a delta"}`))
	wire := bytes.Repeat(frame, 64)
	b.ReportAllocs()
	b.SetBytes(int64(len(wire)))
	for i := 0; i < b.N; i++ {
		r := NewFrameReader(0)
		for off := 0; off < len(wire); off += 4096 {
			end := off + 4096
			if end > len(wire) {
				end = len(wire)
			}
			r.Feed(wire[off:end])
			for {
				_, ok, err := r.Frame()
				if err != nil {
					b.Fatal(err)
				}
				if !ok {
					break
				}
			}
		}
	}
}
