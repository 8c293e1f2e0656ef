package capture

import (
	"bytes"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stevengonsalvez/amazon-q-streaming-client-go/iox"
	"github.com/stevengonsalvez/amazon-q-streaming-client-go/types"
)

// syncBuffer is a bytes.Buffer safe to share with the interval
// goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Len()
}

func (b *syncBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.buf.Bytes()...)
}

// failingWriter accepts okWrites writes and fails the rest.
type failingWriter struct {
	okWrites int
	calls    int
	err      error
}

func (w *failingWriter) Write(p []byte) (int, error) {
	w.calls++
	if w.calls > w.okWrites {
		return 0, w.err
	}
	return len(p), nil
}

func TestWriterRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, WriterConfig{RequestID: "req-1", Endpoint: "https://example.invalid/stream"})
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}
	chunks := [][]byte{
		[]byte("hello"),
		{0x00},
		bytes.Repeat([]byte{0xAB}, 300),
	}
	for _, c := range chunks {
		if err := w.Record(c); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	r, err := NewReader(&buf)
	if err != nil {
		t.Fatalf("NewReader() error = %v", err)
	}
	session := r.Session()
	if session.RecordKind != RecordKindSession {
		t.Errorf("RecordKind = %q, want %q", session.RecordKind, RecordKindSession)
	}
	if session.ClientVersion != types.Version {
		t.Errorf("ClientVersion = %q, want %q", session.ClientVersion, types.Version)
	}
	if session.RequestID != "req-1" {
		t.Errorf("RequestID = %q, want req-1", session.RequestID)
	}
	if session.Endpoint != "https://example.invalid/stream" {
		t.Errorf("Endpoint = %q", session.Endpoint)
	}
	if session.StartedAtMs <= 0 {
		t.Errorf("StartedAtMs = %d, want positive", session.StartedAtMs)
	}

	for i, want := range chunks {
		chunk, err := r.NextChunk()
		if err != nil {
			t.Fatalf("NextChunk() #%d error = %v", i, err)
		}
		if chunk.Seq != int64(i) {
			t.Errorf("chunk #%d Seq = %d, want %d", i, chunk.Seq, i)
		}
		if chunk.OffsetMs < 0 {
			t.Errorf("chunk #%d OffsetMs = %d, want non-negative", i, chunk.OffsetMs)
		}
		if !bytes.Equal(chunk.Data, want) {
			t.Errorf("chunk #%d Data = %v, want %v", i, chunk.Data, want)
		}
	}
	if _, err := r.NextChunk(); err != io.EOF {
		t.Errorf("NextChunk() at end = %v, want io.EOF", err)
	}
}

func TestWriterCountTrigger(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, WriterConfig{FlushCount: 2})
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}
	defer iox.DiscardClose(w)

	sessionLen := buf.Len()
	if err := w.Record([]byte("one")); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if buf.Len() != sessionLen {
		t.Errorf("buffer grew below the flush threshold: %d > %d", buf.Len(), sessionLen)
	}
	if err := w.Record([]byte("two")); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if buf.Len() <= sessionLen {
		t.Error("no flush at the count threshold")
	}
}

func TestWriterIntervalTrigger(t *testing.T) {
	buf := &syncBuffer{}
	w, err := NewWriter(buf, WriterConfig{FlushInterval: 5 * time.Millisecond})
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}
	defer iox.DiscardClose(w)

	sessionLen := buf.Len()
	if err := w.Record([]byte("interval")); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for buf.Len() == sessionLen {
		if time.Now().After(deadline) {
			t.Fatal("no interval flush within 2s")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestWriterExplicitFlush(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, WriterConfig{FlushCount: 100})
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}
	defer iox.DiscardClose(w)

	sessionLen := buf.Len()
	// Nothing buffered: Flush is a no-op.
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if buf.Len() != sessionLen {
		t.Error("empty Flush wrote data")
	}

	if err := w.Record([]byte("x")); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if buf.Len() <= sessionLen {
		t.Error("Flush did not write the buffered chunk")
	}
}

func TestWriterClosed(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, WriterConfig{})
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := w.Record([]byte("late")); !errors.Is(err, ErrWriterClosed) {
		t.Errorf("Record() after Close = %v, want ErrWriterClosed", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestWriterStickyFailure(t *testing.T) {
	writeErr := errors.New("disk full")
	// The session record is the one permitted write.
	fw := &failingWriter{okWrites: 1, err: writeErr}
	w, err := NewWriter(fw, WriterConfig{FlushCount: 1})
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}
	defer iox.DiscardClose(w)

	if err := w.Record([]byte("boom")); !errors.Is(err, writeErr) {
		t.Fatalf("Record() error = %v, want %v", err, writeErr)
	}
	if err := w.Record([]byte("after")); !errors.Is(err, writeErr) {
		t.Errorf("Record() after failure = %v, want the sticky %v", err, writeErr)
	}
	if err := w.Flush(); !errors.Is(err, writeErr) {
		t.Errorf("Flush() after failure = %v, want the sticky %v", err, writeErr)
	}
}

func TestWriterConfigValidation(t *testing.T) {
	var buf bytes.Buffer
	if _, err := NewWriter(&buf, WriterConfig{FlushCount: -1}); err == nil {
		t.Error("NewWriter(FlushCount: -1) error = nil, want rejection")
	}
	if _, err := NewWriter(&buf, WriterConfig{FlushInterval: -time.Second}); err == nil {
		t.Error("NewWriter(FlushInterval: -1s) error = nil, want rejection")
	}
}

func TestWriterSessionWriteFailure(t *testing.T) {
	fw := &failingWriter{okWrites: 0, err: errors.New("no space")}
	if _, err := NewWriter(fw, WriterConfig{}); err == nil {
		t.Error("NewWriter() error = nil, want session write failure")
	}
}
