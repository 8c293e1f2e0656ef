package capture

import (
	"bytes"
	"io"
	"testing"

	"github.com/stevengonsalvez/amazon-q-streaming-client-go/iox"
)

// BenchmarkWriterRecord measures per-chunk recording throughput with the
// default count trigger, flush cost amortized over the loop.
func BenchmarkWriterRecord(b *testing.B) {
	w, err := NewWriter(io.Discard, WriterConfig{RequestID: "bench-req-001"})
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(iox.CloseFunc(w))

	chunk := make([]byte, 4096)

	b.ReportAllocs()
	b.SetBytes(int64(len(chunk)))
	for i := 0; i < b.N; i++ {
		if err := w.Record(chunk); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkReaderReplay measures replay throughput over an in-memory
// capture of 64 transport chunks.
func BenchmarkReaderReplay(b *testing.B) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, WriterConfig{RequestID: "bench-req-001"})
	if err != nil {
		b.Fatal(err)
	}
	chunk := make([]byte, 4096)
	for i := 0; i < 64; i++ {
		if err := w.Record(chunk); err != nil {
			b.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		b.Fatal(err)
	}
	data := buf.Bytes()

	b.ReportAllocs()
	b.SetBytes(int64(64 * len(chunk)))
	for i := 0; i < b.N; i++ {
		r, err := NewReader(bytes.NewReader(data))
		if err != nil {
			b.Fatal(err)
		}
		if _, err := io.Copy(io.Discard, r); err != nil {
			b.Fatal(err)
		}
	}
}
