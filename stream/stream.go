package stream

import (
	"context"
	"fmt"
	"io"

	"github.com/stevengonsalvez/amazon-q-streaming-client-go/eventstream"
	"github.com/stevengonsalvez/amazon-q-streaming-client-go/log"
	"github.com/stevengonsalvez/amazon-q-streaming-client-go/metrics"
	"github.com/stevengonsalvez/amazon-q-streaming-client-go/types"
)

// defaultReadChunkLen is the transport read buffer when the caller
// does not set one.
const defaultReadChunkLen = 32 << 10

// Config configures an EventStream. The zero value is usable.
type Config struct {
	// MaxFrameLen caps the declared length of any single frame. Zero
	// means eventstream.DefaultMaxFrameLen.
	MaxFrameLen uint32
	// ReadChunkLen sets the transport read buffer size. Zero means
	// 32 KiB.
	ReadChunkLen int
	// Logger records decode progress and failures. Nil disables
	// logging.
	Logger *log.Logger
	// Collector accumulates stream counters. Nil disables metrics.
	Collector *metrics.Collector
}

// EventStream is a lazy pull iterator over the events of one response
// stream. Each Next reads the transport only as far as the next
// complete frame: no read-ahead, no goroutines, and decode work happens
// on the caller's goroutine.
//
// Usage:
//
//	es := stream.New(ctx, resp.Body, stream.Config{})
//	for es.Next() {
//		switch ev := es.Current().(type) {
//		case types.AssistantResponseEvent:
//			fmt.Print(ev.Content)
//		case types.ExceptionEvent:
//			// terminal; the loop ends after this event
//		}
//	}
//	if err := es.Err(); err != nil {
//		// the stream failed; events seen so far remain valid
//	}
//
// Not safe for concurrent use.
type EventStream struct {
	ctx       context.Context
	src       io.Reader
	frames    *eventstream.FrameReader
	scratch   []byte
	logger    *log.Logger
	collector *metrics.Collector

	cur      types.Event
	err      error
	done     bool
	terminal bool
	eof      bool
}

// New creates an EventStream over src, which is typically an HTTP
// response body. The stream never closes src; callers own its
// lifecycle. Cancelling ctx stops the stream at the next Next call
// without reading further.
func New(ctx context.Context, src io.Reader, cfg Config) *EventStream {
	if ctx == nil {
		ctx = context.Background()
	}
	chunkLen := cfg.ReadChunkLen
	if chunkLen <= 0 {
		chunkLen = defaultReadChunkLen
	}
	return &EventStream{
		ctx:       ctx,
		src:       src,
		frames:    eventstream.NewFrameReader(cfg.MaxFrameLen),
		scratch:   make([]byte, chunkLen),
		logger:    cfg.Logger,
		collector: cfg.Collector,
	}
}

// Next advances to the next event and reports whether one is
// available. It returns false when the stream ends, fails, or is
// cancelled; Err distinguishes failure from a clean end.
func (s *EventStream) Next() bool {
	if s.done {
		return false
	}
	if s.terminal {
		// The terminal event was yielded on the previous call. Any
		// bytes still buffered after it are abandoned unread.
		s.finish(nil)
		return false
	}
	for {
		if err := s.ctx.Err(); err != nil {
			s.logDebug("stream cancelled", map[string]any{"buffered_bytes": s.frames.Buffered()})
			s.finish(err)
			return false
		}
		data, ok, err := s.frames.Frame()
		if err != nil {
			s.failDecode(err)
			return false
		}
		if ok {
			return s.yield(data)
		}
		if s.eof {
			if err := s.frames.EndOfStream(); err != nil {
				s.failDecode(err)
				return false
			}
			s.logDebug("stream ended cleanly", nil)
			s.finish(nil)
			return false
		}
		n, err := s.src.Read(s.scratch)
		if n > 0 {
			s.frames.Feed(s.scratch[:n])
		}
		if err == io.EOF {
			s.eof = true
			continue
		}
		if err != nil {
			s.collector.IncTransportError()
			s.logError("transport read failed", err)
			s.finish(fmt.Errorf("transport read: %w", err))
			return false
		}
	}
}

// yield decodes and classifies one extracted frame, making it the
// current event.
func (s *EventStream) yield(data []byte) bool {
	frame, err := eventstream.DecodeFrame(data)
	if err != nil {
		s.failDecode(err)
		return false
	}
	ev, err := Classify(frame)
	if err != nil {
		s.failDecode(err)
		return false
	}
	s.collector.IncFrameDecoded(len(data))
	s.collector.IncEvent(string(ev.EventType()))
	s.cur = ev
	if exc, isExc := ev.(types.ExceptionEvent); isExc {
		s.terminal = true
		s.collector.IncExceptionDelivered()
		s.logInfo("service exception received", map[string]any{
			"exception_type": exc.ExceptionType,
			"message":        exc.Message,
		})
	} else {
		s.logDebug("event decoded", map[string]any{
			"event_type":    string(ev.EventType()),
			"frame_bytes":   len(data),
			"payload_bytes": len(frame.Payload),
		})
	}
	return true
}

// Current returns the event produced by the most recent successful
// Next. Events already returned stay valid for as long as the caller
// holds them; they never alias stream buffers.
func (s *EventStream) Current() types.Event { return s.cur }

// Err returns the error that ended the stream, or nil after a clean
// end. A service exception is not an error here; it arrives through
// Current as the final event.
func (s *EventStream) Err() error { return s.err }

// Close abandons the stream and releases its buffers. It never reads
// the transport; closing the underlying body remains the caller's
// responsibility. Safe to call repeatedly and after exhaustion.
func (s *EventStream) Close() error {
	if !s.done {
		s.done = true
		s.release()
	}
	return nil
}

func (s *EventStream) failDecode(err error) {
	switch {
	case eventstream.IsStructural(err):
		s.collector.IncStructuralError()
	case eventstream.IsChecksum(err):
		s.collector.IncChecksumError()
	case eventstream.IsTruncated(err):
		s.collector.IncTruncationError()
	}
	s.logError("stream decode failed", err)
	s.finish(err)
}

func (s *EventStream) finish(err error) {
	s.err = err
	s.done = true
	s.release()
}

func (s *EventStream) release() {
	s.frames.Reset()
	s.scratch = nil
}

func (s *EventStream) logDebug(msg string, fields map[string]any) {
	if s.logger != nil {
		s.logger.Debug(msg, fields)
	}
}

func (s *EventStream) logInfo(msg string, fields map[string]any) {
	if s.logger != nil {
		s.logger.Info(msg, fields)
	}
}

func (s *EventStream) logError(msg string, err error) {
	if s.logger != nil {
		s.logger.Error(msg, map[string]any{"error": err.Error()})
	}
}
