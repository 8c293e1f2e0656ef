package capture

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/stevengonsalvez/amazon-q-streaming-client-go/log"
	"github.com/stevengonsalvez/amazon-q-streaming-client-go/types"
)

// FlushTrigger identifies which trigger caused a flush.
type FlushTrigger string

const (
	// FlushTriggerCount indicates a count-threshold flush.
	FlushTriggerCount FlushTrigger = "count"
	// FlushTriggerInterval indicates an interval-based flush.
	FlushTriggerInterval FlushTrigger = "interval"
	// FlushTriggerClose indicates the final flush on Close or an
	// explicit Flush call.
	FlushTriggerClose FlushTrigger = "close"
)

// DefaultFlushCount applies when neither flush trigger is configured.
const DefaultFlushCount = 32

// WriterConfig configures a Writer.
type WriterConfig struct {
	// RequestID labels the recording. Optional.
	RequestID string

	// Endpoint is the URL the session was streamed from. Optional.
	Endpoint string

	// FlushCount triggers a flush after N chunks accumulate. Zero
	// means count-based flush is disabled, unless FlushInterval is
	// also zero, in which case DefaultFlushCount applies.
	FlushCount int

	// FlushInterval triggers a flush every interval.
	// Zero means interval-based flush is disabled.
	FlushInterval time.Duration

	// Logger is an optional logger for capture observability.
	Logger *log.Logger
}

// Writer records transport chunks to an underlying writer. Chunks
// accumulate in memory and reach the file when a flush trigger fires,
// so recording stays off the hot path of a live stream. A write
// failure is sticky: the capture is abandoned and every later call
// reports the same error, while the live stream it was tapping
// continues untouched.
//
// Writer never closes the underlying writer; that stays with the
// caller, matching the stream package's posture toward response
// bodies.
type Writer struct {
	w      io.Writer
	config WriterConfig
	logger *log.Logger
	start  time.Time

	mu     sync.Mutex // guards buf, seq, err, closed
	buf    []ChunkRecord
	seq    int64
	err    error
	closed bool

	// flushMu serializes flush operations from the interval goroutine
	// and the count trigger.
	flushMu sync.Mutex

	// stopCh signals the interval goroutine to stop.
	stopCh chan struct{}
}

// NewWriter writes the opening session record and returns a Writer.
func NewWriter(w io.Writer, config WriterConfig) (*Writer, error) {
	if config.FlushCount < 0 {
		return nil, fmt.Errorf("capture: FlushCount must not be negative, got %d", config.FlushCount)
	}
	if config.FlushInterval < 0 {
		return nil, fmt.Errorf("capture: FlushInterval must not be negative, got %v", config.FlushInterval)
	}
	if config.FlushCount == 0 && config.FlushInterval == 0 {
		config.FlushCount = DefaultFlushCount
	}

	cw := &Writer{
		w:      w,
		config: config,
		logger: config.Logger,
		start:  time.Now(),
		buf:    make([]ChunkRecord, 0, config.FlushCount),
		stopCh: make(chan struct{}),
	}
	session, err := encodeRecord(SessionRecord{
		RecordKind:    RecordKindSession,
		ClientVersion: types.Version,
		RequestID:     config.RequestID,
		Endpoint:      config.Endpoint,
		StartedAtMs:   cw.start.UnixMilli(),
	})
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(session); err != nil {
		return nil, fmt.Errorf("capture: write session record: %w", err)
	}

	if config.FlushInterval > 0 {
		go cw.intervalLoop()
	}
	return cw, nil
}

// Record buffers one chunk. The bytes are copied; the caller may reuse
// chunk immediately. If the count threshold is reached, the buffer is
// flushed before Record returns.
func (w *Writer) Record(chunk []byte) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWriterClosed
	}
	if w.err != nil {
		err := w.err
		w.mu.Unlock()
		return err
	}
	w.buf = append(w.buf, ChunkRecord{
		RecordKind: RecordKindChunk,
		Seq:        w.seq,
		OffsetMs:   time.Since(w.start).Milliseconds(),
		Data:       append([]byte(nil), chunk...),
	})
	w.seq++
	shouldFlush := w.config.FlushCount > 0 && len(w.buf) >= w.config.FlushCount
	w.mu.Unlock()

	if shouldFlush {
		return w.triggerFlush(FlushTriggerCount)
	}
	return nil
}

// Flush writes all buffered chunks to the underlying writer.
func (w *Writer) Flush() error {
	return w.triggerFlush(FlushTriggerClose)
}

// Close flushes the buffer and stops the interval goroutine. The
// underlying writer is left open. Safe to call repeatedly.
func (w *Writer) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.stopCh)
	w.mu.Unlock()

	return w.triggerFlush(FlushTriggerClose)
}

// triggerFlush performs a flush with the given trigger reason.
//
// Strategy per the buffered-write posture: swap the buffer under mu,
// write outside mu so Record keeps appending to a fresh buffer during
// the write. A failed write poisons the Writer rather than restoring
// the buffer; the file may already hold a partial record, so retrying
// would corrupt the capture.
func (w *Writer) triggerFlush(trigger FlushTrigger) error {
	w.flushMu.Lock()
	defer w.flushMu.Unlock()

	w.mu.Lock()
	if w.err != nil {
		err := w.err
		w.mu.Unlock()
		return err
	}
	records := w.buf
	if len(records) == 0 {
		w.mu.Unlock()
		return nil
	}
	w.buf = make([]ChunkRecord, 0, cap(records))
	w.mu.Unlock()

	for i := range records {
		encoded, err := encodeRecord(&records[i])
		if err == nil {
			_, err = w.w.Write(encoded)
		}
		if err != nil {
			w.mu.Lock()
			w.err = err
			w.mu.Unlock()
			w.logFlushFailure(trigger, err)
			return err
		}
	}
	w.logFlush(trigger, len(records))
	return nil
}

// intervalLoop runs in a goroutine and flushes on the configured
// interval. Interval flush failures are sticky like any other write
// failure; the loop keeps draining the ticker until Close.
func (w *Writer) intervalLoop() {
	ticker := time.NewTicker(w.config.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.mu.Lock()
			hasData := len(w.buf) > 0 && w.err == nil
			w.mu.Unlock()
			if hasData {
				_ = w.triggerFlush(FlushTriggerInterval)
			}
		case <-w.stopCh:
			return
		}
	}
}

func (w *Writer) logFlush(trigger FlushTrigger, chunks int) {
	if w.logger == nil {
		return
	}
	w.logger.Debug("capture flush", map[string]any{
		"trigger": string(trigger),
		"chunks":  chunks,
	})
}

func (w *Writer) logFlushFailure(trigger FlushTrigger, err error) {
	if w.logger == nil {
		return
	}
	w.logger.Error("capture flush failed", map[string]any{
		"trigger": string(trigger),
		"error":   err.Error(),
	})
}
