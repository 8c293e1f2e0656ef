// Package metrics provides per-stream metrics collection.
//
// The Collector accumulates counters while one response stream is
// decoded. It is a leaf package with no internal dependencies. Event
// type keys are plain strings to keep it free of the types package.
package metrics

import "sync"

// Snapshot is an immutable point-in-time view of all stream counters.
// Returned by Collector.Snapshot(). Safe to read concurrently after
// creation.
type Snapshot struct {
	// Decode progress
	FramesDecoded int64
	BytesDecoded  int64
	EventsByType  map[string]int64

	// Failures, keyed by decode error kind
	StructuralErrors int64
	ChecksumErrors   int64
	TruncationErrors int64
	TransportErrors  int64

	// Service exceptions yielded to the caller
	ExceptionsDelivered int64

	// Dimensions (informational, set at construction)
	RequestID string
	Endpoint  string
}

// Collector accumulates metrics for a single response stream.
// Thread-safe via sync.Mutex. All increment methods are nil-receiver
// safe, so callers that opt out of metrics pass nil and nothing else
// changes.
type Collector struct {
	mu sync.Mutex

	// Decode progress
	framesDecoded int64
	bytesDecoded  int64
	eventsByType  map[string]int64

	// Failures
	structuralErrors int64
	checksumErrors   int64
	truncationErrors int64
	transportErrors  int64

	// Service exceptions
	exceptionsDelivered int64

	// Dimensions
	requestID string
	endpoint  string
}

// NewCollector creates a Collector with dimension labels. requestID
// identifies the stream; endpoint is the transport destination and may
// be empty for replayed or synthetic sources.
func NewCollector(requestID, endpoint string) *Collector {
	return &Collector{
		eventsByType: make(map[string]int64),
		requestID:    requestID,
		endpoint:     endpoint,
	}
}

// --- Decode progress ---

// IncFrameDecoded records one fully validated frame and its wire size.
func (c *Collector) IncFrameDecoded(wireBytes int) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.framesDecoded++
	c.bytesDecoded += int64(wireBytes)
	c.mu.Unlock()
}

// IncEvent records one classified event by its wire type name.
func (c *Collector) IncEvent(eventType string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.eventsByType[eventType]++
	c.mu.Unlock()
}

// --- Failures ---

// IncStructuralError records a frame rejected for violating declared
// lengths or layout.
func (c *Collector) IncStructuralError() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.structuralErrors++
	c.mu.Unlock()
}

// IncChecksumError records a frame rejected on CRC mismatch.
func (c *Collector) IncChecksumError() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.checksumErrors++
	c.mu.Unlock()
}

// IncTruncationError records a source that ended mid-frame.
func (c *Collector) IncTruncationError() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.truncationErrors++
	c.mu.Unlock()
}

// IncTransportError records a transport read failure.
func (c *Collector) IncTransportError() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.transportErrors++
	c.mu.Unlock()
}

// --- Service exceptions ---

// IncExceptionDelivered records a service exception yielded to the
// caller as the stream's final event.
func (c *Collector) IncExceptionDelivered() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.exceptionsDelivered++
	c.mu.Unlock()
}

// --- Snapshot ---

// Snapshot returns an immutable point-in-time view of all counters.
// The returned Snapshot is safe to read concurrently; the Collector
// can continue to be mutated independently.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	events := make(map[string]int64, len(c.eventsByType))
	for k, v := range c.eventsByType {
		events[k] = v
	}

	return Snapshot{
		FramesDecoded: c.framesDecoded,
		BytesDecoded:  c.bytesDecoded,
		EventsByType:  events,

		StructuralErrors: c.structuralErrors,
		ChecksumErrors:   c.checksumErrors,
		TruncationErrors: c.truncationErrors,
		TransportErrors:  c.transportErrors,

		ExceptionsDelivered: c.exceptionsDelivered,

		RequestID: c.requestID,
		Endpoint:  c.endpoint,
	}
}
