// Package synth generates wire-complete synthetic assistant-response
// sessions for decoder tests, examples, and load generation without a
// live service. A Source encodes a configurable scenario once and then
// serves the bytes as an io.Reader with a bounded chunk size, so the
// same session can exercise any transport chunking.
package synth

import (
	"encoding/json"
	"fmt"
	"io"

	loremgen "github.com/bozaro/golorem"
	"github.com/google/uuid"

	"github.com/stevengonsalvez/amazon-q-streaming-client-go/eventstream"
	"github.com/stevengonsalvez/amazon-q-streaming-client-go/types"
)

// Wire header names and values for the frames a Source emits.
const (
	headerMessageType   = ":message-type"
	headerEventType     = ":event-type"
	headerExceptionType = ":exception-type"
	headerContentType   = ":content-type"

	messageTypeEvent     = "event"
	messageTypeException = "exception"

	contentTypeJSON = "application/json"
)

// Config describes the scenario a Source generates.
type Config struct {
	// ConversationID for the metadata event. Empty means a fresh UUID.
	ConversationID string

	// UtteranceID for the metadata event. Empty means a fresh UUID.
	UtteranceID string

	// Deltas is the number of assistantResponseEvent frames.
	// Zero means 8.
	Deltas int

	// WordsPerDelta sizes each delta's lorem sentence. Zero means 6.
	WordsPerDelta int

	// IncludeToolUse appends a three-fragment tool invocation after the
	// content deltas.
	IncludeToolUse bool

	// IncludeCodeReference appends a codeReferenceEvent.
	IncludeCodeReference bool

	// IncludeFollowup appends a followupPromptEvent.
	IncludeFollowup bool

	// ExceptionType, when set, ends the session with an exception of
	// that type instead of a clean end.
	ExceptionType string

	// ExceptionMessage is the exception payload's "message" field.
	// Empty means a fixed placeholder.
	ExceptionMessage string

	// ChunkLen bounds the bytes returned per Read call. Zero means
	// each Read fills the caller's buffer.
	ChunkLen int
}

// Source serves one encoded session. It is not safe for concurrent use.
type Source struct {
	events []types.Event
	wire   []byte
	off    int
	chunk  int
}

// NewSource builds the scenario described by cfg and encodes it.
func NewSource(cfg Config) (*Source, error) {
	if cfg.Deltas < 0 {
		return nil, fmt.Errorf("synth: Deltas must not be negative, got %d", cfg.Deltas)
	}
	if cfg.WordsPerDelta < 0 {
		return nil, fmt.Errorf("synth: WordsPerDelta must not be negative, got %d", cfg.WordsPerDelta)
	}
	if cfg.ChunkLen < 0 {
		return nil, fmt.Errorf("synth: ChunkLen must not be negative, got %d", cfg.ChunkLen)
	}
	deltas := cfg.Deltas
	if deltas == 0 {
		deltas = 8
	}
	words := cfg.WordsPerDelta
	if words == 0 {
		words = 6
	}
	conversationID := cfg.ConversationID
	if conversationID == "" {
		conversationID = uuid.NewString()
	}
	utteranceID := cfg.UtteranceID
	if utteranceID == "" {
		utteranceID = uuid.NewString()
	}

	gen := loremgen.New()
	events := []types.Event{
		types.MessageMetadataEvent{
			ConversationID: conversationID,
			UtteranceID:    utteranceID,
		},
	}
	for i := 0; i < deltas; i++ {
		events = append(events, types.AssistantResponseEvent{
			AssistantResponseMessage: types.AssistantResponseMessage{
				Content: gen.Sentence(words, words) + " ",
			},
		})
	}
	if cfg.IncludeToolUse {
		events = append(events, toolUseFragments(gen)...)
	}
	if cfg.IncludeCodeReference {
		start, end := 0, 24
		events = append(events, types.CodeReferenceEvent{
			References: []types.Reference{{
				LicenseName:               "Apache-2.0",
				Repository:                "github.com/example/corpus",
				URL:                       "https://github.com/example/corpus",
				RecommendationContentSpan: &types.Span{Start: &start, End: &end},
			}},
		})
	}
	if cfg.IncludeFollowup {
		events = append(events, types.FollowupPromptEvent{
			FollowupPrompt: &types.FollowupPrompt{
				Content:    gen.Sentence(4, 9),
				UserIntent: types.UserIntentShowExamples,
			},
		})
	}
	if cfg.ExceptionType != "" {
		msg := cfg.ExceptionMessage
		if msg == "" {
			msg = "synthetic service exception"
		}
		raw, err := json.Marshal(map[string]string{"message": msg})
		if err != nil {
			return nil, fmt.Errorf("synth: encode exception payload: %w", err)
		}
		events = append(events, types.ExceptionEvent{
			ExceptionType: cfg.ExceptionType,
			Message:       msg,
			Raw:           raw,
		})
	}

	var wire []byte
	for _, ev := range events {
		frame, err := encodeEvent(ev)
		if err != nil {
			return nil, err
		}
		wire = append(wire, frame...)
	}
	return &Source{events: events, wire: wire, chunk: cfg.ChunkLen}, nil
}

// toolUseFragments models one invocation the way the service streams
// it: the input JSON split across fragments, then a stop fragment.
func toolUseFragments(gen *loremgen.Lorem) []types.Event {
	toolUseID := uuid.NewString()
	input, _ := json.Marshal(map[string]string{"query": gen.Sentence(3, 6)})
	half := len(input) / 2
	return []types.Event{
		types.ToolUseEvent{ToolUseID: toolUseID, Name: "search_files", Input: string(input[:half])},
		types.ToolUseEvent{ToolUseID: toolUseID, Name: "search_files", Input: string(input[half:])},
		types.ToolUseEvent{ToolUseID: toolUseID, Name: "search_files", Stop: true},
	}
}

func encodeEvent(ev types.Event) ([]byte, error) {
	var headers eventstream.Headers
	var payload []byte
	switch e := ev.(type) {
	case types.ExceptionEvent:
		headers = eventstream.Headers{
			{Name: headerMessageType, Value: eventstream.StringValue(messageTypeException)},
			{Name: headerExceptionType, Value: eventstream.StringValue(e.ExceptionType)},
			{Name: headerContentType, Value: eventstream.StringValue(contentTypeJSON)},
		}
		payload = e.Raw
	default:
		body, err := json.Marshal(ev)
		if err != nil {
			return nil, fmt.Errorf("synth: encode %s payload: %w", ev.EventType(), err)
		}
		headers = eventstream.Headers{
			{Name: headerMessageType, Value: eventstream.StringValue(messageTypeEvent)},
			{Name: headerEventType, Value: eventstream.StringValue(string(ev.EventType()))},
			{Name: headerContentType, Value: eventstream.StringValue(contentTypeJSON)},
		}
		payload = body
	}
	frame, err := eventstream.EncodeFrame(&eventstream.Frame{Headers: headers, Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("synth: encode %s frame: %w", ev.EventType(), err)
	}
	return frame, nil
}

// Events returns the event sequence a decoder should produce from the
// session, in order.
func (s *Source) Events() []types.Event {
	return append([]types.Event(nil), s.events...)
}

// Wire returns a copy of the full encoded session.
func (s *Source) Wire() []byte {
	return append([]byte(nil), s.wire...)
}

// Read serves the next chunk of the encoded session and io.EOF once it
// is exhausted.
func (s *Source) Read(p []byte) (int, error) {
	if s.off >= len(s.wire) {
		return 0, io.EOF
	}
	n := len(p)
	if s.chunk > 0 && n > s.chunk {
		n = s.chunk
	}
	if rem := len(s.wire) - s.off; n > rem {
		n = rem
	}
	copy(p, s.wire[s.off:s.off+n])
	s.off += n
	return n, nil
}

// Reset rewinds the source so the session can be read again.
func (s *Source) Reset() {
	s.off = 0
}
