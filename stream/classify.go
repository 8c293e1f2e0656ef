// Package stream turns a chunked transport byte stream into an
// ordered sequence of typed events per CONTRACT_EVENTS.md.
//
// EventStream is the entry point for live transports. Classify and
// DecodeEvent expose the frame-to-event mapping on its own for replay
// and inspection tooling.
package stream

import (
	"encoding/json"
	"fmt"

	"github.com/stevengonsalvez/amazon-q-streaming-client-go/eventstream"
	"github.com/stevengonsalvez/amazon-q-streaming-client-go/types"
)

// Control header names per CONTRACT_EVENTS.md.
const (
	headerMessageType   = ":message-type"
	headerEventType     = ":event-type"
	headerExceptionType = ":exception-type"
	headerErrorCode     = ":error-code"
	headerErrorMessage  = ":error-message"
)

// Known ":message-type" values.
const (
	messageTypeEvent     = "event"
	messageTypeException = "exception"
	messageTypeError     = "error"
)

// Classify maps one verified frame onto its typed event.
//
// Frames with message type "event" dispatch on ":event-type"; an event
// name this package does not model becomes an UnknownEvent rather than
// an error, so new service events never break older clients. Frames
// with message type "exception" or "error" become ExceptionEvents. A
// frame with no ":message-type", an unsupported message type, or an
// unparseable payload for a known event is a structural error.
func Classify(f *eventstream.Frame) (types.Event, error) {
	messageType, ok := f.Headers.GetString(headerMessageType)
	if !ok {
		return nil, classifyErrf("frame has no %s header", headerMessageType)
	}
	switch messageType {
	case messageTypeEvent:
		eventType, ok := f.Headers.GetString(headerEventType)
		if !ok {
			return nil, classifyErrf("event frame has no %s header", headerEventType)
		}
		return decodeEvent(eventType, f.Payload)
	case messageTypeException:
		return decodeException(f), nil
	case messageTypeError:
		return decodeErrorFrame(f), nil
	default:
		return nil, classifyErrf("unsupported %s %q", headerMessageType, messageType)
	}
}

// DecodeEvent decodes and classifies one standalone frame. It is a
// convenience for tooling that already holds complete frames, such as
// capture inspection; live transports go through EventStream.
func DecodeEvent(data []byte) (types.Event, error) {
	frame, err := eventstream.DecodeFrame(data)
	if err != nil {
		return nil, err
	}
	return Classify(frame)
}

func decodeEvent(eventType string, payload []byte) (types.Event, error) {
	switch types.EventType(eventType) {
	case types.EventTypeMessageMetadata:
		var ev types.MessageMetadataEvent
		if err := unmarshalPayload(eventType, payload, &ev); err != nil {
			return nil, err
		}
		return ev, nil
	case types.EventTypeAssistantResponse:
		var ev types.AssistantResponseEvent
		if err := unmarshalPayload(eventType, payload, &ev); err != nil {
			return nil, err
		}
		return ev, nil
	case types.EventTypeToolUse:
		var ev types.ToolUseEvent
		if err := unmarshalPayload(eventType, payload, &ev); err != nil {
			return nil, err
		}
		return ev, nil
	case types.EventTypeCitation:
		var ev types.CitationEvent
		if err := unmarshalPayload(eventType, payload, &ev); err != nil {
			return nil, err
		}
		return ev, nil
	case types.EventTypeFollowupPrompt:
		var ev types.FollowupPromptEvent
		if err := unmarshalPayload(eventType, payload, &ev); err != nil {
			return nil, err
		}
		return ev, nil
	case types.EventTypeCodeReference:
		var ev types.CodeReferenceEvent
		if err := unmarshalPayload(eventType, payload, &ev); err != nil {
			return nil, err
		}
		return ev, nil
	case types.EventTypeInvalidState:
		var ev types.InvalidStateEvent
		if err := unmarshalPayload(eventType, payload, &ev); err != nil {
			return nil, err
		}
		return ev, nil
	default:
		return types.UnknownEvent{TypeName: eventType, Payload: payload}, nil
	}
}

// unmarshalPayload decodes a known event payload. Junk JSON inside a
// checksum-valid frame means the producer and this client disagree
// about the contract, which is fatal, unlike an unknown event name.
func unmarshalPayload(eventType string, payload []byte, dst any) error {
	if err := json.Unmarshal(payload, dst); err != nil {
		return &eventstream.Error{
			Kind: eventstream.KindStructural,
			Msg:  fmt.Sprintf("payload of %s is not valid JSON", eventType),
			Err:  err,
		}
	}
	return nil
}

func decodeException(f *eventstream.Frame) types.ExceptionEvent {
	name, ok := f.Headers.GetString(headerExceptionType)
	if !ok {
		name = "UnknownException"
	}
	return types.ExceptionEvent{
		ExceptionType: name,
		Message:       exceptionMessage(f.Payload),
		Raw:           f.Payload,
	}
}

// decodeErrorFrame maps a plain error frame onto an ExceptionEvent so
// callers handle both service failure shapes the same way.
func decodeErrorFrame(f *eventstream.Frame) types.ExceptionEvent {
	code, ok := f.Headers.GetString(headerErrorCode)
	if !ok {
		code = "UnknownError"
	}
	msg, _ := f.Headers.GetString(headerErrorMessage)
	if msg == "" {
		msg = exceptionMessage(f.Payload)
	}
	return types.ExceptionEvent{
		ExceptionType: code,
		Message:       msg,
		Raw:           f.Payload,
	}
}

// exceptionMessage pulls the conventional "message" field out of an
// exception payload. Exceptions surface whatever the service sent, so
// a payload that is not JSON yields no message and callers fall back
// to Raw.
func exceptionMessage(payload []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	return body.Message
}

func classifyErrf(format string, args ...any) *eventstream.Error {
	return &eventstream.Error{
		Kind: eventstream.KindStructural,
		Msg:  fmt.Sprintf(format, args...),
	}
}
