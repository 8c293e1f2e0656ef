// Package types defines the event model decoded from an assistant
// response stream, plus the request-side conversation shapes needed to
// start one. Event payloads are JSON with camelCase keys per
// CONTRACT_EVENTS.md.
//
//nolint:revive // types is a common Go package naming convention
package types

// EventType identifies the decoded variant of a stream event. Known
// values match the ":event-type" names used on the wire.
type EventType string

// Event type constants per CONTRACT_EVENTS.md.
const (
	EventTypeMessageMetadata   EventType = "messageMetadataEvent"
	EventTypeAssistantResponse EventType = "assistantResponseEvent"
	EventTypeToolUse           EventType = "toolUseEvent"
	EventTypeCitation          EventType = "citationEvent"
	EventTypeFollowupPrompt    EventType = "followupPromptEvent"
	EventTypeCodeReference     EventType = "codeReferenceEvent"
	EventTypeInvalidState      EventType = "invalidStateEvent"
	// EventTypeException marks a service exception delivered in-stream.
	EventTypeException EventType = "exception"
)

// IsTerminal returns true if an event of this type ends the stream.
// An exception is yielded to the caller once and nothing follows it.
func (t EventType) IsTerminal() bool {
	return t == EventTypeException
}

// Event is one decoded unit of the response stream, derived from
// exactly one wire frame. Concrete types are the *Event structs in
// this package; callers dispatch with a type switch or on EventType.
type Event interface {
	EventType() EventType
}

// MessageMetadataEvent opens a response and carries the identifiers
// the caller needs to thread the conversation.
type MessageMetadataEvent struct {
	// ConversationID identifies the conversation, newly minted on the
	// first turn.
	ConversationID string `json:"conversationId,omitempty"`
	// UtteranceID identifies this response within the conversation.
	UtteranceID string `json:"utteranceId,omitempty"`
}

func (MessageMetadataEvent) EventType() EventType { return EventTypeMessageMetadata }

// AssistantResponseEvent carries one incremental chunk of assistant
// output. Concatenating Content across events in arrival order yields
// the full response text.
type AssistantResponseEvent struct {
	AssistantResponseMessage
}

func (AssistantResponseEvent) EventType() EventType { return EventTypeAssistantResponse }

// ToolUseEvent streams one tool invocation. Input arrives as string
// fragments that concatenate into a JSON document; Stop marks the
// final fragment for a given ToolUseID.
type ToolUseEvent struct {
	// ToolUseID correlates the fragments of one invocation.
	ToolUseID string `json:"toolUseId"`
	// Name is the tool being invoked.
	Name string `json:"name"`
	// Input is this fragment of the serialised tool input.
	Input string `json:"input,omitempty"`
	// Stop is set on the last fragment of the invocation.
	Stop bool `json:"stop,omitempty"`
}

func (ToolUseEvent) EventType() EventType { return EventTypeToolUse }

// CitationEvent attaches a source citation to preceding content.
type CitationEvent struct {
	// Target is the granularity the citation applies to.
	Target CitationTarget `json:"target"`
	// CitationText is the cited text, when the service includes it.
	CitationText string `json:"citationText,omitempty"`
	// CitationLink is the source URL.
	CitationLink string `json:"citationLink"`
}

func (CitationEvent) EventType() EventType { return EventTypeCitation }

// FollowupPromptEvent suggests a next user turn.
type FollowupPromptEvent struct {
	FollowupPrompt *FollowupPrompt `json:"followupPrompt,omitempty"`
}

func (FollowupPromptEvent) EventType() EventType { return EventTypeFollowupPrompt }

// CodeReferenceEvent attributes streamed code to its source licenses.
type CodeReferenceEvent struct {
	References []Reference `json:"references,omitempty"`
}

func (CodeReferenceEvent) EventType() EventType { return EventTypeCodeReference }

// InvalidStateEvent reports that the service rejected the conversation
// state mid-stream.
type InvalidStateEvent struct {
	Reason  InvalidStateReason `json:"reason"`
	Message string             `json:"message"`
}

func (InvalidStateEvent) EventType() EventType { return EventTypeInvalidState }

// ExceptionEvent is a service exception delivered on the stream. It is
// yielded to the caller as an ordinary event and then terminates the
// stream; it is never raised as a decode error.
type ExceptionEvent struct {
	// ExceptionType is the service's exception name, for example
	// "ThrottlingException".
	ExceptionType string `json:"exceptionType"`
	// Message is the human-readable detail extracted from the payload
	// when the payload is well-formed JSON.
	Message string `json:"message,omitempty"`
	// Raw preserves the exception payload verbatim for callers that
	// need more than Message.
	Raw []byte `json:"-"`
}

func (ExceptionEvent) EventType() EventType { return EventTypeException }

// UnknownEvent preserves an event whose ":event-type" this package
// does not model. The stream continues past it.
type UnknownEvent struct {
	// TypeName is the wire ":event-type" value.
	TypeName string `json:"typeName"`
	// Payload preserves the frame payload verbatim.
	Payload []byte `json:"-"`
}

// EventType returns the wire type name, so counters and logs record
// the real value rather than a placeholder.
func (e UnknownEvent) EventType() EventType { return EventType(e.TypeName) }
