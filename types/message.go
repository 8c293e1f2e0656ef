//nolint:revive // types is a common Go package naming convention
package types

// SupplementaryWebLink is a web source the assistant consulted.
type SupplementaryWebLink struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Snippet string `json:"snippet,omitempty"`
}

// Span is a half-open character range within streamed content.
// Pointers distinguish an absent bound from offset zero.
type Span struct {
	Start *int `json:"start,omitempty"`
	End   *int `json:"end,omitempty"`
}

// Reference attributes generated code to its origin.
type Reference struct {
	LicenseName               string `json:"licenseName,omitempty"`
	Repository                string `json:"repository,omitempty"`
	URL                       string `json:"url,omitempty"`
	RecommendationContentSpan *Span  `json:"recommendationContentSpan,omitempty"`
}

// UserIntent is the declared purpose of a user turn.
type UserIntent string

const (
	UserIntentApplyCommonBestPractices       UserIntent = "APPLY_COMMON_BEST_PRACTICES"
	UserIntentCiteSources                    UserIntent = "CITE_SOURCES"
	UserIntentCodeGeneration                 UserIntent = "CODE_GENERATION"
	UserIntentExplainCodeSelection           UserIntent = "EXPLAIN_CODE_SELECTION"
	UserIntentExplainLineByLine              UserIntent = "EXPLAIN_LINE_BY_LINE"
	UserIntentGenerateCloudformationTemplate UserIntent = "GENERATE_CLOUDFORMATION_TEMPLATE"
	UserIntentGenerateUnitTests              UserIntent = "GENERATE_UNIT_TESTS"
	UserIntentImproveCode                    UserIntent = "IMPROVE_CODE"
	UserIntentShowExamples                   UserIntent = "SHOW_EXAMPLES"
	UserIntentSuggestAlternateImplementation UserIntent = "SUGGEST_ALTERNATE_IMPLEMENTATION"
)

// FollowupPrompt is a suggested next user turn.
type FollowupPrompt struct {
	Content    string     `json:"content"`
	UserIntent UserIntent `json:"userIntent,omitempty"`
}

// ToolUse is a completed tool invocation inside an assistant message,
// as opposed to the streamed fragments of ToolUseEvent.
type ToolUse struct {
	ToolUseID string `json:"toolUseId"`
	Name      string `json:"name"`
	// Input is the parsed tool input document.
	Input any `json:"input,omitempty"`
}

// AssistantResponseMessage is one assistant turn. The streaming
// AssistantResponseEvent embeds it, and conversation history carries
// it whole.
type AssistantResponseMessage struct {
	// MessageID identifies the turn when the service assigns one.
	MessageID string `json:"messageId,omitempty"`
	// Content is the assistant text, or one chunk of it in streaming
	// position.
	Content string `json:"content"`
	// SupplementaryWebLinks lists consulted web sources.
	SupplementaryWebLinks []SupplementaryWebLink `json:"supplementaryWebLinks,omitempty"`
	// References lists license attributions for generated code.
	References []Reference `json:"references,omitempty"`
	// FollowupPrompt is a suggested next turn.
	FollowupPrompt *FollowupPrompt `json:"followupPrompt,omitempty"`
	// ToolUses lists tool invocations made during the turn.
	ToolUses []ToolUse `json:"toolUses,omitempty"`
}

// CitationTarget is the granularity a citation applies to.
type CitationTarget string

const (
	CitationTargetParagraph CitationTarget = "PARAGRAPH"
	CitationTargetSentence  CitationTarget = "SENTENCE"
	CitationTargetWord      CitationTarget = "WORD"
)

// InvalidStateReason explains an InvalidStateEvent.
type InvalidStateReason string

const (
	InvalidStateInvalidConversationState InvalidStateReason = "INVALID_CONVERSATION_STATE"
	InvalidStateInvalidRequestContent    InvalidStateReason = "INVALID_REQUEST_CONTENT"
	InvalidStateInvalidAuthToken         InvalidStateReason = "INVALID_AUTH_TOKEN"
	InvalidStateUnknown                  InvalidStateReason = "UNKNOWN"
)
