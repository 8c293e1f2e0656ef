//nolint:revive // types is a common Go package naming convention
package types

// Origin identifies the surface a conversation comes from.
type Origin string

const (
	OriginAIEditor            Origin = "AI_EDITOR"
	OriginChatbot             Origin = "CHATBOT"
	OriginCLI                 Origin = "CLI"
	OriginConsole             Origin = "CONSOLE"
	OriginDocumentation       Origin = "DOCUMENTATION"
	OriginGitlab              Origin = "GITLAB"
	OriginIDE                 Origin = "IDE"
	OriginMarketing           Origin = "MARKETING"
	OriginMD                  Origin = "MD"
	OriginMobile              Origin = "MOBILE"
	OriginOpensearchDashboard Origin = "OPENSEARCH_DASHBOARD"
	OriginSageMaker           Origin = "SAGE_MAKER"
	OriginServiceInternal     Origin = "SERVICE_INTERNAL"
	OriginUnifiedSearch       Origin = "UNIFIED_SEARCH"
	OriginUnknown             Origin = "UNKNOWN"
)

// ImageFormat is a supported inline image encoding.
type ImageFormat string

const (
	ImageFormatJPEG ImageFormat = "JPEG"
	ImageFormatPNG  ImageFormat = "PNG"
)

// ImageSource carries inline image bytes.
type ImageSource struct {
	// Bytes is the base64-encoded image.
	Bytes string `json:"bytes"`
}

// ImageBlock is one image attached to a user turn.
type ImageBlock struct {
	Format ImageFormat `json:"format"`
	Source ImageSource `json:"source"`
}

// TextDocument is the file a user is editing.
type TextDocument struct {
	FilePath            string `json:"filePath"`
	Content             string `json:"content"`
	ProgrammingLanguage string `json:"programmingLanguage,omitempty"`
}

// CursorState is the caret position within the active document.
type CursorState struct {
	Position int `json:"position"`
}

// RelevantTextDocument is auxiliary file context for a turn.
type RelevantTextDocument struct {
	FilePath            string `json:"filePath"`
	Content             string `json:"content"`
	ProgrammingLanguage string `json:"programmingLanguage,omitempty"`
}

// EditorState describes the IDE context at the moment of the turn.
type EditorState struct {
	Document             *TextDocument          `json:"document,omitempty"`
	CursorState          *CursorState           `json:"cursorState,omitempty"`
	RelevantDocuments    []RelevantTextDocument `json:"relevantDocuments,omitempty"`
	UseRelevantDocuments *bool                  `json:"useRelevantDocuments,omitempty"`
	WorkspaceFolders     []string               `json:"workspaceFolders,omitempty"`
}

// ShellHistoryEntry is one prior shell command.
type ShellHistoryEntry struct {
	Command  string `json:"command"`
	ExitCode *int   `json:"exitCode,omitempty"`
}

// ShellState describes the user's shell session.
type ShellState struct {
	ShellName    string              `json:"shellName"`
	ShellHistory []ShellHistoryEntry `json:"shellHistory,omitempty"`
}

// GitState summarises the working repository.
type GitState struct {
	RepositoryRoot  string `json:"repositoryRoot,omitempty"`
	BranchName      string `json:"branchName,omitempty"`
	CommitID        string `json:"commitId,omitempty"`
	StagedChanges   string `json:"stagedChanges,omitempty"`
	UnstagedChanges string `json:"unstagedChanges,omitempty"`
	UntrackedFiles  string `json:"untrackedFiles,omitempty"`
}

// EnvironmentVariable is one exported variable.
type EnvironmentVariable struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// EnvState lists environment variables relevant to the turn.
type EnvState struct {
	EnvironmentVariables []EnvironmentVariable `json:"environmentVariables,omitempty"`
}

// AppStudioState is reserved by the service; it currently has no
// fields.
type AppStudioState struct{}

// DiagnosticLocation points a diagnostic at a file range.
type DiagnosticLocation struct {
	FilePath string `json:"filePath"`
	Range    Span   `json:"range"`
}

// DiagnosticRelatedInformation links a diagnostic to supporting
// locations.
type DiagnosticRelatedInformation struct {
	Message  string             `json:"message"`
	Location DiagnosticLocation `json:"location"`
}

// DiagnosticSeverity ranks a diagnostic.
type DiagnosticSeverity string

const (
	DiagnosticSeverityError   DiagnosticSeverity = "ERROR"
	DiagnosticSeverityWarning DiagnosticSeverity = "WARNING"
	DiagnosticSeverityInfo    DiagnosticSeverity = "INFO"
	DiagnosticSeverityHint    DiagnosticSeverity = "HINT"
)

// Diagnostic is one compiler or linter finding in scope for the turn.
type Diagnostic struct {
	Message            string                         `json:"message"`
	Location           DiagnosticLocation             `json:"location"`
	Severity           DiagnosticSeverity             `json:"severity,omitempty"`
	Source             string                         `json:"source,omitempty"`
	Code               string                         `json:"code,omitempty"`
	RelatedInformation []DiagnosticRelatedInformation `json:"relatedInformation,omitempty"`
}

// ConsoleState is reserved by the service; it currently has no fields.
type ConsoleState struct{}

// UserSettings is reserved by the service; it currently has no fields.
type UserSettings struct{}

// AdditionalContentEntry is arbitrary extra context for a turn.
type AdditionalContentEntry struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

// ToolResult reports the outcome of a tool the assistant invoked on a
// previous turn.
type ToolResult struct {
	ToolUseID string `json:"toolUseId"`
	Status    string `json:"status"`
	Output    string `json:"output,omitempty"`
}

// Tool declares a tool the assistant may invoke.
type Tool struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	// InputSchema is a JSON Schema document as a string.
	InputSchema string `json:"inputSchema,omitempty"`
}

// UserInputMessageContext bundles the ambient context of a user turn.
type UserInputMessageContext struct {
	EditorState       *EditorState             `json:"editorState,omitempty"`
	ShellState        *ShellState              `json:"shellState,omitempty"`
	GitState          *GitState                `json:"gitState,omitempty"`
	EnvState          *EnvState                `json:"envState,omitempty"`
	AppStudioContext  *AppStudioState          `json:"appStudioContext,omitempty"`
	Diagnostic        *Diagnostic              `json:"diagnostic,omitempty"`
	ConsoleState      *ConsoleState            `json:"consoleState,omitempty"`
	UserSettings      *UserSettings            `json:"userSettings,omitempty"`
	AdditionalContext []AdditionalContentEntry `json:"additionalContext,omitempty"`
	ToolResults       []ToolResult             `json:"toolResults,omitempty"`
	Tools             []Tool                   `json:"tools,omitempty"`
}

// UserInputMessage is one user turn.
type UserInputMessage struct {
	Content                 string                   `json:"content"`
	UserInputMessageContext *UserInputMessageContext `json:"userInputMessageContext,omitempty"`
	UserIntent              UserIntent               `json:"userIntent,omitempty"`
	Origin                  Origin                   `json:"origin,omitempty"`
	Images                  []ImageBlock             `json:"images,omitempty"`
	ModelID                 string                   `json:"modelId,omitempty"`
}

// ChatMessage is the tagged union of conversation turns. Exactly one
// field is set.
type ChatMessage struct {
	UserInputMessage         *UserInputMessage         `json:"userInputMessage,omitempty"`
	AssistantResponseMessage *AssistantResponseMessage `json:"assistantResponseMessage,omitempty"`
}

// ChatTriggerType distinguishes user-initiated turns from automatic
// ones.
type ChatTriggerType string

const (
	ChatTriggerTypeManual    ChatTriggerType = "MANUAL"
	ChatTriggerTypeAutomatic ChatTriggerType = "AUTOMATIC"
)

// ConversationState is the request body for generating an assistant
// response.
type ConversationState struct {
	// ConversationID threads the turn into an existing conversation.
	// Empty on the first turn; the service assigns one via
	// MessageMetadataEvent.
	ConversationID string `json:"conversationId,omitempty"`
	// History lists prior turns, oldest first.
	History []ChatMessage `json:"history,omitempty"`
	// CurrentMessage is the turn being submitted.
	CurrentMessage ChatMessage `json:"currentMessage"`
	// ChatTriggerType records how the turn was initiated.
	ChatTriggerType ChatTriggerType `json:"chatTriggerType"`
	// CustomizationARN selects a model customization, when one applies.
	CustomizationARN string `json:"customizationArn,omitempty"`
}
