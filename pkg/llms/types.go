// Package llms defines the completion provider interface and its wire
// data model: messages built from typed content blocks, tool
// declarations, and responses carrying a stop reason.
package llms

import "context"

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Content block types.
const (
	ContentTypeText       = "text"
	ContentTypeToolUse    = "tool_use"
	ContentTypeToolResult = "tool_result"
)

// Stop reasons.
const (
	StopReasonEndTurn = "end_turn"
	StopReasonToolUse = "tool_use"
)

// ContentBlock is the union of text, tool_use, and tool_result blocks.
// Which fields are meaningful depends on Type.
type ContentBlock struct {
	Type string `json:"type"`

	// text
	Text string `json:"text,omitempty"`

	// tool_use
	ID    string                  `json:"id,omitempty"`
	Name  string                  `json:"name,omitempty"`
	Input *map[string]interface{} `json:"input,omitempty"`

	// tool_result
	ToolUseID string `json:"tool_use_id,omitempty"`
	Content   string `json:"content,omitempty"`
}

// Args returns the tool_use input, never nil.
func (b ContentBlock) Args() map[string]interface{} {
	if b.Input == nil {
		return map[string]interface{}{}
	}
	return *b.Input
}

func TextBlock(text string) ContentBlock {
	return ContentBlock{Type: ContentTypeText, Text: text}
}

func ToolUseBlock(id, name string, input map[string]interface{}) ContentBlock {
	if input == nil {
		input = map[string]interface{}{}
	}
	return ContentBlock{Type: ContentTypeToolUse, ID: id, Name: name, Input: &input}
}

func ToolResultBlock(toolUseID, content string) ContentBlock {
	return ContentBlock{Type: ContentTypeToolResult, ToolUseID: toolUseID, Content: content}
}

// Message is one conversation turn.
type Message struct {
	Role    string         `json:"role"`
	Content []ContentBlock `json:"content"`
}

func UserMessage(text string) Message {
	return Message{Role: RoleUser, Content: []ContentBlock{TextBlock(text)}}
}

func UserMessageBlocks(blocks ...ContentBlock) Message {
	return Message{Role: RoleUser, Content: blocks}
}

func AssistantMessage(blocks ...ContentBlock) Message {
	return Message{Role: RoleAssistant, Content: blocks}
}

// ToolDefinition declares a tool to the completion service.
type ToolDefinition struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"input_schema"`
}

// Usage reports token consumption for one call.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// CompletionResponse is one completion result.
type CompletionResponse struct {
	Content    []ContentBlock
	StopReason string
	Usage      Usage
}

// FirstText returns the text of the first text block, or "" when the
// response carries none. An empty string is a valid outcome.
func (r *CompletionResponse) FirstText() string {
	for _, block := range r.Content {
		if block.Type == ContentTypeText {
			return block.Text
		}
	}
	return ""
}

// ToolUses returns the tool_use blocks in response order.
func (r *CompletionResponse) ToolUses() []ContentBlock {
	var uses []ContentBlock
	for _, block := range r.Content {
		if block.Type == ContentTypeToolUse {
			uses = append(uses, block)
		}
	}
	return uses
}

// Provider is a completion service. Tools may be nil for a tool-free
// call; providers must omit tool declarations entirely in that case.
type Provider interface {
	Generate(ctx context.Context, system string, messages []Message, tools []ToolDefinition) (*CompletionResponse, error)
	GetModelName() string
	Close() error
}
