package llms

import (
	"encoding/json"
	"testing"
)

func TestCompletionResponse_FirstText(t *testing.T) {
	tests := []struct {
		name    string
		content []ContentBlock
		want    string
	}{
		{
			name:    "single text block",
			content: []ContentBlock{TextBlock("answer")},
			want:    "answer",
		},
		{
			name: "text after tool_use",
			content: []ContentBlock{
				ToolUseBlock("id1", "search_course_content", nil),
				TextBlock("found it"),
			},
			want: "found it",
		},
		{
			name: "first of several text blocks",
			content: []ContentBlock{
				TextBlock("first"),
				TextBlock("second"),
			},
			want: "first",
		},
		{
			name:    "no text blocks",
			content: []ContentBlock{ToolUseBlock("id1", "search_course_content", nil)},
			want:    "",
		},
		{
			name:    "empty content",
			content: nil,
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &CompletionResponse{Content: tt.content}
			if got := resp.FirstText(); got != tt.want {
				t.Errorf("FirstText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCompletionResponse_ToolUses(t *testing.T) {
	resp := &CompletionResponse{Content: []ContentBlock{
		TextBlock("thinking"),
		ToolUseBlock("a", "search_course_content", map[string]interface{}{"query": "x"}),
		ToolUseBlock("b", "search_course_content", map[string]interface{}{"query": "y"}),
	}}

	uses := resp.ToolUses()
	if len(uses) != 2 {
		t.Fatalf("ToolUses() length = %d, want 2", len(uses))
	}
	if uses[0].ID != "a" || uses[1].ID != "b" {
		t.Errorf("tool use order = [%s %s], want [a b]", uses[0].ID, uses[1].ID)
	}
}

func TestToolUseBlock_SerializesEmptyInput(t *testing.T) {
	// The API requires an input object on tool_use blocks even when the
	// model passed no arguments.
	data, err := json.Marshal(ToolUseBlock("id1", "t", nil))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if _, ok := decoded["input"]; !ok {
		t.Errorf("serialized tool_use missing input field: %s", data)
	}
}

func TestMessageConstructors(t *testing.T) {
	user := UserMessage("hello")
	if user.Role != RoleUser || len(user.Content) != 1 || user.Content[0].Text != "hello" {
		t.Errorf("UserMessage() = %+v", user)
	}

	assistant := AssistantMessage(TextBlock("hi"), ToolUseBlock("1", "t", nil))
	if assistant.Role != RoleAssistant || len(assistant.Content) != 2 {
		t.Errorf("AssistantMessage() = %+v", assistant)
	}
}
