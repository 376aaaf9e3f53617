package tools

import (
	"context"
	"fmt"
	"testing"
)

type stubTool struct {
	name    string
	result  string
	err     error
	sources []Source
}

func (s *stubTool) GetName() string        { return s.name }
func (s *stubTool) GetDescription() string { return "stub" }
func (s *stubTool) GetInfo() ToolInfo {
	return ToolInfo{Name: s.name, Description: "stub"}
}
func (s *stubTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	return s.result, s.err
}
func (s *stubTool) LastSources() []Source { return s.sources }
func (s *stubTool) ResetSources()         { s.sources = nil }

func TestExecuteTool_UnknownName(t *testing.T) {
	r := NewToolRegistry()
	result, err := r.ExecuteTool(context.Background(), "bogus_tool", nil)
	if err != nil {
		t.Fatalf("unknown tool should not be an error, got %v", err)
	}
	if result != "Tool 'bogus_tool' not found" {
		t.Errorf("result = %q", result)
	}
}

func TestExecuteTool_DelegatesVerbatim(t *testing.T) {
	r := NewToolRegistry()
	if err := r.RegisterTool(&stubTool{name: "echo", result: "Search error: backend down"}); err != nil {
		t.Fatalf("RegisterTool() error = %v", err)
	}

	result, err := r.ExecuteTool(context.Background(), "echo", map[string]interface{}{"query": "x"})
	if err != nil {
		t.Fatalf("ExecuteTool() error = %v", err)
	}
	if result != "Search error: backend down" {
		t.Errorf("result = %q, want tool output verbatim", result)
	}
}

func TestExecuteTool_FaultPropagates(t *testing.T) {
	r := NewToolRegistry()
	r.RegisterTool(&stubTool{name: "flaky", err: fmt.Errorf("connection reset")})

	_, err := r.ExecuteTool(context.Background(), "flaky", nil)
	if err == nil {
		t.Fatal("tool fault should propagate as an error")
	}
}

func TestRegisterTool_RejectsDuplicate(t *testing.T) {
	r := NewToolRegistry()
	if err := r.RegisterTool(&stubTool{name: "search"}); err != nil {
		t.Fatalf("RegisterTool() error = %v", err)
	}
	if err := r.RegisterTool(&stubTool{name: "search"}); err == nil {
		t.Fatal("duplicate registration should fail")
	}
	if err := r.RegisterTool(nil); err == nil {
		t.Fatal("nil tool should fail")
	}
}

func TestDeclarations_RegistrationOrder(t *testing.T) {
	r := NewToolRegistry()
	for _, name := range []string{"c_tool", "a_tool", "b_tool"} {
		if err := r.RegisterTool(&stubTool{name: name}); err != nil {
			t.Fatalf("RegisterTool(%s) error = %v", name, err)
		}
	}
	defs := r.Declarations()
	if len(defs) != 3 {
		t.Fatalf("declarations = %d, want 3", len(defs))
	}
	want := []string{"c_tool", "a_tool", "b_tool"}
	for i, def := range defs {
		if def.Name != want[i] {
			t.Errorf("declarations[%d] = %q, want %q", i, def.Name, want[i])
		}
	}
}

func TestSources_AggregateAndReset(t *testing.T) {
	r := NewToolRegistry()
	tool := &stubTool{name: "search", sources: []Source{{Name: "ML - Lesson 2", URL: "https://example.com/ml/2"}}}
	r.RegisterTool(tool)
	r.RegisterTool(&stubTool{name: "plain"})

	sources := r.LastSources()
	if len(sources) != 1 || sources[0].Name != "ML - Lesson 2" {
		t.Fatalf("sources = %+v", sources)
	}

	r.ResetSources()
	if got := r.LastSources(); len(got) != 0 {
		t.Errorf("sources after reset = %+v, want empty", got)
	}
}
