// Package tools holds the callable tools exposed to the model and the
// registry that dispatches tool invocations by name.
package tools

import (
	"context"

	"github.com/tutorkit/tutorkit/pkg/llms"
)

type ToolInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  []ToolParameter `json:"parameters,omitempty"`
}

type ToolParameter struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"`
	Description string      `json:"description"`
	Required    bool        `json:"required"`
	Default     interface{} `json:"default,omitempty"`
	Enum        []string    `json:"enum,omitempty"`
}

// ToDefinition converts the tool info into the wire-level declaration
// sent to the model.
func (i ToolInfo) ToDefinition() llms.ToolDefinition {
	properties := make(map[string]interface{}, len(i.Parameters))
	required := make([]string, 0, len(i.Parameters))
	for _, p := range i.Parameters {
		prop := map[string]interface{}{
			"type":        p.Type,
			"description": p.Description,
		}
		if len(p.Enum) > 0 {
			prop["enum"] = p.Enum
		}
		if p.Default != nil {
			prop["default"] = p.Default
		}
		properties[p.Name] = prop
		if p.Required {
			required = append(required, p.Name)
		}
	}
	return llms.ToolDefinition{
		Name:        i.Name,
		Description: i.Description,
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}

// Tool is a named capability the model can invoke. Execute returns the
// text handed back to the model; a non-nil error is an execution fault
// (network failure, bad arguments), not a tool-level "no results"
// outcome, which tools report as text.
type Tool interface {
	GetInfo() ToolInfo

	Execute(ctx context.Context, args map[string]interface{}) (string, error)

	GetName() string

	GetDescription() string
}

// Source is one citation recorded by a retrieval-backed tool.
type Source struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// SourceTracker is implemented by tools that record citations as a
// side channel during execution.
type SourceTracker interface {
	LastSources() []Source

	ResetSources()
}
