// Package generator implements the tool-augmented response loop: a
// bounded number of completion rounds in which the model may request
// tool invocations, followed by a forced tool-free call that
// guarantees a text answer.
package generator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tutorkit/tutorkit/pkg/llms"
	"github.com/tutorkit/tutorkit/pkg/observability"
)

// MaxToolRounds bounds how many completion rounds may request tools
// before the loop forces a text-only answer.
const MaxToolRounds = 2

const systemPrompt = `You are an AI assistant specialized in course materials and educational content with access to a comprehensive search tool for course information.

Search Tool Usage:
- Use the search tool **only** for questions about specific course content or detailed educational materials
- **Up to 2 searches per query** — use a second search only if the first didn't fully answer the question or you need information from a different course/lesson
- Synthesize search results into accurate, fact-based responses
- If search yields no results, state this clearly without offering alternatives

Response Protocol:
- **General knowledge questions**: Answer using existing knowledge without searching
- **Course-specific questions**: Search first, then answer
- **No meta-commentary**:
 - Provide direct answers only — no reasoning process, search explanations, or question-type analysis
 - Do not mention "based on the search results"


All responses must be:
1. **Brief, Concise and focused** - Get to the point quickly
2. **Educational** - Maintain instructional value
3. **Clear** - Use accessible language
4. **Example-supported** - Include relevant examples when they aid understanding
Provide only the direct answer to what was asked.`

// ToolRunner dispatches a tool invocation by name. A returned string
// is the tool's output (error text included); a non-nil error is an
// execution fault that ends the round loop.
type ToolRunner interface {
	ExecuteTool(ctx context.Context, name string, args map[string]interface{}) (string, error)
}

// Generator drives the round loop against one completion provider.
// It holds no per-query state and is safe for concurrent use.
type Generator struct {
	provider llms.Provider
}

func New(provider llms.Provider) *Generator {
	return &Generator{provider: provider}
}

// Generate answers one query. history, tools and runner are all
// optional; without a runner any tool request terminates the loop
// with whatever text the response carried. Only completion provider
// failures come back as errors; tool faults stay inside the
// conversation as synthesized result text.
func (g *Generator) Generate(ctx context.Context, query string, history string, tools []llms.ToolDefinition, runner ToolRunner) (string, error) {
	system := systemPrompt
	if history != "" {
		system = systemPrompt + "\n\nPrevious conversation:\n" + history
	}

	messages := []llms.Message{llms.UserMessage(query)}

	for round := 0; round < MaxToolRounds; round++ {
		response, err := g.complete(ctx, round, system, messages, tools)
		if err != nil {
			return "", err
		}

		if response.StopReason != llms.StopReasonToolUse || runner == nil {
			return response.FirstText(), nil
		}

		var failed bool
		messages, failed = g.executeToolRound(ctx, round, messages, response, runner)
		if failed {
			slog.Warn("tool round failed, forcing final answer", "round", round)
			break
		}
	}

	// Rounds exhausted or a tool faulted: one last call without tool
	// declarations so the model must produce text.
	response, err := g.complete(ctx, MaxToolRounds, system, messages, nil)
	if err != nil {
		return "", err
	}
	return response.FirstText(), nil
}

func (g *Generator) complete(ctx context.Context, round int, system string, messages []llms.Message, tools []llms.ToolDefinition) (*llms.CompletionResponse, error) {
	tracer := observability.GetTracer("tutorkit.generator")
	ctx, span := tracer.Start(ctx, observability.SpanLLMRequest,
		trace.WithAttributes(
			attribute.String(observability.AttrLLMModel, g.provider.GetModelName()),
			attribute.Int(observability.AttrRound, round),
		),
	)
	defer span.End()

	startTime := time.Now()
	response, err := g.provider.Generate(ctx, system, messages, tools)
	duration := time.Since(startTime)

	if metrics := observability.GetGlobalMetrics(); metrics != nil {
		var input, output int
		if response != nil {
			input = response.Usage.InputTokens
			output = response.Usage.OutputTokens
		}
		metrics.RecordLLMCall(ctx, g.provider.GetModelName(), duration, input, output, err)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("completion request failed: %w", err)
	}

	span.SetAttributes(
		attribute.String("llm.stop_reason", response.StopReason),
		attribute.Int(observability.AttrLLMTokensInput, response.Usage.InputTokens),
		attribute.Int(observability.AttrLLMTokensOutput, response.Usage.OutputTokens),
	)
	return response, nil
}

// executeToolRound appends the assistant turn, runs every tool_use
// block in response order, and appends a single user turn carrying the
// ordered tool results. A faulting tool yields a synthesized error
// result; the remaining blocks still execute so every tool_use gets
// its matching tool_result.
func (g *Generator) executeToolRound(ctx context.Context, round int, messages []llms.Message, response *llms.CompletionResponse, runner ToolRunner) ([]llms.Message, bool) {
	messages = append(messages, llms.AssistantMessage(response.Content...))

	var toolResults []llms.ContentBlock
	var failed bool

	for _, block := range response.ToolUses() {
		result, err := runner.ExecuteTool(ctx, block.Name, block.Args())
		if err != nil {
			result = fmt.Sprintf("Error executing tool: %v", err)
			failed = true
			slog.Warn("tool execution fault", "tool", block.Name, "round", round, "error", err)
		} else {
			slog.Debug("tool executed", "tool", block.Name, "round", round)
		}
		toolResults = append(toolResults, llms.ToolResultBlock(block.ID, result))
	}

	if len(toolResults) > 0 {
		messages = append(messages, llms.UserMessageBlocks(toolResults...))
	}
	return messages, failed
}
