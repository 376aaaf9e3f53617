package observability

const (
	AttrToolName        = "tool.name"
	AttrLLMModel        = "llm.model"
	AttrLLMTokensInput  = "llm.tokens.input"
	AttrLLMTokensOutput = "llm.tokens.output"
	AttrSessionID       = "session.id"
	AttrRound           = "generation.round"
	AttrErrorType       = "error.type"

	SpanQuery         = "query.answer"
	SpanLLMRequest    = "query.llm_request"
	SpanToolExecution = "query.tool_execution"

	DefaultServiceName = "tutorkit"
)
