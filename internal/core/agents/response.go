package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/ragchat/internal/core/domain"
	"github.com/custodia-labs/ragchat/internal/core/ports/driven"
	"github.com/custodia-labs/ragchat/internal/logger"
)

// Ensure ResponseAgent implements the interface.
var _ Agent = (*ResponseAgent)(nil)

// DefaultAnswerPrompt is used when no prompt store is configured or the
// stored template is unusable. It takes the context block, then the question.
const DefaultAnswerPrompt = "Answer the question based on the context below:\n\n%s\n\nQuestion: %s\nAnswer:"

// ResponseAgent generates a grounded answer from retrieved chunks.
type ResponseAgent struct {
	llm     driven.LLMService
	prompts driven.PromptStore
	gen     domain.GenerationSettings
}

// NewResponseAgent creates a response agent. prompts may be nil.
func NewResponseAgent(llm driven.LLMService, prompts driven.PromptStore, gen domain.GenerationSettings) *ResponseAgent {
	if gen.MaxTokens <= 0 {
		gen.MaxTokens = domain.DefaultMaxTokens
	}
	return &ResponseAgent{
		llm:     llm,
		prompts: prompts,
		gen:     gen,
	}
}

// Name returns the agent identity.
func (a *ResponseAgent) Name() string {
	return domain.AgentResponse
}

// Process answers a RetrievalResult.
func (a *ResponseAgent) Process(ctx context.Context, msg domain.Message) domain.Message {
	result, ok := msg.Payload.(domain.RetrievalResult)
	if !ok {
		rejectMessage(a.Name(), msg)
	}

	log := logger.WithTrace(msg.TraceID)

	if a.llm == nil {
		return fail(a.Name(), msg, domain.ErrLLMUnavailable)
	}

	prompt := a.BuildPrompt(result.Query, result.Chunks)
	log.Debug("prompt: %d chars, %d source(s)", len(prompt), len(result.Chunks))

	generated, err := a.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   a.gen.MaxTokens,
		Temperature: a.gen.Temperature,
		Sample:      a.gen.Sample,
	})
	if err != nil {
		log.Warn("generation failed: %v", err)
		return fail(a.Name(), msg, fmt.Errorf("generate answer: %w", err))
	}

	return msg.Reply(a.Name(), domain.AgentUI, domain.ResponseReady{
		Query:   result.Query,
		Answer:  CleanAnswer(generated),
		Sources: result.Chunks,
	})
}

// BuildPrompt fills the answer template with the context block and question.
func (a *ResponseAgent) BuildPrompt(query string, chunks []domain.Chunk) string {
	return fmt.Sprintf(a.template(), BuildContext(chunks), query)
}

func (a *ResponseAgent) template() string {
	if a.prompts == nil {
		return DefaultAnswerPrompt
	}
	tmpl, err := a.prompts.Load(driven.PromptAnswer)
	if err != nil || strings.Count(tmpl, "%s") != 2 {
		logger.Warn("answer prompt unusable, using default")
		return DefaultAnswerPrompt
	}
	return tmpl
}

// BuildContext renders chunks as "Source: ...\nContent: ..." entries
// separated by a blank line.
func BuildContext(chunks []domain.Chunk) string {
	entries := make([]string, len(chunks))
	for i, c := range chunks {
		entries[i] = "Source: " + c.Source + "\nContent: " + c.Content
	}
	return strings.Join(entries, "\n\n")
}

// CleanAnswer trims generated text and drops repeated lines, keeping the
// first occurrence of each.
func CleanAnswer(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(strings.TrimSpace(text), "\n")
	seen := make(map[string]struct{}, len(lines))
	unique := lines[:0]
	for _, line := range lines {
		if _, dup := seen[line]; dup {
			continue
		}
		seen[line] = struct{}{}
		unique = append(unique, line)
	}
	return strings.Join(unique, "\n")
}
