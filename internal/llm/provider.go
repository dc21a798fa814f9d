// Package llm provides the LLM providers used for structural analysis and
// component generation.
package llm

import (
	"context"
	"fmt"
)

// Provider defines the interface for single-turn LLM completion.
// Each provider implementation (Claude, Gemini) converts between these
// common types and their SDK-specific formats.
type Provider interface {
	// Name returns the provider identifier (e.g., "claude", "gemini").
	Name() string

	// Complete sends messages to the LLM and returns a single response.
	// The call blocks until the provider answers or ctx is done.
	// Providers never retry on their own.
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)
}

// CompletionRequest contains input for a single LLM turn.
type CompletionRequest struct {
	// SystemPrompt provides context and instructions for the LLM.
	SystemPrompt string

	// Messages contains the conversation history.
	// Must include at least one user message.
	Messages []Message

	// MaxTokens limits the response length.
	// If zero, providers use their default limits.
	MaxTokens int
}

// CompletionResponse contains the LLM's response for a single turn.
type CompletionResponse struct {
	// Content is the concatenated text of the response.
	// Empty when the model answered with non-text content only.
	Content string

	// StopReason indicates why the LLM stopped generating.
	// Common values: "end_turn", "max_tokens".
	StopReason string

	// Usage tracks token consumption for this turn.
	Usage Usage
}

// Message represents a single message in a conversation.
type Message struct {
	Role    Role
	Content string
}

// Role identifies the sender of a message in a conversation.
type Role string

const (
	// RoleUser indicates a message from the user or application.
	RoleUser Role = "user"

	// RoleAssistant indicates a message from the LLM.
	RoleAssistant Role = "assistant"
)

// UserPrompt is a shorthand for a request carrying a single user message.
func UserPrompt(text string, maxTokens int) *CompletionRequest {
	return &CompletionRequest{
		Messages:  []Message{{Role: RoleUser, Content: text}},
		MaxTokens: maxTokens,
	}
}

// Credentials carries the API keys resolved once at process start.
// Providers receive their key explicitly instead of reading the environment.
type Credentials struct {
	AnthropicAPIKey string
	GoogleAPIKey    string
}

// ConfigError reports a provider that cannot be constructed because a
// required setting is missing.
type ConfigError struct {
	Provider string // Provider name (e.g., "claude")
	Setting  string // Missing setting (e.g., "anthropic_api_key")
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s provider is not configured: %s is not set", e.Provider, e.Setting)
}

// Usage tracks token consumption across LLM API calls.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Sonnet list prices per 1M tokens in USD. Gemini runs are reported with
// the same rates; the figure is an upper-bound estimate.
const (
	inputPricePerMillion  = 3.0
	outputPricePerMillion = 15.0
)

// Add accumulates usage from another Usage into this one.
func (u *Usage) Add(other Usage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
}

// Cost returns the estimated cost in USD.
func (u Usage) Cost() float64 {
	return (float64(u.InputTokens)*inputPricePerMillion + float64(u.OutputTokens)*outputPricePerMillion) / 1_000_000
}

// String returns a human-readable summary of token usage and cost.
func (u Usage) String() string {
	return fmt.Sprintf("tokens: %d in / %d out, cost: $%.4f",
		u.InputTokens, u.OutputTokens, u.Cost())
}
