package generate

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/tsukumogami/sitegen/internal/llm"
	"github.com/tsukumogami/sitegen/internal/log"
)

type fakeProvider struct {
	resp *llm.CompletionResponse
	err  error
	req  *llm.CompletionRequest
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	f.req = req
	return f.resp, f.err
}

func TestGenerate(t *testing.T) {
	p := &fakeProvider{resp: &llm.CompletionResponse{
		Content:    `<Component name="Hero">return 1</Component>`,
		StopReason: "end_turn",
		Usage:      llm.Usage{InputTokens: 10, OutputTokens: 20},
	}}
	c := New(llm.Static(p), WithSystemPrompt("be exact"))

	text, err := c.Generate(context.Background(), "the prompt")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(text, `<Component name="Hero">`) {
		t.Errorf("text = %q", text)
	}
	if p.req.MaxTokens != DefaultMaxTokens {
		t.Errorf("MaxTokens = %d, want %d", p.req.MaxTokens, DefaultMaxTokens)
	}
	if p.req.SystemPrompt != "be exact" || p.req.Messages[0].Content != "the prompt" {
		t.Errorf("request = %+v", p.req)
	}

	if _, err := c.Generate(context.Background(), "again"); err != nil {
		t.Fatal(err)
	}
	if got := c.Usage(); got.InputTokens != 20 || got.OutputTokens != 40 {
		t.Errorf("Usage = %+v", got)
	}
}

func TestGenerate_EmptyContent(t *testing.T) {
	c := New(llm.Static(&fakeProvider{resp: &llm.CompletionResponse{StopReason: "tool_use"}}))

	text, err := c.Generate(context.Background(), "p")
	if err != nil || text != "" {
		t.Errorf("Generate = %q, %v; want empty text and no error", text, err)
	}
}

func TestGenerate_ProviderError(t *testing.T) {
	boom := errors.New("401 unauthorized")
	c := New(llm.Static(&fakeProvider{err: boom}))

	_, err := c.Generate(context.Background(), "p")

	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected *GenerationError, got %T", err)
	}
	if genErr.Provider != "fake" {
		t.Errorf("Provider = %q", genErr.Provider)
	}
	if !errors.Is(err, boom) {
		t.Error("expected errors.Is to reach the provider error")
	}
	if err.Error() != "layout generation failed: 401 unauthorized" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestGenerate_NoProvider(t *testing.T) {
	_, err := New(llm.Static(nil)).Generate(context.Background(), "p")

	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected *GenerationError, got %v", err)
	}
}

func TestGenerate_WarnsOnTruncation(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	c := New(llm.Static(&fakeProvider{resp: &llm.CompletionResponse{Content: "x", StopReason: "max_tokens"}}),
		WithLogger(logger), WithMaxTokens(100))

	if _, err := c.Generate(context.Background(), "p"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "token limit") {
		t.Errorf("expected truncation warning, got %q", buf.String())
	}
}
