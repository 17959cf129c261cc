package ai

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/legalchat/legalchat/internal/analyze"
	"github.com/legalchat/legalchat/internal/cache"
)

type scriptedProvider struct {
	calls     int
	failCount int
	response  string
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) Generate(ctx context.Context, model string, prompt string) (string, error) {
	p.calls++
	if p.calls <= p.failCount {
		return "", errors.New("transport error")
	}
	return p.response, nil
}

func newTestExplainer(p IProvider, maxRetries int) *Explainer {
	e := NewExplainer(p, "test-model", cache.New(5*time.Minute), ExplainerConfig{
		Timeout:          time.Second,
		MaxRetryAttempts: maxRetries,
		CacheTTL:         5 * time.Minute,
	})
	e.sleep = func(ctx context.Context, d time.Duration) bool { return true }
	return e
}

func TestExplainSuccess(t *testing.T) {
	p := &scriptedProvider{response: "Giải thích tổng quát."}
	e := newTestExplainer(p, 2)
	got := e.Explain(context.Background(), "quyền của người lao động", analyze.QuestionRights)
	if got != "Giải thích tổng quát." {
		t.Fatalf("unexpected answer: %q", got)
	}
	if p.calls != 1 {
		t.Fatalf("expected 1 call, got %d", p.calls)
	}
}

func TestExplainRetriesThenSucceeds(t *testing.T) {
	p := &scriptedProvider{failCount: 2, response: "ok"}
	e := newTestExplainer(p, 2)
	got := e.Explain(context.Background(), "câu hỏi", analyze.QuestionGeneral)
	if got != "ok" {
		t.Fatalf("unexpected answer: %q", got)
	}
	if p.calls != 3 {
		t.Fatalf("expected 3 calls, got %d", p.calls)
	}
}

func TestExplainRetryBoundAndFallback(t *testing.T) {
	p := &scriptedProvider{failCount: 100}
	e := newTestExplainer(p, 2)
	got := e.Explain(context.Background(), "câu hỏi", analyze.QuestionGeneral)
	if got != FallbackAnswer {
		t.Fatalf("expected fallback, got %q", got)
	}
	if p.calls != 3 {
		t.Fatalf("expected exactly 1+2 calls, got %d", p.calls)
	}
}

func TestExplainCacheIdempotence(t *testing.T) {
	p := &scriptedProvider{response: "cached answer"}
	e := newTestExplainer(p, 2)
	first := e.Explain(context.Background(), "cùng một câu hỏi", analyze.QuestionGeneral)
	second := e.Explain(context.Background(), "cùng một câu hỏi", analyze.QuestionGeneral)
	if first != second {
		t.Fatalf("answers differ: %q vs %q", first, second)
	}
	if p.calls != 1 {
		t.Fatalf("expected the model to be invoked once, got %d", p.calls)
	}
}

func TestExplainFallbackNotCached(t *testing.T) {
	p := &scriptedProvider{failCount: 3, response: "recovered"}
	e := newTestExplainer(p, 2)
	if got := e.Explain(context.Background(), "câu hỏi", analyze.QuestionGeneral); got != FallbackAnswer {
		t.Fatalf("expected fallback first, got %q", got)
	}
	if got := e.Explain(context.Background(), "câu hỏi", analyze.QuestionGeneral); got != "recovered" {
		t.Fatalf("expected recovery on next call, got %q", got)
	}
}

func TestBuildPromptForbidsClauseCitations(t *testing.T) {
	prompt := BuildPrompt("thủ tục ly hôn", analyze.QuestionProcedure)
	if !strings.Contains(prompt, "KHÔNG trích dẫn điều khoản cụ thể") {
		t.Fatal("prompt must forbid clause citations")
	}
	if !strings.Contains(prompt, typeInstructions[analyze.QuestionProcedure]) {
		t.Fatal("prompt must carry the type-specific instruction")
	}
}
