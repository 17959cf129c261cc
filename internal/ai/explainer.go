package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/legalchat/legalchat/internal/analyze"
	"github.com/legalchat/legalchat/internal/cache"
)

// FallbackAnswer is returned when every model attempt failed. It is never
// an error: the caller still assembles an answer from retrieved clauses.
const FallbackAnswer = "Xin lỗi, tôi gặp sự cố khi xử lý câu hỏi. Vui lòng tham khảo các điều khoản liên quan bên dưới."

const emptyAnswer = "Tôi không thể trả lời câu hỏi này. Vui lòng tham khảo các điều khoản bên dưới."

var typeInstructions = map[analyze.QuestionType]string{
	analyze.QuestionDefinition:  "Định nghĩa rõ ràng và chính xác khái niệm được hỏi.",
	analyze.QuestionProcedure:   "Mô tả tổng quan các bước thực hiện theo thông lệ pháp luật.",
	analyze.QuestionPenalty:     "Giải thích khái quát về các hình thức xử phạt thường áp dụng.",
	analyze.QuestionRights:      "Nêu tổng quan về các quyền và quyền lợi liên quan.",
	analyze.QuestionObligations: "Giải thích về các nghĩa vụ và trách nhiệm chung.",
	analyze.QuestionConditions:  "Mô tả khái quát các điều kiện và yêu cầu thông thường.",
	analyze.QuestionGeneral:     "Giải thích tổng quan về vấn đề pháp lý được đặt ra.",
}

// BuildPrompt asks the model for a short general explanation only. The
// specific clauses come from the retrieval engine and must not be cited
// here, so the instruction explicitly forbids it.
func BuildPrompt(question string, qtype analyze.QuestionType) string {
	instruction, ok := typeInstructions[qtype]
	if !ok {
		instruction = typeInstructions[analyze.QuestionGeneral]
	}
	return fmt.Sprintf(`Bạn là chuyên gia pháp lý với kiến thức tổng quát về pháp luật Việt Nam.

Câu hỏi: "%s"
Loại câu hỏi: %s

Yêu cầu trả lời:
- %s
- Trả lời ngắn gọn 1-2 câu dựa trên kiến thức pháp lý tổng quát
- KHÔNG trích dẫn điều khoản cụ thể, chỉ giải thích khái niệm
- Sử dụng ngôn ngữ dễ hiểu, không quá chuyên môn
- Kết thúc bằng: "Các điều khoản pháp lý cụ thể được liệt kê bên dưới."`, question, qtype, instruction)
}

type ExplainerConfig struct {
	Timeout          time.Duration
	MaxRetryAttempts int
	CacheTTL         time.Duration
}

// Explainer calls the generative model with bounded retries and a per
// attempt timeout. Successful responses are cached by prompt digest.
type Explainer struct {
	provider IProvider
	model    string
	cache    *cache.Cache
	cfg      ExplainerConfig
	sleep    func(ctx context.Context, d time.Duration) bool
}

func NewExplainer(provider IProvider, model string, store *cache.Cache, cfg ExplainerConfig) *Explainer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 8 * time.Second
	}
	if cfg.MaxRetryAttempts < 0 {
		cfg.MaxRetryAttempts = 0
	}
	return &Explainer{
		provider: provider,
		model:    model,
		cache:    store,
		cfg:      cfg,
		sleep:    sleepCtx,
	}
}

// Explain returns a short general explanation for the question. It never
// fails: after 1+MaxRetryAttempts unsuccessful calls it returns
// FallbackAnswer.
func (e *Explainer) Explain(ctx context.Context, question string, qtype analyze.QuestionType) string {
	prompt := BuildPrompt(question, qtype)
	key := cache.PromptKey(prompt)
	if cached, ok := e.cache.Get(key); ok {
		if text, ok := cached.(string); ok {
			return text
		}
	}

	logger := logutil.GetLogger(ctx).With(zap.String("provider", e.provider.Name()), zap.String("model", e.model))
	attempts := 1 + e.cfg.MaxRetryAttempts
	for attempt := 1; attempt <= attempts; attempt++ {
		text, err := e.generateOnce(ctx, prompt)
		if err == nil {
			if text == "" {
				text = emptyAnswer
			}
			e.cache.SetTTL(key, text, e.cfg.CacheTTL)
			return text
		}
		logger.Warn("explainer call failed", zap.Int("attempt", attempt), zap.Error(err))
		if attempt < attempts {
			// Linear backoff: attempt N waits N seconds.
			if !e.sleep(ctx, time.Duration(attempt)*time.Second) {
				break
			}
		}
	}
	return FallbackAnswer
}

func (e *Explainer) generateOnce(ctx context.Context, prompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()
	return e.provider.Generate(callCtx, e.model, prompt)
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
