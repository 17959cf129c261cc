package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/legalchat/legalchat/internal/analyze"
	"github.com/legalchat/legalchat/internal/model"
	"github.com/legalchat/legalchat/internal/notify"
	appErr "github.com/legalchat/legalchat/internal/pkg/errors"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

type QuestionStore interface {
	Create(ctx context.Context, question *model.Question) error
}

type AnswerStore interface {
	Create(ctx context.Context, answer *model.Answer) error
}

type RoomToucher interface {
	Touch(ctx context.Context, chatID string, mtime int64) error
}

// ExplainerClient produces the general explanation; it degrades internally
// and never fails.
type ExplainerClient interface {
	Explain(ctx context.Context, question string, qtype analyze.QuestionType) string
}

type AskRequest struct {
	Content   string `json:"question_content"`
	AccountID string `json:"account_id"`
	ChatID    string `json:"chat_id"`
}

type AskResult struct {
	Question       *model.Question   `json:"question"`
	Answer         *model.Answer     `json:"answer"`
	Explanation    string            `json:"ai_general_response"`
	RelatedClauses []FormattedClause `json:"related_clauses"`
	ChatID         string            `json:"chat_id"`
	Metadata       Metadata          `json:"metadata"`
}

// QAService runs the full question flow: persist the question while the
// analyzer runs, then the explainer and the retrieval engine concurrently,
// then assemble and persist the answer.
type QAService struct {
	questions QuestionStore
	answers   AnswerStore
	rooms     RoomToucher
	explainer ExplainerClient
	retrieval *RetrievalService
	assembler *Assembler
	notifier  notify.Notifier
}

func NewQAService(questions QuestionStore, answers AnswerStore, rooms RoomToucher,
	explainer ExplainerClient, retrieval *RetrievalService, assembler *Assembler, notifier notify.Notifier) *QAService {
	return &QAService{
		questions: questions,
		answers:   answers,
		rooms:     rooms,
		explainer: explainer,
		retrieval: retrieval,
		assembler: assembler,
		notifier:  notifier,
	}
}

func (s *QAService) Ask(ctx context.Context, req AskRequest) (*AskResult, error) {
	started := time.Now()
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, fmt.Errorf("%w: question content is required", appErr.ErrInvalid)
	}
	if req.AccountID == "" {
		return nil, fmt.Errorf("%w: account id is required", appErr.ErrInvalid)
	}
	chatID := req.ChatID
	if chatID == "" {
		chatID = newChatID()
	}

	question := &model.Question{
		ID:        newID(),
		Content:   content,
		AccountID: req.AccountID,
		ChatID:    chatID,
		Ctime:     started.UnixMilli(),
	}
	persistErr := make(chan error, 1)
	go func() {
		persistErr <- s.questions.Create(ctx, question)
	}()
	res := analyze.Analyze(content)
	if err := <-persistErr; err != nil {
		return nil, fmt.Errorf("persist question: %w", err)
	}
	logutil.GetLogger(ctx).Info("question analyzed",
		zap.String("chat_id", chatID),
		zap.String("strategy", string(res.Strategy)),
		zap.String("question_type", string(res.QuestionType)),
		zap.Strings("terms", res.Terms))

	var (
		explanation string
		clauses     []RetrievedClause
		wg          sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		explanation = s.explainer.Explain(ctx, content, res.QuestionType)
	}()
	go func() {
		defer wg.Done()
		clauses = s.retrieval.Search(ctx, res)
	}()
	wg.Wait()

	assembled := s.assembler.Assemble(ctx, explanation, clauses, res, started)

	answer := &model.Answer{
		ID:         newID(),
		Content:    assembled.Content,
		QuestionID: question.ID,
		ChatID:     chatID,
		Ctime:      time.Now().UnixMilli(),
	}
	if err := s.answers.Create(ctx, answer); err != nil {
		return nil, fmt.Errorf("persist answer: %w", err)
	}
	if s.rooms != nil {
		if err := s.rooms.Touch(ctx, chatID, answer.Ctime); err != nil {
			logutil.GetLogger(ctx).Warn("touch chat room failed", zap.Error(err), zap.String("chat_id", chatID))
		}
	}
	if s.notifier != nil {
		s.notifier.Publish(ctx, notify.EventAnswerCreated, map[string]interface{}{
			"chat_id":       chatID,
			"question_id":   question.ID,
			"answer_id":     answer.ID,
			"clauses_found": len(clauses),
		})
	}

	return &AskResult{
		Question:       question,
		Answer:         answer,
		Explanation:    explanation,
		RelatedClauses: assembled.Clauses,
		ChatID:         chatID,
		Metadata:       assembled.Metadata,
	}, nil
}
