package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/legalchat/legalchat/internal/analyze"
	"github.com/legalchat/legalchat/internal/cache"
	"github.com/legalchat/legalchat/internal/filestore"
	"github.com/legalchat/legalchat/internal/handler"
	"github.com/legalchat/legalchat/internal/model"
	appErr "github.com/legalchat/legalchat/internal/pkg/errors"
	"github.com/legalchat/legalchat/internal/service"
)

type apiResponse struct {
	Code    uint32          `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeResponse(t *testing.T, resp *httptest.ResponseRecorder) apiResponse {
	t.Helper()
	var out apiResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

type stubClauseStore struct {
	clauses []model.LegalClause
}

func (s *stubClauseStore) FindExact(ctx context.Context, number, title string, limit uint) ([]model.LegalClause, error) {
	return s.clauses, nil
}

func (s *stubClauseStore) SearchFuzzy(ctx context.Context, terms []string, limit uint) ([]model.LegalClause, error) {
	return s.clauses, nil
}

func (s *stubClauseStore) SearchCandidates(ctx context.Context, terms []string, limit uint) ([]model.LegalClause, error) {
	return s.clauses, nil
}

type stubDocNames struct{}

func (s *stubDocNames) ListNames(ctx context.Context, ids []string) (map[string]string, error) {
	return map[string]string{}, nil
}

type stubQuestionStore struct {
	mu  sync.Mutex
	err error
	n   int
}

func (s *stubQuestionStore) Create(ctx context.Context, q *model.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.n++
	return nil
}

type stubAnswerStore struct{}

func (s *stubAnswerStore) Create(ctx context.Context, a *model.Answer) error { return nil }

type stubRoomStore struct{}

func (s *stubRoomStore) Create(ctx context.Context, room *model.ChatRoom) error { return nil }

func (s *stubRoomStore) Get(ctx context.Context, chatID string) (*model.ChatRoom, error) {
	return nil, appErr.ErrNotFound
}

func (s *stubRoomStore) ListByAccount(ctx context.Context, accountID string) ([]model.ChatRoom, error) {
	return nil, nil
}

func (s *stubRoomStore) Touch(ctx context.Context, chatID string, mtime int64) error { return nil }

type stubHistoryStore struct{}

func (s *stubHistoryStore) HistoryByChat(ctx context.Context, chatID string) ([]model.ChatMessage, error) {
	return nil, nil
}

type fixedExplainer struct{}

func (fixedExplainer) Explain(ctx context.Context, question string, qtype analyze.QuestionType) string {
	return "giải thích tổng quát"
}

type stubNotifier struct{}

func (s *stubNotifier) Publish(ctx context.Context, event string, payload interface{}) {}

type stubFileStore struct {
	mu    sync.Mutex
	saved map[string][]byte
}

func newStubFileStore() *stubFileStore {
	return &stubFileStore{saved: map[string][]byte{}}
}

func (s *stubFileStore) Save(ctx context.Context, key string, r filestore.ReadSeekCloser, size int64) error {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.saved[key] = data
	s.mu.Unlock()
	return nil
}

func (s *stubFileStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.saved[key]
	if !ok {
		return nil, appErr.ErrNotFound
	}
	return io.NopCloser(strings.NewReader(string(data))), nil
}

func (s *stubFileStore) URL(key string, baseURL string) string {
	return baseURL + "/files/" + key
}

func (s *stubFileStore) Type() string { return "stub" }

type testEnv struct {
	router    *gin.Engine
	questions *stubQuestionStore
	files     *stubFileStore
}

func setupRouter(t *testing.T, clauses []model.LegalClause) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	questions := &stubQuestionStore{}
	files := newStubFileStore()
	rooms := &stubRoomStore{}

	retrieval := service.NewRetrievalService(&stubClauseStore{clauses: clauses}, cache.New(time.Minute), service.RetrievalConfig{
		MaxClauses:          15,
		LowPriorityCapRatio: 0.7,
		CacheTTL:            time.Minute,
	})
	assembler := service.NewAssembler(&stubDocNames{}, 250, time.Minute)
	qa := service.NewQAService(questions, &stubAnswerStore{}, rooms, fixedExplainer{}, retrieval, assembler, &stubNotifier{})
	ingest := service.NewIngestService(&stubDocCreator{}, &stubClauseWriter{}, files, &stubNotifier{}, "http://localhost:8080")
	chats := service.NewChatService(rooms, &stubHistoryStore{})
	export := service.NewExportService(rooms, &stubHistoryStore{})

	router := gin.New()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api, handler.RouterDeps{
		Documents: handler.NewDocumentHandler(ingest, nil, nil),
		Chat:      handler.NewChatHandler(qa, chats, export),
		Files:     handler.NewFileHandler(files),
	})
	return &testEnv{router: router, questions: questions, files: files}
}

type stubDocCreator struct{}

func (s *stubDocCreator) Create(ctx context.Context, doc *model.LegalDocument) error { return nil }

type stubClauseWriter struct{}

func (s *stubClauseWriter) CreateBatch(ctx context.Context, clauses []model.LegalClause) error {
	return nil
}
