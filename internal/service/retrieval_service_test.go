package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/legalchat/legalchat/internal/analyze"
	"github.com/legalchat/legalchat/internal/cache"
	"github.com/legalchat/legalchat/internal/model"
	"github.com/stretchr/testify/require"
)

type fakeClauseStore struct {
	exact      []model.LegalClause
	fuzzy      []model.LegalClause
	candidates []model.LegalClause
	err        error

	exactCalls     int
	fuzzyCalls     int
	candidateCalls int
}

func (f *fakeClauseStore) FindExact(ctx context.Context, number, title string, limit uint) ([]model.LegalClause, error) {
	f.exactCalls++
	return f.exact, f.err
}

func (f *fakeClauseStore) SearchFuzzy(ctx context.Context, terms []string, limit uint) ([]model.LegalClause, error) {
	f.fuzzyCalls++
	return f.fuzzy, f.err
}

func (f *fakeClauseStore) SearchCandidates(ctx context.Context, terms []string, limit uint) ([]model.LegalClause, error) {
	f.candidateCalls++
	return f.candidates, f.err
}

func newRetrieval(store *fakeClauseStore, maxClauses int) *RetrievalService {
	return NewRetrievalService(store, cache.New(time.Minute), RetrievalConfig{
		MaxClauses:          maxClauses,
		LowPriorityCapRatio: 0.7,
		CacheTTL:            time.Minute,
	})
}

func clause(id, number, title, content string) model.LegalClause {
	return model.LegalClause{ID: id, DocumentID: "doc-1", Number: number, Title: title, Content: content}
}

func TestRetrievalClauseSpecificExactHit(t *testing.T) {
	store := &fakeClauseStore{exact: []model.LegalClause{clause("c1", "7", "Xử phạt", "nội dung")}}
	svc := newRetrieval(store, 15)

	got := svc.Search(context.Background(), analyze.Result{
		Strategy:     analyze.StrategyClauseSpecific,
		Priority:     analyze.PriorityVeryHigh,
		Terms:        []string{"điều 7"},
		ClauseNumber: "7",
	})
	require.Len(t, got, 1)
	require.Equal(t, "c1", got[0].ID)
	require.Zero(t, got[0].Score)
	require.Equal(t, 1, store.exactCalls)
	require.Equal(t, 0, store.fuzzyCalls)
}

func TestRetrievalClauseSpecificFallsBackToFuzzy(t *testing.T) {
	store := &fakeClauseStore{fuzzy: []model.LegalClause{clause("c2", "9", "", "điều 9 nói về")}}
	svc := newRetrieval(store, 15)

	got := svc.Search(context.Background(), analyze.Result{
		Strategy:     analyze.StrategyClauseSpecific,
		Priority:     analyze.PriorityHigh,
		Terms:        []string{"điều 9"},
		ClauseNumber: "9",
	})
	require.Len(t, got, 1)
	require.Equal(t, "c2", got[0].ID)
	require.Zero(t, got[0].Score)
	require.Equal(t, 1, store.exactCalls)
	require.Equal(t, 1, store.fuzzyCalls)
}

func TestRetrievalScoringAndTieBreak(t *testing.T) {
	// Same score for "3" and "10": number order must be numeric, not
	// lexicographic.
	store := &fakeClauseStore{candidates: []model.LegalClause{
		clause("c10", "10", "", "hợp đồng lao động chi tiết"),
		clause("c3", "3", "", "hợp đồng lao động cơ bản"),
		clause("ct", "5", "hợp đồng lao động", "hợp đồng lao động và phụ lục"),
	}}
	svc := newRetrieval(store, 15)

	got := svc.Search(context.Background(), analyze.Result{
		Strategy: analyze.StrategyLegalDocument,
		Priority: analyze.PriorityHigh,
		Terms:    []string{"hợp đồng lao động"},
	})
	require.Len(t, got, 3)
	// Title+content match outranks content-only matches.
	require.Equal(t, "ct", got[0].ID)
	require.Equal(t, 7, got[0].Score)
	require.Equal(t, "c3", got[1].ID)
	require.Equal(t, "c10", got[2].ID)
}

func TestRetrievalDedupKeepsFirstSeen(t *testing.T) {
	dup := clause("c1", "1", "", "thuế thu nhập")
	store := &fakeClauseStore{candidates: []model.LegalClause{dup, clause("c2", "2", "", "thuế giá trị"), dup}}
	svc := newRetrieval(store, 15)

	got := svc.Search(context.Background(), analyze.Result{
		Strategy: analyze.StrategyLegalDocument,
		Priority: analyze.PriorityHigh,
		Terms:    []string{"thuế"},
	})
	require.Len(t, got, 2)
	require.Equal(t, "c1", got[0].ID)
	require.Equal(t, "c2", got[1].ID)
}

func TestRetrievalLowPriorityCap(t *testing.T) {
	var candidates []model.LegalClause
	for i := 0; i < 20; i++ {
		candidates = append(candidates, clause(fmt.Sprintf("c%d", i), "1", "", "quyền lợi chung"))
	}
	svc := newRetrieval(&fakeClauseStore{candidates: candidates}, 10)

	got := svc.Search(context.Background(), analyze.Result{
		Strategy: analyze.StrategyGeneral,
		Priority: analyze.PriorityMedium,
		Terms:    []string{"quyền lợi"},
	})
	// Medium priority gets 70% of the cap of 10.
	require.Len(t, got, 7)
}

func TestRetrievalStoreErrorDegradesToEmpty(t *testing.T) {
	store := &fakeClauseStore{err: errors.New("connection refused")}
	svc := newRetrieval(store, 15)

	got := svc.Search(context.Background(), analyze.Result{
		Strategy: analyze.StrategyGeneral,
		Priority: analyze.PriorityMedium,
		Terms:    []string{"ly hôn"},
	})
	require.Empty(t, got)
}

func TestRetrievalCachesResults(t *testing.T) {
	store := &fakeClauseStore{candidates: []model.LegalClause{clause("c1", "1", "", "thừa kế tài sản")}}
	svc := newRetrieval(store, 15)
	res := analyze.Result{
		Strategy: analyze.StrategyGeneral,
		Priority: analyze.PriorityMedium,
		Terms:    []string{"thừa kế"},
	}

	first := svc.Search(context.Background(), res)
	second := svc.Search(context.Background(), res)
	require.Equal(t, first, second)
	require.Equal(t, 1, store.candidateCalls)
}
