package service

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/legalchat/legalchat/internal/analyze"
	"github.com/legalchat/legalchat/internal/cache"
	"github.com/legalchat/legalchat/internal/model"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

const (
	scoreNumberMatch  = 10
	scoreTitleMatch   = 5
	scoreContentMatch = 2
)

// ClauseStore is the subset of the clause repository the retrieval engine needs.
type ClauseStore interface {
	FindExact(ctx context.Context, number string, title string, limit uint) ([]model.LegalClause, error)
	SearchFuzzy(ctx context.Context, terms []string, limit uint) ([]model.LegalClause, error)
	SearchCandidates(ctx context.Context, terms []string, limit uint) ([]model.LegalClause, error)
}

// RetrievedClause carries a clause together with its relevance score.
type RetrievedClause struct {
	model.LegalClause
	Score int
}

type RetrievalConfig struct {
	MaxClauses          int
	LowPriorityCapRatio float64
	CacheTTL            time.Duration
}

// RetrievalService turns an analyzed question into a ranked list of clauses.
// It degrades instead of failing: storage errors produce an empty result.
type RetrievalService struct {
	store ClauseStore
	cache *cache.Cache
	cfg   RetrievalConfig
}

func NewRetrievalService(store ClauseStore, c *cache.Cache, cfg RetrievalConfig) *RetrievalService {
	return &RetrievalService{store: store, cache: c, cfg: cfg}
}

func (s *RetrievalService) Search(ctx context.Context, res analyze.Result) []RetrievedClause {
	key := cache.RetrievalKey(string(res.Strategy), res.Terms)
	if cached, ok := s.cache.Get(key); ok {
		if clauses, ok := cached.([]RetrievedClause); ok {
			return clauses
		}
	}
	var clauses []RetrievedClause
	if res.Strategy == analyze.StrategyClauseSpecific {
		clauses = s.searchClauseSpecific(ctx, res)
	} else {
		clauses = s.searchScored(ctx, res)
	}
	clauses = dedupClauses(clauses)
	if len(clauses) > s.cfg.MaxClauses {
		clauses = clauses[:s.cfg.MaxClauses]
	}
	s.cache.SetTTL(key, clauses, s.cfg.CacheTTL)
	return clauses
}

// searchClauseSpecific looks the clause up by its number (and title when the
// question carried one), widening to a fuzzy search when nothing matches.
func (s *RetrievalService) searchClauseSpecific(ctx context.Context, res analyze.Result) []RetrievedClause {
	found, err := s.store.FindExact(ctx, res.ClauseNumber, res.ClauseTitle, uint(s.cfg.MaxClauses))
	if err != nil {
		logutil.GetLogger(ctx).Warn("exact clause lookup failed", zap.Error(err), zap.String("clause_number", res.ClauseNumber))
		return nil
	}
	if len(found) == 0 {
		found, err = s.store.SearchFuzzy(ctx, res.Terms, uint(s.cfg.MaxClauses))
		if err != nil {
			logutil.GetLogger(ctx).Warn("fuzzy clause search failed", zap.Error(err), zap.Strings("terms", res.Terms))
			return nil
		}
	}
	// Definitional lookups are returned in store order, unscored.
	out := make([]RetrievedClause, 0, len(found))
	for _, c := range found {
		out = append(out, RetrievedClause{LegalClause: c})
	}
	return out
}

// searchScored fetches a wide candidate set and ranks it against the primary
// search term. Low priority questions get a reduced share of the result cap.
func (s *RetrievalService) searchScored(ctx context.Context, res analyze.Result) []RetrievedClause {
	if len(res.Terms) == 0 {
		return nil
	}
	fetchLimit := uint(s.cfg.MaxClauses * 10)
	candidates, err := s.store.SearchCandidates(ctx, res.Terms, fetchLimit)
	if err != nil {
		logutil.GetLogger(ctx).Warn("candidate clause search failed", zap.Error(err), zap.Strings("terms", res.Terms))
		return nil
	}
	primary := res.Terms[0]
	scored := make([]RetrievedClause, 0, len(candidates))
	for _, c := range candidates {
		score := 0
		if containsFold(c.Number, primary) {
			score += scoreNumberMatch
		}
		if containsFold(c.Title, primary) {
			score += scoreTitleMatch
		}
		if containsFold(c.Content, primary) {
			score += scoreContentMatch
		}
		scored = append(scored, RetrievedClause{LegalClause: c, Score: score})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return lessClauseNumber(scored[i].Number, scored[j].Number)
	})
	limit := s.cfg.MaxClauses
	if res.Priority != analyze.PriorityHigh && res.Priority != analyze.PriorityVeryHigh {
		limit = int(float64(s.cfg.MaxClauses) * s.cfg.LowPriorityCapRatio)
		if limit < 1 {
			limit = 1
		}
	}
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

func dedupClauses(clauses []RetrievedClause) []RetrievedClause {
	seen := make(map[string]struct{}, len(clauses))
	out := clauses[:0]
	for _, c := range clauses {
		if _, ok := seen[c.ID]; ok {
			continue
		}
		seen[c.ID] = struct{}{}
		out = append(out, c)
	}
	return out
}

func containsFold(haystack string, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// lessClauseNumber orders numeric clause numbers by value and places
// non-numeric ones after them, so "3" sorts before "10".
func lessClauseNumber(a string, b string) bool {
	na, aerr := strconv.Atoi(a)
	nb, berr := strconv.Atoi(b)
	switch {
	case aerr == nil && berr == nil:
		return na < nb
	case aerr == nil:
		return true
	case berr == nil:
		return false
	default:
		return a < b
	}
}
