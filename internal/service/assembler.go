package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/legalchat/legalchat/internal/analyze"
	"github.com/legalchat/legalchat/internal/cache"
	"github.com/legalchat/legalchat/internal/segment"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

const (
	answerHeading      = "**💡 Giải đáp:**"
	clauseHeading      = "**📋 Điều khoản pháp lý liên quan:**"
	clauseDivider      = "\n---\n"
	advisoryNote       = "\n💡 *Lưu ý: Vui lòng tham khảo toàn văn các điều khoản để có thông tin đầy đủ và chính xác nhất.*"
	noClausesNotice    = "\n\n❌ **Không tìm thấy điều khoản cụ thể trong hệ thống.**\nKhuyến nghị liên hệ chuyên gia pháp lý để được tư vấn chi tiết về các văn bản pháp luật liên quan."
	unknownDocument    = "Không xác định"
	responseStructure  = "ai_general_knowledge + db_specific_clauses"
	docNameCacheSize   = 256
	ellipsis           = "..."
)

// DocumentNameStore resolves document ids to display names.
type DocumentNameStore interface {
	ListNames(ctx context.Context, ids []string) (map[string]string, error)
}

// FormattedClause is one entry of the related-clause section, in the shape
// clients render it.
type FormattedClause struct {
	Index      int    `json:"stt"`
	Label      string `json:"dieu"`
	Title      string `json:"tieu_de"`
	Content    string `json:"noi_dung"`
	Document   string `json:"van_ban"`
	DocumentID string `json:"document_id"`
	ID         string `json:"id"`
	Score      int    `json:"relevance_score"`
}

type Metadata struct {
	QuestionType      string   `json:"question_type"`
	KeywordsUsed      string   `json:"keywords_used"`
	SearchTerms       []string `json:"search_terms"`
	ClausesFound      int      `json:"clauses_found"`
	DocumentsInvolved []string `json:"documents_involved"`
	ProcessingTimeMS  int64    `json:"processing_time_ms"`
	SearchPriority    string   `json:"search_priority"`
	ResponseStructure string   `json:"response_structure"`
}

type AssembledAnswer struct {
	Content  string
	Clauses  []FormattedClause
	Metadata Metadata
}

// Assembler composes the final answer from the explanation and the retrieved
// clauses. Document names go through a small expiring LRU so repeated
// questions over the same documents do not hit the store every time.
type Assembler struct {
	docs          DocumentNameStore
	names         *expirable.LRU[string, map[string]string]
	previewLength int
}

func NewAssembler(docs DocumentNameStore, previewLength int, nameTTL time.Duration) *Assembler {
	return &Assembler{
		docs:          docs,
		names:         expirable.NewLRU[string, map[string]string](docNameCacheSize, nil, nameTTL),
		previewLength: previewLength,
	}
}

func (a *Assembler) Assemble(ctx context.Context, explanation string, clauses []RetrievedClause, res analyze.Result, started time.Time) *AssembledAnswer {
	names := a.resolveNames(ctx, clauses)
	formatted := a.formatClauses(clauses, names)

	var sb strings.Builder
	sb.WriteString(answerHeading)
	sb.WriteString("\n")
	sb.WriteString(explanation)
	if len(formatted) > 0 {
		sb.WriteString("\n\n")
		sb.WriteString(clauseHeading)
		sb.WriteString("\n")
		for i, fc := range formatted {
			title := ""
			if fc.Title != "" {
				title = " - " + fc.Title
			}
			fmt.Fprintf(&sb, "\n**%s%s** (%s):\n%s\n", fc.Label, title, fc.Document, fc.Content)
			if i < len(formatted)-1 {
				sb.WriteString(clauseDivider)
			}
		}
		sb.WriteString(advisoryNote)
	} else {
		sb.WriteString(noClausesNotice)
	}

	return &AssembledAnswer{
		Content: sb.String(),
		Clauses: formatted,
		Metadata: Metadata{
			QuestionType:      string(res.QuestionType),
			KeywordsUsed:      strings.Join(res.Keywords, ", "),
			SearchTerms:       res.Terms,
			ClausesFound:      len(clauses),
			DocumentsInvolved: distinctNames(names),
			ProcessingTimeMS:  time.Since(started).Milliseconds(),
			SearchPriority:    string(res.Priority),
			ResponseStructure: responseStructure,
		},
	}
}

func (a *Assembler) formatClauses(clauses []RetrievedClause, names map[string]string) []FormattedClause {
	out := make([]FormattedClause, 0, len(clauses))
	for i, c := range clauses {
		label := fmt.Sprintf("Mục %d", i+1)
		if c.Number != "" && c.Number != segment.ClauseNumberUnknown {
			label = "Điều " + c.Number
		}
		doc := names[c.DocumentID]
		if doc == "" {
			doc = unknownDocument
		}
		out = append(out, FormattedClause{
			Index:      i + 1,
			Label:      label,
			Title:      c.Title,
			Content:    truncateRunes(c.Content, a.previewLength),
			Document:   doc,
			DocumentID: c.DocumentID,
			ID:         c.ID,
			Score:      c.Score,
		})
	}
	return out
}

// resolveNames degrades to an empty map on store failure; the clause section
// then falls back to the unknown-document label.
func (a *Assembler) resolveNames(ctx context.Context, clauses []RetrievedClause) map[string]string {
	ids := make([]string, 0, len(clauses))
	seen := make(map[string]struct{}, len(clauses))
	for _, c := range clauses {
		if c.DocumentID == "" {
			continue
		}
		if _, ok := seen[c.DocumentID]; ok {
			continue
		}
		seen[c.DocumentID] = struct{}{}
		ids = append(ids, c.DocumentID)
	}
	if len(ids) == 0 {
		return map[string]string{}
	}
	key := cache.DocNamesKey(ids)
	if cached, ok := a.names.Get(key); ok {
		return cached
	}
	names, err := a.docs.ListNames(ctx, ids)
	if err != nil {
		logutil.GetLogger(ctx).Warn("resolve document names failed", zap.Error(err), zap.Strings("ids", ids))
		return map[string]string{}
	}
	a.names.Add(key, names)
	return names
}

func distinctNames(names map[string]string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if name != "" {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + ellipsis
}
