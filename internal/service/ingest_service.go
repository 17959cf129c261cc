package service

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/legalchat/legalchat/internal/filestore"
	"github.com/legalchat/legalchat/internal/model"
	"github.com/legalchat/legalchat/internal/notify"
	appErr "github.com/legalchat/legalchat/internal/pkg/errors"
	"github.com/legalchat/legalchat/internal/segment"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

const defaultSignee = "System Upload"

type DocumentStore interface {
	Create(ctx context.Context, doc *model.LegalDocument) error
}

type ClauseWriter interface {
	CreateBatch(ctx context.Context, clauses []model.LegalClause) error
}

type IngestRequest struct {
	Name      string `json:"document_name"`
	Text      string `json:"text"`
	Signee    string `json:"document_signee"`
	IssueDate string `json:"document_date_issue"`
}

type IngestResult struct {
	Document      *model.LegalDocument `json:"document"`
	ChapterTitles []string             `json:"chapter_titles"`
	ClauseCount   int                  `json:"clause_count"`
}

// IngestService validates extracted document text, splits it into clauses,
// archives the raw text and persists document plus clauses.
type IngestService struct {
	docs      DocumentStore
	clauses   ClauseWriter
	files     filestore.Store
	notifier  notify.Notifier
	publicURL string
}

func NewIngestService(docs DocumentStore, clauses ClauseWriter, files filestore.Store, notifier notify.Notifier, publicURL string) *IngestService {
	return &IngestService{docs: docs, clauses: clauses, files: files, notifier: notifier, publicURL: publicURL}
}

var (
	clauseTitlePrefixRe = regexp.MustCompile(`(?i)^điều\s+\d+\s*[.:]\s*`)
	unsafeKeyRunesRe    = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)
)

func (s *IngestService) Ingest(ctx context.Context, req IngestRequest) (*IngestResult, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: document name is required", appErr.ErrInvalid)
	}
	if err := segment.ValidateExtracted(req.Text); err != nil {
		return nil, err
	}
	chapters := segment.SplitChapters(req.Text)
	clauses, err := segment.SplitClauses(req.Text)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	key := archiveKey(name, now)
	content := []byte(req.Text)
	if err := s.files.Save(ctx, key, nopSeekCloser{bytes.NewReader(content)}, int64(len(content))); err != nil {
		return nil, fmt.Errorf("%w: archive document: %v", appErr.ErrInternal, err)
	}

	issueDate := now.UnixMilli()
	if raw := strings.TrimSpace(req.IssueDate); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, fmt.Errorf("%w: document_date_issue must be YYYY-MM-DD", appErr.ErrInvalid)
		}
		issueDate = parsed.UnixMilli()
	}
	signee := strings.TrimSpace(req.Signee)
	if signee == "" {
		signee = defaultSignee
	}
	doc := &model.LegalDocument{
		ID:        newID(),
		Name:      name,
		Type:      model.DocumentTypePDF,
		IssueDate: issueDate,
		Signee:    signee,
		URL:       s.files.URL(key, s.publicURL),
		Ctime:     now.UnixMilli(),
	}
	if err := s.docs.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("persist document: %w", err)
	}

	records := make([]model.LegalClause, 0, len(clauses))
	for _, seg := range clauses {
		records = append(records, model.LegalClause{
			ID:         newID(),
			DocumentID: doc.ID,
			Number:     segment.ExtractClauseNumber(seg.Title),
			Title:      strings.TrimSpace(clauseTitlePrefixRe.ReplaceAllString(seg.Title, "")),
			Content:    seg.Content,
			Ctime:      now.UnixMilli(),
		})
	}
	if err := s.clauses.CreateBatch(ctx, records); err != nil {
		return nil, fmt.Errorf("persist clauses: %w", err)
	}
	logutil.GetLogger(ctx).Info("document ingested",
		zap.String("document_id", doc.ID),
		zap.String("name", name),
		zap.Int("chapters", len(chapters)),
		zap.Int("clauses", len(records)))
	if s.notifier != nil {
		s.notifier.Publish(ctx, notify.EventDocumentIngested, map[string]interface{}{
			"document_id": doc.ID,
			"name":        name,
			"clauses":     len(records),
		})
	}

	titles := make([]string, 0, len(chapters))
	for _, ch := range chapters {
		titles = append(titles, ch.Title)
	}
	return &IngestResult{Document: doc, ChapterTitles: titles, ClauseCount: len(records)}, nil
}

func archiveKey(name string, now time.Time) string {
	base := unsafeKeyRunesRe.ReplaceAllString(name, "-")
	base = strings.Trim(base, "-")
	if base == "" {
		base = "document"
	}
	return fmt.Sprintf("%s-%d.txt", base, now.UnixMilli())
}

type nopSeekCloser struct {
	*bytes.Reader
}

func (nopSeekCloser) Close() error { return nil }
