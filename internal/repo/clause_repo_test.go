package repo_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/legalchat/legalchat/internal/model"
	appErr "github.com/legalchat/legalchat/internal/pkg/errors"
	"github.com/legalchat/legalchat/internal/repo"
)

func seedDocument(t *testing.T, docs *repo.DocumentRepo, id, name string) {
	t.Helper()
	err := docs.Create(context.Background(), &model.LegalDocument{
		ID:    id,
		Name:  name,
		Type:  model.DocumentTypePDF,
		Ctime: time.Now().UnixMilli(),
	})
	require.NoError(t, err)
}

func TestClauseRepoSearch(t *testing.T) {
	conn, cleanup := openTestDB(t)
	defer cleanup()

	docs := repo.NewDocumentRepo(conn)
	clauses := repo.NewClauseRepo(conn)

	docID := fmt.Sprintf("doc-%d", time.Now().UnixNano())
	seedDocument(t, docs, docID, "Luật mẫu")

	now := time.Now().UnixMilli()
	err := clauses.CreateBatch(context.Background(), []model.LegalClause{
		{ID: docID + "-c1", DocumentID: docID, Number: "1", Title: "Phạm vi điều chỉnh", Content: "Điều 1. Luật này quy định về quan hệ lao động.", Ctime: now},
		{ID: docID + "-c2", DocumentID: docID, Number: "10", Title: "Hợp đồng lao động", Content: "Điều 10. Hợp đồng lao động phải được lập thành văn bản.", Ctime: now},
		{ID: docID + "-c3", DocumentID: docID, Number: "2", Title: "", Content: "Điều 2. Đối tượng áp dụng.", Ctime: now},
	})
	require.NoError(t, err)

	t.Run("list ordered numerically", func(t *testing.T) {
		listed, err := clauses.ListByDocument(context.Background(), docID)
		require.NoError(t, err)
		require.Len(t, listed, 3)
		require.Equal(t, "1", listed[0].Number)
		require.Equal(t, "2", listed[1].Number)
		require.Equal(t, "10", listed[2].Number)
	})

	t.Run("exact by number", func(t *testing.T) {
		found, err := clauses.FindExact(context.Background(), "10", "", 15)
		require.NoError(t, err)
		require.NotEmpty(t, found)
		seen := false
		for _, clause := range found {
			if clause.ID == docID+"-c2" {
				seen = true
			}
		}
		require.True(t, seen, "clause 10 should match by number equality")
	})

	t.Run("exact by title", func(t *testing.T) {
		found, err := clauses.FindExact(context.Background(), "1", "Phạm vi điều chỉnh", 15)
		require.NoError(t, err)
		require.NotEmpty(t, found)
	})

	t.Run("fuzzy accent stripped", func(t *testing.T) {
		found, err := clauses.SearchFuzzy(context.Background(), []string{"hợp đồng lao động"}, 15)
		require.NoError(t, err)
		require.NotEmpty(t, found)
	})

	t.Run("candidates word boundary", func(t *testing.T) {
		found, err := clauses.SearchCandidates(context.Background(), []string{"văn bản"}, 50)
		require.NoError(t, err)
		require.NotEmpty(t, found)
	})
}

func TestDocumentRepoConflictAndNames(t *testing.T) {
	conn, cleanup := openTestDB(t)
	defer cleanup()

	docs := repo.NewDocumentRepo(conn)
	docID := fmt.Sprintf("doc-%d", time.Now().UnixNano())
	seedDocument(t, docs, docID, "Bộ luật dân sự")

	err := docs.Create(context.Background(), &model.LegalDocument{ID: docID, Name: "trùng id", Type: model.DocumentTypePDF})
	require.ErrorIs(t, err, appErr.ErrConflict)

	names, err := docs.ListNames(context.Background(), []string{docID, "missing-id"})
	require.NoError(t, err)
	require.Equal(t, "Bộ luật dân sự", names[docID])
	_, ok := names["missing-id"]
	require.False(t, ok)
}
