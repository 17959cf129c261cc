package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/legalchat/legalchat/internal/pkg/errcode"
)

const ingestSample = `Chương I. NHỮNG QUY ĐỊNH CHUNG

Điều 1. Phạm vi điều chỉnh
Bộ luật này quy định tiêu chuẩn lao động, quyền và nghĩa vụ của người lao động.

Điều 2. Đối tượng áp dụng
Người lao động, người học nghề và người làm việc không có quan hệ lao động.`

func TestIngestDocumentSuccess(t *testing.T) {
	env := setupRouter(t, nil)

	resp := postJSON(t, env, "/api/v1/documents", map[string]string{
		"document_name": "Bộ luật Lao động 2019",
		"text":          ingestSample,
	})
	require.Equal(t, http.StatusOK, resp.Code)
	out := decodeResponse(t, resp)
	require.Zero(t, out.Code)

	var data struct {
		ClauseCount int `json:"clause_count"`
	}
	require.NoError(t, json.Unmarshal(out.Data, &data))
	require.Equal(t, 2, data.ClauseCount)
	require.Len(t, env.files.saved, 1)
}

func TestIngestDocumentRejectsBadExtraction(t *testing.T) {
	env := setupRouter(t, nil)

	resp := postJSON(t, env, "/api/v1/documents", map[string]string{
		"document_name": "văn bản",
		"text":          "garbled",
	})
	out := decodeResponse(t, resp)
	require.EqualValues(t, errcode.ErrBadExtraction, out.Code)
}

func TestIngestDocumentRejectsTextWithoutClauses(t *testing.T) {
	env := setupRouter(t, nil)

	resp := postJSON(t, env, "/api/v1/documents", map[string]string{
		"document_name": "văn bản",
		"text":          "Đây là một đoạn văn bản tiếng Việt đủ dài nhưng không có điều khoản nào được đánh dấu.",
	})
	out := decodeResponse(t, resp)
	require.EqualValues(t, errcode.ErrNoClausesExtracted, out.Code)
}

func TestIngestDocumentRequiresName(t *testing.T) {
	env := setupRouter(t, nil)

	resp := postJSON(t, env, "/api/v1/documents", map[string]string{"text": ingestSample})
	out := decodeResponse(t, resp)
	require.EqualValues(t, errcode.ErrInvalid, out.Code)
}
