package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/legalchat/legalchat/internal/model"
	"github.com/legalchat/legalchat/internal/pkg/errcode"
	appErr "github.com/legalchat/legalchat/internal/pkg/errors"
)

func postJSON(t *testing.T, env *testEnv, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	env.router.ServeHTTP(resp, req)
	return resp
}

func TestSendMessageSuccess(t *testing.T) {
	env := setupRouter(t, []model.LegalClause{
		{ID: "c1", DocumentID: "doc-1", Number: "1", Title: "Phạm vi điều chỉnh", Content: "Bộ luật này quy định..."},
	})

	resp := postJSON(t, env, "/api/v1/chat/messages", map[string]string{
		"question_content": "Điều 1. Phạm vi điều chỉnh quy định gì?",
		"account_id":       "acc-1",
	})
	require.Equal(t, http.StatusOK, resp.Code)
	out := decodeResponse(t, resp)
	require.Zero(t, out.Code)

	var data struct {
		ChatID   string `json:"chat_id"`
		Metadata struct {
			ClausesFound int `json:"clauses_found"`
		} `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(out.Data, &data))
	require.NotEmpty(t, data.ChatID)
	require.Equal(t, 1, data.Metadata.ClausesFound)
	require.Equal(t, 1, env.questions.n)
}

func TestSendMessageRejectsEmptyContent(t *testing.T) {
	env := setupRouter(t, nil)

	resp := postJSON(t, env, "/api/v1/chat/messages", map[string]string{
		"question_content": "   ",
		"account_id":       "acc-1",
	})
	out := decodeResponse(t, resp)
	require.EqualValues(t, errcode.ErrInvalid, out.Code)
	require.Zero(t, env.questions.n)
}

func TestSendMessageMapsConflict(t *testing.T) {
	env := setupRouter(t, nil)
	env.questions.err = appErr.ErrConflict

	resp := postJSON(t, env, "/api/v1/chat/messages", map[string]string{
		"question_content": "câu hỏi trùng",
		"account_id":       "acc-1",
	})
	out := decodeResponse(t, resp)
	require.EqualValues(t, errcode.ErrConflict, out.Code)
}

func TestCreateRoomRejectsMissingAccount(t *testing.T) {
	env := setupRouter(t, nil)

	resp := postJSON(t, env, "/api/v1/chat/rooms", map[string]string{"room_name": "phòng"})
	out := decodeResponse(t, resp)
	require.EqualValues(t, errcode.ErrInvalid, out.Code)
}

func TestExportUnknownRoomMapsNotFound(t *testing.T) {
	env := setupRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/chat/rooms/chat-404/export", nil)
	resp := httptest.NewRecorder()
	env.router.ServeHTTP(resp, req)
	out := decodeResponse(t, resp)
	require.EqualValues(t, errcode.ErrNotFound, out.Code)
}
