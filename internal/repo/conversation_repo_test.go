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

func TestQuestionAnswerRoundTrip(t *testing.T) {
	conn, cleanup := openTestDB(t)
	defer cleanup()

	questions := repo.NewQuestionRepo(conn)
	answers := repo.NewAnswerRepo(conn)

	chatID := fmt.Sprintf("chat-%d", time.Now().UnixNano())
	questionID := chatID + "-q1"
	now := time.Now().UnixMilli()

	err := questions.Create(context.Background(), &model.Question{
		ID:        questionID,
		Content:   "Điều 10 quy định gì?",
		AccountID: "acc-1",
		ChatID:    chatID,
		Ctime:     now,
	})
	require.NoError(t, err)

	err = questions.Create(context.Background(), &model.Question{ID: questionID, Content: "trùng id", AccountID: "acc-1", ChatID: chatID, Ctime: now})
	require.ErrorIs(t, err, appErr.ErrConflict)

	err = answers.Create(context.Background(), &model.Answer{
		ID:         questionID + "-a",
		Content:    "Điều 10 quy định về hợp đồng lao động.",
		QuestionID: questionID,
		ChatID:     chatID,
		Ctime:      now + 1,
	})
	require.NoError(t, err)

	got, err := answers.GetByQuestion(context.Background(), questionID)
	require.NoError(t, err)
	require.Equal(t, questionID+"-a", got.ID)
	require.Equal(t, "Điều 10 quy định về hợp đồng lao động.", got.Content)
	require.Equal(t, chatID, got.ChatID)

	_, err = answers.GetByQuestion(context.Background(), chatID+"-missing")
	require.ErrorIs(t, err, appErr.ErrNotFound)
}

func TestHistoryByChatOrdersTurns(t *testing.T) {
	conn, cleanup := openTestDB(t)
	defer cleanup()

	questions := repo.NewQuestionRepo(conn)
	answers := repo.NewAnswerRepo(conn)

	chatID := fmt.Sprintf("chat-%d", time.Now().UnixNano())
	now := time.Now().UnixMilli()

	err := questions.Create(context.Background(), &model.Question{ID: chatID + "-q1", Content: "câu hỏi thứ nhất", AccountID: "acc-1", ChatID: chatID, Ctime: now})
	require.NoError(t, err)
	err = answers.Create(context.Background(), &model.Answer{ID: chatID + "-a1", Content: "trả lời thứ nhất", QuestionID: chatID + "-q1", ChatID: chatID, Ctime: now + 1})
	require.NoError(t, err)

	// Later question without an answer row yet.
	err = questions.Create(context.Background(), &model.Question{ID: chatID + "-q2", Content: "câu hỏi thứ hai", AccountID: "acc-1", ChatID: chatID, Ctime: now + 2})
	require.NoError(t, err)

	history, err := questions.HistoryByChat(context.Background(), chatID)
	require.NoError(t, err)
	require.Len(t, history, 2)

	require.Equal(t, "câu hỏi thứ nhất", history[0].Question)
	require.Equal(t, "trả lời thứ nhất", history[0].Answer)
	require.Equal(t, now+1, history[0].AnswerTime)

	require.Equal(t, "câu hỏi thứ hai", history[1].Question)
	require.Empty(t, history[1].Answer)
	require.Zero(t, history[1].AnswerTime)
}
