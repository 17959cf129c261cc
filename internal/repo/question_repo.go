package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/legalchat/legalchat/internal/model"
	"github.com/legalchat/legalchat/internal/pkg/dbutil"
	appErr "github.com/legalchat/legalchat/internal/pkg/errors"
)

type QuestionRepo struct {
	db *sql.DB
}

func NewQuestionRepo(db *sql.DB) *QuestionRepo {
	return &QuestionRepo{db: db}
}

func (r *QuestionRepo) Create(ctx context.Context, q *model.Question) error {
	data := map[string]interface{}{
		"id":               q.ID,
		"question_content": q.Content,
		"account_id":       q.AccountID,
		"chat_id":          q.ChatID,
		"ctime":            q.Ctime,
	}
	sqlStr, args, err := builder.BuildInsert("questions", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	if _, err := r.db.ExecContext(ctx, sqlStr, args...); err != nil {
		if dbutil.IsConflict(err) {
			return appErr.ErrConflict
		}
		return err
	}
	return nil
}

// HistoryByChat returns the room's question/answer turns in chronological
// order. A question whose answer write failed shows up with an empty
// answer.
func (r *QuestionRepo) HistoryByChat(ctx context.Context, chatID string) ([]model.ChatMessage, error) {
	query := `SELECT q.question_content, COALESCE(a.answer_content, ''), q.ctime, COALESCE(a.ctime, 0), q.chat_id
FROM questions q
LEFT JOIN answers a ON a.question_id = q.id
WHERE q.chat_id = ?
ORDER BY q.ctime`
	sqlStr, args := dbutil.Finalize(query, []interface{}{chatID})
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	messages := make([]model.ChatMessage, 0)
	for rows.Next() {
		var msg model.ChatMessage
		if err := rows.Scan(&msg.Question, &msg.Answer, &msg.QuestionTime, &msg.AnswerTime, &msg.ChatID); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}
