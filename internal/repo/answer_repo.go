package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/legalchat/legalchat/internal/model"
	"github.com/legalchat/legalchat/internal/pkg/dbutil"
	appErr "github.com/legalchat/legalchat/internal/pkg/errors"
)

type AnswerRepo struct {
	db *sql.DB
}

func NewAnswerRepo(db *sql.DB) *AnswerRepo {
	return &AnswerRepo{db: db}
}

func (r *AnswerRepo) Create(ctx context.Context, a *model.Answer) error {
	data := map[string]interface{}{
		"id":             a.ID,
		"answer_content": a.Content,
		"question_id":    a.QuestionID,
		"chat_id":        a.ChatID,
		"ctime":          a.Ctime,
	}
	sqlStr, args, err := builder.BuildInsert("answers", []map[string]interface{}{data})
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

func (r *AnswerRepo) GetByQuestion(ctx context.Context, questionID string) (*model.Answer, error) {
	where := map[string]interface{}{"question_id": questionID}
	sqlStr, args, err := builder.BuildSelect("answers", where, []string{"id", "answer_content", "question_id", "chat_id", "ctime"})
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, appErr.ErrNotFound
	}
	var answer model.Answer
	if err := rows.Scan(&answer.ID, &answer.Content, &answer.QuestionID, &answer.ChatID, &answer.Ctime); err != nil {
		return nil, err
	}
	return &answer, nil
}
