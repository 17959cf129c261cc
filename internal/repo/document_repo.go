package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/legalchat/legalchat/internal/model"
	"github.com/legalchat/legalchat/internal/pkg/dbutil"
	appErr "github.com/legalchat/legalchat/internal/pkg/errors"
)

type DocumentRepo struct {
	db *sql.DB
}

func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

var documentFields = []string{"id", "document_name", "document_type", "document_date_issue", "document_signee", "document_url", "ctime"}

func (r *DocumentRepo) Create(ctx context.Context, doc *model.LegalDocument) error {
	data := map[string]interface{}{
		"id":                  doc.ID,
		"document_name":       doc.Name,
		"document_type":       doc.Type,
		"document_date_issue": doc.IssueDate,
		"document_signee":     doc.Signee,
		"document_url":        doc.URL,
		"ctime":               doc.Ctime,
	}
	sqlStr, args, err := builder.BuildInsert("legal_documents", []map[string]interface{}{data})
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

func (r *DocumentRepo) GetByID(ctx context.Context, id string) (*model.LegalDocument, error) {
	where := map[string]interface{}{"id": id}
	sqlStr, args, err := builder.BuildSelect("legal_documents", where, documentFields)
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
	var doc model.LegalDocument
	if err := scanDocument(rows, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *DocumentRepo) List(ctx context.Context, limit, offset uint) ([]model.LegalDocument, error) {
	where := map[string]interface{}{"_orderby": "ctime desc"}
	if limit > 0 {
		where["_limit"] = []uint{offset, limit}
	}
	sqlStr, args, err := builder.BuildSelect("legal_documents", where, documentFields)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	docs := make([]model.LegalDocument, 0)
	for rows.Next() {
		var doc model.LegalDocument
		if err := scanDocument(rows, &doc); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// ListNames resolves document ids to display names. Unknown ids are simply
// absent from the result.
func (r *DocumentRepo) ListNames(ctx context.Context, ids []string) (map[string]string, error) {
	if len(ids) == 0 {
		return map[string]string{}, nil
	}
	values := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		values = append(values, id)
	}
	where := map[string]interface{}{
		"_custom_ids": builder.In{"id": values},
	}
	sqlStr, args, err := builder.BuildSelect("legal_documents", where, []string{"id", "document_name"})
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	names := make(map[string]string, len(ids))
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		names[id] = name
	}
	return names, rows.Err()
}

func scanDocument(rows *sql.Rows, doc *model.LegalDocument) error {
	return rows.Scan(&doc.ID, &doc.Name, &doc.Type, &doc.IssueDate, &doc.Signee, &doc.URL, &doc.Ctime)
}
