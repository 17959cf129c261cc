package repo

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"github.com/didi/gendry/builder"

	"github.com/legalchat/legalchat/internal/model"
	"github.com/legalchat/legalchat/internal/pkg/dbutil"
	"github.com/legalchat/legalchat/internal/pkg/vntext"
)

type ClauseRepo struct {
	db *sql.DB
}

func NewClauseRepo(db *sql.DB) *ClauseRepo {
	return &ClauseRepo{db: db}
}

const clauseFieldList = "id, document_id, clause_number, clause_title, clause_content, ctime"

func (r *ClauseRepo) Create(ctx context.Context, clause *model.LegalClause) error {
	return r.CreateBatch(ctx, []model.LegalClause{*clause})
}

func (r *ClauseRepo) CreateBatch(ctx context.Context, clauses []model.LegalClause) error {
	if len(clauses) == 0 {
		return nil
	}
	rows := make([]map[string]interface{}, 0, len(clauses))
	for _, clause := range clauses {
		rows = append(rows, map[string]interface{}{
			"id":             clause.ID,
			"document_id":    clause.DocumentID,
			"clause_number":  clause.Number,
			"clause_title":   clause.Title,
			"clause_content": clause.Content,
			"ctime":          clause.Ctime,
		})
	}
	sqlStr, args, err := builder.BuildInsert("legal_clauses", rows)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

// ListByDocument returns a document's clauses ordered by clause number,
// numerically where the number parses, with non-numeric numbers last.
func (r *ClauseRepo) ListByDocument(ctx context.Context, documentID string) ([]model.LegalClause, error) {
	query := "SELECT " + clauseFieldList + " FROM legal_clauses WHERE document_id = ? " +
		"ORDER BY (clause_number ~ '^[0-9]+$') DESC, " +
		"CASE WHEN clause_number ~ '^[0-9]+$' THEN clause_number::bigint END, clause_number"
	sqlStr, args := dbutil.Finalize(query, []interface{}{documentID})
	return r.queryClauses(ctx, sqlStr, args)
}

// FindExact is the first pass of the clause-specific strategy: clause
// number equality, an anchored "điều N" content match, or (when known) the
// clause title against title/content.
func (r *ClauseRepo) FindExact(ctx context.Context, number, title string, limit uint) ([]model.LegalClause, error) {
	conds := []string{
		"clause_number = ?",
		"clause_content ~* ?",
	}
	args := []interface{}{number, `điều\s+` + regexp.QuoteMeta(number) + `\M`}
	if title != "" {
		conds = append(conds, "clause_title ILIKE ?", "clause_content ILIKE ?")
		args = append(args, likeContains(title), likeContains(title))
	}
	return r.searchDisjunction(ctx, conds, args, limit)
}

// SearchFuzzy matches every term (and its accent-stripped variant) against
// clause content and title. Used when the exact pass found nothing.
func (r *ClauseRepo) SearchFuzzy(ctx context.Context, terms []string, limit uint) ([]model.LegalClause, error) {
	var conds []string
	var args []interface{}
	for _, term := range terms {
		if strings.TrimSpace(term) == "" {
			continue
		}
		conds = append(conds, "clause_content ILIKE ?", "clause_title ILIKE ?")
		args = append(args, likeContains(term), likeContains(term))
		if toneless := vntext.StripDiacritics(term); toneless != term {
			conds = append(conds, "clause_content ILIKE ?")
			args = append(args, likeContains(toneless))
		}
	}
	if len(conds) == 0 {
		return []model.LegalClause{}, nil
	}
	return r.searchDisjunction(ctx, conds, args, limit)
}

// SearchCandidates gathers candidates for the scored strategies: per term a
// word-boundary regex, plain and accent-stripped substring matches on the
// content, clause-number equality, and a title substring match.
func (r *ClauseRepo) SearchCandidates(ctx context.Context, terms []string, limit uint) ([]model.LegalClause, error) {
	var conds []string
	var args []interface{}
	for _, term := range terms {
		if strings.TrimSpace(term) == "" {
			continue
		}
		conds = append(conds,
			"clause_content ~* ?",
			"clause_number = ?",
			"clause_content ILIKE ?",
			"clause_title ILIKE ?",
		)
		args = append(args,
			`\m`+regexp.QuoteMeta(term)+`\M`,
			term,
			likeContains(term),
			likeContains(term),
		)
		if toneless := vntext.StripDiacritics(term); toneless != term {
			conds = append(conds, "clause_content ILIKE ?")
			args = append(args, likeContains(toneless))
		}
	}
	if len(conds) == 0 {
		return []model.LegalClause{}, nil
	}
	return r.searchDisjunction(ctx, conds, args, limit)
}

func (r *ClauseRepo) searchDisjunction(ctx context.Context, conds []string, args []interface{}, limit uint) ([]model.LegalClause, error) {
	query := "SELECT " + clauseFieldList + " FROM legal_clauses WHERE (" + strings.Join(conds, " OR ") + ")"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	sqlStr, finalArgs := dbutil.Finalize(query, args)
	return r.queryClauses(ctx, sqlStr, finalArgs)
}

func (r *ClauseRepo) queryClauses(ctx context.Context, sqlStr string, args []interface{}) ([]model.LegalClause, error) {
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	clauses := make([]model.LegalClause, 0)
	for rows.Next() {
		var clause model.LegalClause
		if err := rows.Scan(&clause.ID, &clause.DocumentID, &clause.Number, &clause.Title, &clause.Content, &clause.Ctime); err != nil {
			return nil, err
		}
		clauses = append(clauses, clause)
	}
	return clauses, rows.Err()
}

func likeContains(term string) string {
	escaped := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(term)
	return "%" + escaped + "%"
}
