package model

import "github.com/pgvector/pgvector-go"

type LegalClause struct {
	ID         string `json:"id"`
	DocumentID string `json:"document_id"`
	Number     string `json:"clause_number"`
	Title      string `json:"clause_title,omitempty"`
	Content    string `json:"clause_content"`
	// Embedding is reserved for semantic search. Nothing writes or
	// queries it yet; the column exists so the schema will not need a
	// migration when that lands.
	Embedding *pgvector.Vector `json:"-"`
	Ctime     int64            `json:"ctime"`
}
