package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/legalchat/legalchat/internal/pkg/errcode"
	"github.com/legalchat/legalchat/internal/pkg/response"
	"github.com/legalchat/legalchat/internal/repo"
	"github.com/legalchat/legalchat/internal/service"
)

type DocumentHandler struct {
	ingest  *service.IngestService
	docs    *repo.DocumentRepo
	clauses *repo.ClauseRepo
}

func NewDocumentHandler(ingest *service.IngestService, docs *repo.DocumentRepo, clauses *repo.ClauseRepo) *DocumentHandler {
	return &DocumentHandler{ingest: ingest, docs: docs, clauses: clauses}
}

func (h *DocumentHandler) Ingest(c *gin.Context) {
	var req service.IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	result, err := h.ingest.Ingest(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, result)
}

func (h *DocumentHandler) List(c *gin.Context) {
	limit := uint(50)
	offset := uint(0)
	if value := c.Query("limit"); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			limit = uint(parsed)
		}
	}
	if value := c.Query("offset"); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			offset = uint(parsed)
		}
	}
	docs, err := h.docs.List(c.Request.Context(), limit, offset)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, docs)
}

func (h *DocumentHandler) Get(c *gin.Context) {
	doc, err := h.docs.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, doc)
}

func (h *DocumentHandler) Clauses(c *gin.Context) {
	clauses, err := h.clauses.ListByDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, clauses)
}
