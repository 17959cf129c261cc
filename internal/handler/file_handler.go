package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/legalchat/legalchat/internal/filestore"
	"github.com/legalchat/legalchat/internal/pkg/errcode"
	"github.com/legalchat/legalchat/internal/pkg/response"
)

// FileHandler serves archived document text for backends without a public
// host (the local store).
type FileHandler struct {
	files filestore.Store
}

func NewFileHandler(files filestore.Store) *FileHandler {
	return &FileHandler{files: files}
}

func (h *FileHandler) Get(c *gin.Context) {
	key := c.Param("key")
	reader, err := h.files.Open(c.Request.Context(), key)
	if err != nil {
		response.Error(c, errcode.ErrNotFound, "file not found")
		return
	}
	defer reader.Close()
	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, reader)
}
