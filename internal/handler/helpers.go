package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/legalchat/legalchat/internal/pkg/errcode"
	appErr "github.com/legalchat/legalchat/internal/pkg/errors"
	"github.com/legalchat/legalchat/internal/pkg/response"
	"github.com/legalchat/legalchat/internal/segment"
)

// devMode controls whether error detail is attached to responses. Set once
// at startup.
var devMode bool

func SetDevMode(enabled bool) {
	devMode = enabled
}

func getAccountID(c *gin.Context) string {
	if id := c.GetHeader("X-Account-Id"); id != "" {
		return id
	}
	return c.Query("account_id")
}

func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	logutil.GetLogger(c.Request.Context()).Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err))
	code := errcode.ErrInternal
	msg := "internal error"
	switch {
	case errors.Is(err, appErr.ErrNotFound):
		code, msg = errcode.ErrNotFound, "not found"
	case errors.Is(err, appErr.ErrInvalid):
		code, msg = errcode.ErrInvalid, "invalid request"
	case errors.Is(err, appErr.ErrConflict):
		code, msg = errcode.ErrConflict, "duplicate entry"
	case errors.Is(err, appErr.ErrTooMany):
		code, msg = errcode.ErrTooMany, "too many requests"
	case errors.Is(err, appErr.ErrBadExtraction):
		code, msg = errcode.ErrBadExtraction, "extracted text is not valid document content"
	case errors.Is(err, segment.ErrNoSegments):
		code, msg = errcode.ErrNoClausesExtracted, "no clauses could be extracted"
	}
	if devMode {
		msg = msg + ": " + err.Error()
	}
	response.Error(c, code, msg)
}
