package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/legalchat/legalchat/internal/pkg/errcode"
	"github.com/legalchat/legalchat/internal/pkg/response"
	"github.com/legalchat/legalchat/internal/service"
)

type ChatHandler struct {
	qa     *service.QAService
	chats  *service.ChatService
	export *service.ExportService
}

func NewChatHandler(qa *service.QAService, chats *service.ChatService, export *service.ExportService) *ChatHandler {
	return &ChatHandler{qa: qa, chats: chats, export: export}
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req service.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	if req.AccountID == "" {
		req.AccountID = getAccountID(c)
	}
	result, err := h.qa.Ask(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, result)
}

func (h *ChatHandler) CreateRoom(c *gin.Context) {
	var req service.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	if req.AccountID == "" {
		req.AccountID = getAccountID(c)
	}
	room, err := h.chats.CreateRoom(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, room)
}

func (h *ChatHandler) ListRooms(c *gin.Context) {
	rooms, err := h.chats.ListRooms(c.Request.Context(), getAccountID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, rooms)
}

func (h *ChatHandler) Messages(c *gin.Context) {
	messages, err := h.chats.Messages(c.Request.Context(), c.Param("chat_id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, messages)
}

func (h *ChatHandler) Export(c *gin.Context) {
	export, err := h.export.Export(c.Request.Context(), c.Param("chat_id"), c.Query("format"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.Data(http.StatusOK, export.ContentType, export.Content)
}
