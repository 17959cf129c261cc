package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/legalchat/legalchat/internal/model"
	appErr "github.com/legalchat/legalchat/internal/pkg/errors"
)

type ChatRoomStore interface {
	Create(ctx context.Context, room *model.ChatRoom) error
	Get(ctx context.Context, chatID string) (*model.ChatRoom, error)
	ListByAccount(ctx context.Context, accountID string) ([]model.ChatRoom, error)
}

type HistoryStore interface {
	HistoryByChat(ctx context.Context, chatID string) ([]model.ChatMessage, error)
}

type CreateRoomRequest struct {
	AccountID string `json:"account_id"`
	RoomName  string `json:"room_name"`
}

// ChatService manages chat rooms and their message history.
type ChatService struct {
	rooms   ChatRoomStore
	history HistoryStore
}

func NewChatService(rooms ChatRoomStore, history HistoryStore) *ChatService {
	return &ChatService{rooms: rooms, history: history}
}

func (s *ChatService) CreateRoom(ctx context.Context, req CreateRoomRequest) (*model.ChatRoom, error) {
	if req.AccountID == "" {
		return nil, fmt.Errorf("%w: account id is required", appErr.ErrInvalid)
	}
	name := strings.TrimSpace(req.RoomName)
	if name == "" {
		name = "Cuộc trò chuyện mới"
	}
	now := time.Now().UnixMilli()
	room := &model.ChatRoom{
		ChatID:    newChatID(),
		AccountID: req.AccountID,
		RoomName:  name,
		Ctime:     now,
		Mtime:     now,
	}
	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, fmt.Errorf("persist chat room: %w", err)
	}
	return room, nil
}

func (s *ChatService) ListRooms(ctx context.Context, accountID string) ([]model.ChatRoom, error) {
	if accountID == "" {
		return nil, fmt.Errorf("%w: account id is required", appErr.ErrInvalid)
	}
	return s.rooms.ListByAccount(ctx, accountID)
}

func (s *ChatService) Messages(ctx context.Context, chatID string) ([]model.ChatMessage, error) {
	if chatID == "" {
		return nil, fmt.Errorf("%w: chat id is required", appErr.ErrInvalid)
	}
	return s.history.HistoryByChat(ctx, chatID)
}

func (s *ChatService) Room(ctx context.Context, chatID string) (*model.ChatRoom, error) {
	if chatID == "" {
		return nil, fmt.Errorf("%w: chat id is required", appErr.ErrInvalid)
	}
	return s.rooms.Get(ctx, chatID)
}
