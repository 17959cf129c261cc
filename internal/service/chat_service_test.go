package service

import (
	"context"
	"testing"

	appErr "github.com/legalchat/legalchat/internal/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestCreateRoomDefaultsName(t *testing.T) {
	svc := NewChatService(&fakeRoomStore{}, &fakeHistoryStore{})

	room, err := svc.CreateRoom(context.Background(), CreateRoomRequest{AccountID: "acc-1"})
	require.NoError(t, err)
	require.Equal(t, "Cuộc trò chuyện mới", room.RoomName)
	require.Equal(t, "acc-1", room.AccountID)
	require.NotEmpty(t, room.ChatID)
	require.Equal(t, room.Ctime, room.Mtime)
}

func TestCreateRoomRequiresAccount(t *testing.T) {
	svc := NewChatService(&fakeRoomStore{}, &fakeHistoryStore{})

	_, err := svc.CreateRoom(context.Background(), CreateRoomRequest{RoomName: "phòng"})
	require.ErrorIs(t, err, appErr.ErrInvalid)
}

func TestListRoomsRequiresAccount(t *testing.T) {
	svc := NewChatService(&fakeRoomStore{}, &fakeHistoryStore{})

	_, err := svc.ListRooms(context.Background(), "")
	require.ErrorIs(t, err, appErr.ErrInvalid)
}

func TestMessagesRequiresChatID(t *testing.T) {
	svc := NewChatService(&fakeRoomStore{}, &fakeHistoryStore{})

	_, err := svc.Messages(context.Background(), "")
	require.ErrorIs(t, err, appErr.ErrInvalid)
}
