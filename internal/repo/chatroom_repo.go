package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/legalchat/legalchat/internal/model"
	"github.com/legalchat/legalchat/internal/pkg/dbutil"
	appErr "github.com/legalchat/legalchat/internal/pkg/errors"
)

type ChatRoomRepo struct {
	db *sql.DB
}

func NewChatRoomRepo(db *sql.DB) *ChatRoomRepo {
	return &ChatRoomRepo{db: db}
}

var chatRoomFields = []string{"chat_id", "account_id", "room_name", "ctime", "mtime"}

func (r *ChatRoomRepo) Create(ctx context.Context, room *model.ChatRoom) error {
	data := map[string]interface{}{
		"chat_id":    room.ChatID,
		"account_id": room.AccountID,
		"room_name":  room.RoomName,
		"ctime":      room.Ctime,
		"mtime":      room.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("chat_rooms", []map[string]interface{}{data})
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

func (r *ChatRoomRepo) Get(ctx context.Context, chatID string) (*model.ChatRoom, error) {
	where := map[string]interface{}{"chat_id": chatID}
	sqlStr, args, err := builder.BuildSelect("chat_rooms", where, chatRoomFields)
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
	var room model.ChatRoom
	if err := rows.Scan(&room.ChatID, &room.AccountID, &room.RoomName, &room.Ctime, &room.Mtime); err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *ChatRoomRepo) ListByAccount(ctx context.Context, accountID string) ([]model.ChatRoom, error) {
	where := map[string]interface{}{
		"account_id": accountID,
		"_orderby":   "mtime desc",
	}
	sqlStr, args, err := builder.BuildSelect("chat_rooms", where, chatRoomFields)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	rooms := make([]model.ChatRoom, 0)
	for rows.Next() {
		var room model.ChatRoom
		if err := rows.Scan(&room.ChatID, &room.AccountID, &room.RoomName, &room.Ctime, &room.Mtime); err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

// Touch bumps a room's mtime so the account's room list stays ordered by
// latest activity. Missing rooms are ignored: messages may reference a
// chat id that was never registered as a named room.
func (r *ChatRoomRepo) Touch(ctx context.Context, chatID string, mtime int64) error {
	where := map[string]interface{}{"chat_id": chatID}
	update := map[string]interface{}{"mtime": mtime}
	sqlStr, args, err := builder.BuildUpdate("chat_rooms", where, update)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}
