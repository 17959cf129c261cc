package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	appErr "github.com/legalchat/legalchat/internal/pkg/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	rendererhtml "github.com/yuin/goldmark/renderer/html"
)

const (
	ExportFormatMarkdown = "markdown"
	ExportFormatHTML     = "html"
)

type Export struct {
	Content     []byte
	ContentType string
}

// ExportService renders a chat room transcript as markdown or HTML.
type ExportService struct {
	rooms   ChatRoomStore
	history HistoryStore
	md      goldmark.Markdown
}

func NewExportService(rooms ChatRoomStore, history HistoryStore) *ExportService {
	return &ExportService{
		rooms:   rooms,
		history: history,
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(rendererhtml.WithHardWraps()),
		),
	}
}

func (s *ExportService) Export(ctx context.Context, chatID string, format string) (*Export, error) {
	if chatID == "" {
		return nil, fmt.Errorf("%w: chat id is required", appErr.ErrInvalid)
	}
	if format == "" {
		format = ExportFormatMarkdown
	}
	if format != ExportFormatMarkdown && format != ExportFormatHTML {
		return nil, fmt.Errorf("%w: unsupported export format: %s", appErr.ErrInvalid, format)
	}
	room, err := s.rooms.Get(ctx, chatID)
	if err != nil {
		return nil, err
	}
	messages, err := s.history.HistoryByChat(ctx, chatID)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", room.RoomName)
	fmt.Fprintf(&sb, "Xuất ngày %s\n", time.Now().Format("02/01/2006"))
	for _, msg := range messages {
		sb.WriteString("\n---\n\n")
		fmt.Fprintf(&sb, "**Câu hỏi** (%s):\n\n%s\n\n", formatStamp(msg.QuestionTime), msg.Question)
		answer := msg.Answer
		if answer == "" {
			answer = "*Chưa có câu trả lời.*"
		}
		fmt.Fprintf(&sb, "**Trả lời**:\n\n%s\n", answer)
	}

	if format == ExportFormatMarkdown {
		return &Export{Content: []byte(sb.String()), ContentType: "text/markdown; charset=utf-8"}, nil
	}
	var out bytes.Buffer
	if err := s.md.Convert([]byte(sb.String()), &out); err != nil {
		return nil, fmt.Errorf("render transcript: %w", err)
	}
	return &Export{Content: out.Bytes(), ContentType: "text/html; charset=utf-8"}, nil
}

func formatStamp(ms int64) string {
	if ms <= 0 {
		return "không rõ thời gian"
	}
	return time.UnixMilli(ms).Format("02/01/2006 15:04")
}
