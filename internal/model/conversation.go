package model

type Question struct {
	ID        string `json:"id"`
	Content   string `json:"question_content"`
	AccountID string `json:"account_id"`
	ChatID    string `json:"chat_id"`
	Ctime     int64  `json:"ctime"`
}

type Answer struct {
	ID         string `json:"id"`
	Content    string `json:"answer_content"`
	QuestionID string `json:"question_id"`
	ChatID     string `json:"chat_id"`
	Ctime      int64  `json:"ctime"`
}

type ChatRoom struct {
	ChatID    string `json:"chat_id"`
	AccountID string `json:"account_id"`
	RoomName  string `json:"room_name"`
	Ctime     int64  `json:"ctime"`
	Mtime     int64  `json:"mtime"`
}

// ChatMessage is one question/answer turn as returned by the history API.
type ChatMessage struct {
	Question     string `json:"question"`
	Answer       string `json:"answer"`
	QuestionTime int64  `json:"question_time"`
	AnswerTime   int64  `json:"answer_time"`
	ChatID       string `json:"chat_id"`
}
