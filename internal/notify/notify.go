// Package notify announces domain events to interested collaborators.
// Delivery is best effort: publishers never see an error.
package notify

import (
	"context"
	"fmt"

	"github.com/legalchat/legalchat/internal/config"
)

const (
	EventAnswerCreated    = "answer.created"
	EventDocumentIngested = "document.ingested"
)

type Notifier interface {
	Publish(ctx context.Context, event string, payload interface{})
}

type creator func(data interface{}) (Notifier, error)

var registry = map[string]creator{}

func register(name string, fn creator) {
	registry[name] = fn
}

func New(cfg config.NotifyConfig) (Notifier, error) {
	fn, ok := registry[cfg.Type]
	if !ok {
		return nil, fmt.Errorf("notifier type not registered: %s", cfg.Type)
	}
	return fn(cfg.Data)
}
