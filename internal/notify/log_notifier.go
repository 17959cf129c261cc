package notify

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// logNotifier writes events to the application log. It is the default sink
// when no external receiver is configured.
type logNotifier struct{}

func init() {
	register("log", func(_ interface{}) (Notifier, error) {
		return &logNotifier{}, nil
	})
}

func (n *logNotifier) Publish(ctx context.Context, event string, payload interface{}) {
	logutil.GetLogger(ctx).Info("event published", zap.String("event", event), zap.Any("payload", payload))
}
