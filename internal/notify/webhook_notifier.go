package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

const webhookTimeout = 5 * time.Second

type webhookConfig struct {
	URL    string `json:"url"`
	Secret string `json:"secret"`
}

// webhookNotifier POSTs events as JSON to a configured endpoint. Failures
// are logged and dropped.
type webhookNotifier struct {
	url    string
	secret string
	client *http.Client
}

func init() {
	register("webhook", func(data interface{}) (Notifier, error) {
		var cfg webhookConfig
		if err := decodeConfig(data, &cfg); err != nil {
			return nil, err
		}
		if cfg.URL == "" {
			return nil, fmt.Errorf("notify.webhook url is required")
		}
		return &webhookNotifier{
			url:    cfg.URL,
			secret: cfg.Secret,
			client: &http.Client{Timeout: webhookTimeout},
		}, nil
	})
}

func (n *webhookNotifier) Publish(ctx context.Context, event string, payload interface{}) {
	body, err := json.Marshal(map[string]interface{}{
		"event":   event,
		"payload": payload,
		"ts":      time.Now().UnixMilli(),
	})
	if err != nil {
		logutil.GetLogger(ctx).Warn("encode event failed", zap.Error(err), zap.String("event", event))
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		logutil.GetLogger(ctx).Warn("build event request failed", zap.Error(err), zap.String("event", event))
		return
	}
	req.Header.Set("Content-Type", "application/json")
	if n.secret != "" {
		req.Header.Set("X-Notify-Secret", n.secret)
	}
	rsp, err := n.client.Do(req)
	if err != nil {
		logutil.GetLogger(ctx).Warn("deliver event failed", zap.Error(err), zap.String("event", event))
		return
	}
	defer rsp.Body.Close()
	if rsp.StatusCode/100 != 2 {
		logutil.GetLogger(ctx).Warn("event receiver rejected payload",
			zap.Int("status", rsp.StatusCode), zap.String("event", event))
	}
}

func decodeConfig(data interface{}, dst interface{}) error {
	if data == nil {
		return fmt.Errorf("notifier config is required")
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode notifier config: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode notifier config: %w", err)
	}
	return nil
}
