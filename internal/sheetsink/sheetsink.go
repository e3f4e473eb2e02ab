// Package sheetsink mirrors booking events to an external spreadsheet.
// Delivery is best-effort: the ledger commit has already happened by the
// time an event reaches a sink, so failures are logged and swallowed.
package sheetsink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/verticali/booking/pkg/studio"
)

const defaultSendTimeout = 5 * time.Second

// WebhookSink posts events to an Apps Script web app endpoint as JSON.
type WebhookSink struct {
	endpointURL string
	httpClient  *http.Client
	logger      *zap.Logger
	sendTimeout time.Duration
}

// WebhookOption customizes a WebhookSink.
type WebhookOption func(*WebhookSink)

// WithHTTPClient overrides the HTTP client used for delivery.
func WithHTTPClient(client *http.Client) WebhookOption {
	return func(sink *WebhookSink) {
		if client != nil {
			sink.httpClient = client
		}
	}
}

// WithSendTimeout bounds each delivery attempt.
func WithSendTimeout(timeout time.Duration) WebhookOption {
	return func(sink *WebhookSink) {
		if timeout > 0 {
			sink.sendTimeout = timeout
		}
	}
}

// NewWebhookSink wires a sink pointed at endpointURL.
func NewWebhookSink(endpointURL string, logger *zap.Logger, options ...WebhookOption) (*WebhookSink, error) {
	if endpointURL == "" {
		return nil, fmt.Errorf("sheetsink: endpoint url is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	sink := &WebhookSink{
		endpointURL: endpointURL,
		httpClient:  http.DefaultClient,
		logger:      logger,
		sendTimeout: defaultSendTimeout,
	}
	for _, option := range options {
		if option != nil {
			option(sink)
		}
	}
	return sink, nil
}

type webhookEnvelope struct {
	Type string            `json:"type"`
	Data map[string]string `json:"data"`
}

// Notify implements studio.Notifier. Errors are logged, never returned.
func (sink *WebhookSink) Notify(ctx context.Context, event studio.Event) {
	sendCtx, cancel := context.WithTimeout(ctx, sink.sendTimeout)
	defer cancel()

	body, err := json.Marshal(webhookEnvelope{
		Type: string(event.Type),
		Data: event.Payload,
	})
	if err != nil {
		sink.logger.Warn("sheet event encode failed",
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
		return
	}
	request, err := http.NewRequestWithContext(sendCtx, http.MethodPost, sink.endpointURL, bytes.NewReader(body))
	if err != nil {
		sink.logger.Warn("sheet event request failed",
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
		return
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := sink.httpClient.Do(request)
	if err != nil {
		sink.logger.Warn("sheet event delivery failed",
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
		return
	}
	defer func() { _ = response.Body.Close() }()
	if response.StatusCode >= http.StatusBadRequest {
		sink.logger.Warn("sheet event rejected",
			zap.String("event_type", string(event.Type)),
			zap.Int("status_code", response.StatusCode))
	}
}

var _ studio.Notifier = (*WebhookSink)(nil)
