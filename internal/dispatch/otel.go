package dispatch

import (
	"context"
	"encoding/json"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"geofence-control-plane/internal/event"
)

// NewOTelDispatcher returns a Dispatcher that sends events as OTel log
// records via the given LoggerProvider. If provider is nil, returns a no-op
// dispatcher.
func NewOTelDispatcher(provider *sdklog.LoggerProvider) Dispatcher {
	if provider == nil {
		return noopDispatcher{}
	}
	return &otelDispatcher{logger: provider.Logger("geofence.events")}
}

type noopDispatcher struct{}

func (noopDispatcher) Dispatch(context.Context, *event.Event) error { return nil }
func (noopDispatcher) Close() error                                 { return nil }

type otelDispatcher struct {
	logger otellog.Logger
}

// Dispatch converts the event to an OTel log record and emits it.
func (d *otelDispatcher) Dispatch(ctx context.Context, ev *event.Event) error {
	if ev == nil {
		return nil
	}
	rec := otellog.Record{}
	if !ev.CreatedAt.IsZero() {
		rec.SetTimestamp(ev.CreatedAt)
	} else {
		rec.SetTimestamp(time.Now().UTC())
	}
	if body, err := json.Marshal(ev.Tokens); err == nil {
		rec.SetBody(otellog.BytesValue(body))
	}
	rec.AddAttributes(otellog.String("event_kind", string(ev.Kind)))
	if ev.Tokens.User != "" {
		rec.AddAttributes(otellog.String("user", ev.Tokens.User))
	}
	if ev.Tokens.Fence != "" {
		rec.AddAttributes(otellog.String("fence", ev.Tokens.Fence))
	}
	if ev.State.SourceTopic != "" {
		rec.AddAttributes(otellog.String("source_topic", ev.State.SourceTopic))
	}
	d.logger.Emit(ctx, rec)
	return nil
}

// Close is a no-op; the LoggerProvider owns exporter shutdown.
func (d *otelDispatcher) Close() error { return nil }
