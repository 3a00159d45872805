package kafka_middleware

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"roombook/pkg/kafka"
	"roombook/pkg/logger"
)

func TestMetrics_CountsOutcomes(t *testing.T) {
	var m Metrics
	consume := m.ConsumerMiddleware()
	publish := m.ProducerMiddleware()

	ok := func(ctx context.Context, msg kafka.Message) error { return nil }
	fail := func(ctx context.Context, msg kafka.Message) error { return errors.New("boom") }

	_ = consume(context.Background(), kafka.Message{}, ok)
	_ = consume(context.Background(), kafka.Message{}, ok)
	_ = consume(context.Background(), kafka.Message{}, fail)
	_ = publish(context.Background(), kafka.Message{}, fail)

	snap := m.Snapshot()
	if snap.Consumed != 2 || snap.ConsumeFailed != 1 {
		t.Errorf("unexpected consume counters: %+v", snap)
	}
	if snap.Published != 0 || snap.PublishFailed != 1 {
		t.Errorf("unexpected publish counters: %+v", snap)
	}
}

func TestLoggingConsumerMiddleware_LogsFailures(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: logger.DEBUG, Output: &buf})
	mw := LoggingConsumerMiddleware(log)

	err := mw(context.Background(), kafka.Message{Key: "res-1", Headers: map[string]string{kafka.HeaderEventID: "evt-1"}},
		func(ctx context.Context, msg kafka.Message) error { return errors.New("boom") })
	if err == nil {
		t.Fatal("expected the handler error to be returned")
	}
	if !strings.Contains(buf.String(), "evt-1") || !strings.Contains(buf.String(), "boom") {
		t.Errorf("expected event id and error in log, got %q", buf.String())
	}
}
