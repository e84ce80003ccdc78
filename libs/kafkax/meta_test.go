package kafkax

import (
	"context"
	"testing"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

func TestExtractEventMeta(t *testing.T) {
	msg := kafka.Message{
		Topic: "scheduling.appointment.scheduled.v1",
		Key:   []byte("appt-1"),
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte("evt-42")},
			{Key: "event_type", Value: []byte("scheduling.appointment.scheduled.v1")},
		},
	}
	meta := ExtractEventMeta(msg)
	if meta.EventID != "evt-42" {
		t.Errorf("EventID = %q, want evt-42", meta.EventID)
	}
	if meta.EventType != "scheduling.appointment.scheduled.v1" {
		t.Errorf("EventType = %q", meta.EventType)
	}
}

func TestExtractEventMeta_Fallbacks(t *testing.T) {
	msg := kafka.Message{
		Topic: "scheduling.appointment.canceled.v1",
		Key:   []byte("appt-2"),
	}
	meta := ExtractEventMeta(msg)
	if meta.EventID != "appt-2" {
		t.Errorf("EventID fallback = %q, want message key", meta.EventID)
	}
	if meta.EventType != "scheduling.appointment.canceled.v1" {
		t.Errorf("EventType fallback = %q, want topic", meta.EventType)
	}
}

func TestTraceContextRoundTrip(t *testing.T) {
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	defer otel.SetTextMapPropagator(prev)

	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	if err != nil {
		t.Fatalf("trace id: %v", err)
	}
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	if err != nil {
		t.Fatalf("span id: %v", err)
	}
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	headers := InjectTraceHeaders(ctx, []kafka.Header{
		{Key: "event_id", Value: []byte("evt-1")},
	})
	if HeaderValue(headers, "traceparent") == "" {
		t.Fatal("traceparent header not injected")
	}
	if HeaderValue(headers, "event_id") != "evt-1" {
		t.Fatal("existing header lost during injection")
	}

	got := trace.SpanContextFromContext(ExtractTraceContext(context.Background(), kafka.Message{Headers: headers}))
	if got.TraceID() != traceID {
		t.Errorf("extracted trace id %s, want %s", got.TraceID(), traceID)
	}
	if got.SpanID() != spanID {
		t.Errorf("extracted span id %s, want %s", got.SpanID(), spanID)
	}
}
