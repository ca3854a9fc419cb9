package telemetry

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"
)

func TestNewSettings(t *testing.T) {
	tests := []struct {
		name        string
		opts        []Option
		wantDataset string
		wantRatio   float64
	}{
		{"defaults", nil, defaultDataset, 1},
		{"honeycomb dataset", []Option{WithHoneycomb("key", "games")}, "games", 1},
		{"empty dataset keeps default", []Option{WithHoneycomb("key", "")}, defaultDataset, 1},
		{"ratio", []Option{WithSampleRatio(0.25)}, defaultDataset, 0.25},
		{"zero ratio clamps", []Option{WithSampleRatio(0)}, defaultDataset, 1},
		{"ratio above one clamps", []Option{WithSampleRatio(3)}, defaultDataset, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSettings(tt.opts)
			if s.dataset != tt.wantDataset || s.sampleRatio != tt.wantRatio {
				t.Errorf("newSettings() = %+v, want dataset %q ratio %v", s, tt.wantDataset, tt.wantRatio)
			}
		})
	}
}

func TestExporterOptionsNeedAKey(t *testing.T) {
	if got := newSettings(nil).exporterOptions(); len(got) != 0 {
		t.Errorf("exporterOptions() without key = %d options, want 0", len(got))
	}
	if got := newSettings([]Option{WithHoneycomb("key", "")}).exporterOptions(); len(got) != 2 {
		t.Errorf("exporterOptions() with key = %d options, want 2", len(got))
	}
}

func TestResourceAttributes(t *testing.T) {
	attrs := map[attribute.Key]string{}
	for _, kv := range resourceAttributes() {
		attrs[kv.Key] = kv.Value.AsString()
	}
	if attrs["service.name"] != serviceName || attrs["service.version"] != Version {
		t.Errorf("service attributes = %v", attrs)
	}
	if attrs["host.name"] == "" {
		t.Error("host.name is empty")
	}
}

func TestTracerIsNoopBeforeSetup(t *testing.T) {
	_, span := Tracer("engine").Start(context.Background(), "engine.dispatch")
	defer span.End()
	if span.IsRecording() {
		t.Error("span recording before Setup")
	}
}
