package middleware_test

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	mw "github.com/wael7705/khawam-pro-sub000/middleware"
)

func setupTestMeter() (*sdkmetric.ManualReader, *sdkmetric.MeterProvider) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	return reader, mp
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("failed to collect metrics: %v", err)
	}
	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func TestMetrics_RecordsSubmission(t *testing.T) {
	reader, mp := setupTestMeter()
	m := mw.MetricsWithMeter(mp.Meter("test"))

	_ = m(context.Background(), newTestSubmission(), func(_ context.Context) error { return nil })

	rm := collectMetrics(t, reader)
	if findMetric(rm, "orderflow.order.duration") == nil {
		t.Fatal("duration histogram not found")
	}

	subs := findMetric(rm, "orderflow.order.submissions")
	if subs == nil {
		t.Fatal("submissions counter not found")
	}
	sum, ok := subs.Data.(metricdata.Sum[int64])
	if !ok || len(sum.DataPoints) != 1 || sum.DataPoints[0].Value != 1 {
		t.Fatalf("unexpected submissions data: %+v", subs.Data)
	}
	if v, _ := sum.DataPoints[0].Attributes.Value(attribute.Key("status")); v.AsString() != "ok" {
		t.Errorf("status attribute %q", v.AsString())
	}

	files := findMetric(rm, "orderflow.order.attachments")
	fsum, ok := files.Data.(metricdata.Sum[int64])
	if !ok || fsum.DataPoints[0].Value != 2 {
		t.Fatalf("unexpected attachments data: %+v", files.Data)
	}
}

func TestMetrics_ErrorStatus(t *testing.T) {
	reader, mp := setupTestMeter()
	m := mw.MetricsWithMeter(mp.Meter("test"))

	_ = m(context.Background(), newTestSubmission(), func(_ context.Context) error { return errors.New("boom") })

	rm := collectMetrics(t, reader)
	sum := findMetric(rm, "orderflow.order.submissions").Data.(metricdata.Sum[int64])
	if v, _ := sum.DataPoints[0].Attributes.Value(attribute.Key("status")); v.AsString() != "error" {
		t.Errorf("status attribute %q", v.AsString())
	}
	if files := findMetric(rm, "orderflow.order.attachments"); files != nil {
		if s, ok := files.Data.(metricdata.Sum[int64]); ok && len(s.DataPoints) > 0 {
			t.Errorf("attachments counted for failed submission: %+v", s.DataPoints)
		}
	}
}
