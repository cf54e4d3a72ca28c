package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nerrad567/piplant-core/internal/component"
	"github.com/nerrad567/piplant-core/internal/components/messaging"
	"github.com/nerrad567/piplant-core/internal/infrastructure/config"
	"github.com/nerrad567/piplant-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/piplant-core/internal/plant"
)

var taken = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func sampleReadings() []plant.Reading {
	return []plant.Reading{
		{Sensor: "soil", Type: plant.SensorTypeHygrometer, Quantity: plant.QuantityMoisture, Value: 41.5, Unit: plant.UnitPercent, Time: taken},
		{Sensor: "green/house", Type: plant.SensorTypeEnvironment, Quantity: plant.QuantityTemperature, Value: 21.25, Unit: plant.UnitCelsius, Time: taken},
	}
}

func TestMQTTPublisher_Publish(t *testing.T) {
	broker := messaging.NewMock()
	sink := NewMQTTPublisher("mqtt", broker, true)

	if err := sink.Publish(context.Background(), sampleReadings()); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	msgs := broker.Published()
	if len(msgs) != 2 {
		t.Fatalf("published %d messages, want 2", len(msgs))
	}
	wantTopics := []string{
		"piplant/sensor/hygrometer/soil/moisture",
		"piplant/sensor/environment/green_house/temperature",
	}
	for i, msg := range msgs {
		if msg.Topic != wantTopics[i] {
			t.Errorf("topic[%d] = %q, want %q", i, msg.Topic, wantTopics[i])
		}
		if !msg.Retained {
			t.Errorf("message %d not retained", i)
		}
	}

	var got plant.Reading
	if err := json.Unmarshal(msgs[0].Payload, &got); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if got.Value != 41.5 || got.Sensor != "soil" || !got.Time.Equal(taken) {
		t.Errorf("payload = %+v", got)
	}
}

func TestMQTTPublisher_PublishLightEvent(t *testing.T) {
	broker := messaging.NewMock()
	sink := NewMQTTPublisher("mqtt", broker, false)

	ev := plant.LightEvent{Light: "porch/front", On: true, Reason: "motion", Time: taken}
	if err := sink.PublishLightEvent(context.Background(), ev); err != nil {
		t.Fatalf("PublishLightEvent() error = %v", err)
	}

	msgs := broker.Published()
	if len(msgs) != 1 {
		t.Fatalf("published %d messages, want 1", len(msgs))
	}
	if msgs[0].Topic != "piplant/light/porch_front/state" || !msgs[0].Retained {
		t.Errorf("message = %q retained=%v", msgs[0].Topic, msgs[0].Retained)
	}
	var got plant.LightEvent
	if err := json.Unmarshal(msgs[0].Payload, &got); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if got.Light != "porch/front" || !got.On || got.Reason != "motion" {
		t.Errorf("payload = %+v", got)
	}
}

func TestMQTTPublisher_ClosedBroker(t *testing.T) {
	broker := messaging.NewMock()
	broker.Close() //nolint:errcheck // Test setup
	sink := NewMQTTPublisher("mqtt", broker, false)

	err := sink.Publish(context.Background(), sampleReadings())
	if !errors.Is(err, plant.ErrBrokerClosed) {
		t.Errorf("Publish() error = %v, want ErrBrokerClosed", err)
	}
}

func TestNewMQTTPublisher_Factory(t *testing.T) {
	broker := messaging.NewMock()

	obj, err := newMQTTPublisher(context.Background(), component.ArgsFrom(map[string]any{
		"broker":   broker,
		"retained": "off",
	}))
	if err != nil {
		t.Fatalf("newMQTTPublisher() error = %v", err)
	}
	sink := obj.(*MQTTPublisher)
	if sink.Name() != "mqtt" || sink.retained {
		t.Errorf("sink = %+v", sink)
	}

	if _, err := newMQTTPublisher(context.Background(), component.ArgsFrom(map[string]any{})); err == nil {
		t.Error("expected error without broker")
	}
	if _, err := newMQTTPublisher(context.Background(), component.ArgsFrom(map[string]any{"broker": "not a broker"})); err == nil {
		t.Error("expected error for a non-broker instance")
	}
}

// fakeInflux answers /ping and records posted line protocol.
type fakeInflux struct {
	mu    sync.Mutex
	lines []string
}

func (f *fakeInflux) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/ping":
		w.WriteHeader(http.StatusNoContent)
	case "/api/v2/write":
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		for _, line := range strings.Split(strings.TrimSpace(string(body)), "\n") {
			if line != "" {
				f.lines = append(f.lines, line)
			}
		}
		f.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeInflux) waitForLines(t *testing.T, n int) []string {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		f.mu.Lock()
		got := append([]string(nil), f.lines...)
		f.mu.Unlock()
		if len(got) >= n {
			return got
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d lines", n)
	return nil
}

func TestInfluxWriter(t *testing.T) {
	fake := &fakeInflux{}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	cfg := config.Default()
	cfg.InfluxDB.Enabled = false
	cfg.InfluxDB.Token = "token"
	ctx := config.NewContext(context.Background(), cfg)

	obj, err := newInfluxWriter(ctx, component.ArgsFrom(map[string]any{
		"url":    srv.URL,
		"org":    "piplant",
		"bucket": "plants",
	}))
	if err != nil {
		t.Fatalf("newInfluxWriter() error = %v", err)
	}
	w := obj.(*InfluxWriter)
	defer w.Close() //nolint:errcheck // Test cleanup

	if w.Name() != "influxdb" {
		t.Errorf("Name() = %q", w.Name())
	}
	if err := w.Publish(ctx, sampleReadings()); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	w.Flush()

	lines := fake.waitForLines(t, 2)
	want := "sensor_readings,quantity=moisture,sensor=soil,sensor_type=hygrometer value=41.5 1772366400000000000"
	if lines[0] != want {
		t.Errorf("line = %q\nwant   %q", lines[0], want)
	}

	ev := plant.LightEvent{Light: "porch", On: false, Reason: "motion_timeout", Time: taken}
	if err := w.PublishLightEvent(ctx, ev); err != nil {
		t.Fatalf("PublishLightEvent() error = %v", err)
	}
	w.Flush()
	lines = fake.waitForLines(t, 3)
	want = "light_events,light=porch,reason=motion_timeout on=false 1772366400000000000"
	if lines[2] != want {
		t.Errorf("line = %q\nwant   %q", lines[2], want)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := w.Publish(ctx, sampleReadings()); !errors.Is(err, influxdb.ErrNotConnected) {
		t.Errorf("Publish() after Close() error = %v, want ErrNotConnected", err)
	}
	if err := w.PublishLightEvent(ctx, ev); !errors.Is(err, influxdb.ErrNotConnected) {
		t.Errorf("PublishLightEvent() after Close() error = %v, want ErrNotConnected", err)
	}
}

func TestInfluxConfig(t *testing.T) {
	base := config.InfluxDBConfig{URL: "http://influx:8086", Org: "home", Bucket: "plants", FlushInterval: 10}

	cfg, err := influxConfig(base, component.ArgsFrom(map[string]any{
		"bucket":         "greenhouse",
		"flush_interval": "30s",
	}))
	if err != nil {
		t.Fatalf("influxConfig() error = %v", err)
	}
	if !cfg.Enabled || cfg.Bucket != "greenhouse" || cfg.Org != "home" || cfg.FlushInterval != 30 {
		t.Errorf("cfg = %+v", cfg)
	}

	tests := []struct {
		name   string
		kwargs map[string]any
	}{
		{"empty url", map[string]any{"url": ""}},
		{"empty bucket", map[string]any{"bucket": ""}},
		{"bad batch size", map[string]any{"batch_size": "lots"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := influxConfig(base, component.ArgsFrom(tt.kwargs)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRecorder(t *testing.T) {
	obj, err := newRecorder(context.Background(), component.ArgsFrom(map[string]any{"name": "rec"}))
	if err != nil {
		t.Fatal(err)
	}
	rec := obj.(*Recorder)
	ctx := context.Background()

	readings := sampleReadings()
	if err := rec.Publish(ctx, readings); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	readings[0].Value = 0
	if got := rec.Batches(); len(got) != 1 || got[0][0].Value != 41.5 {
		t.Errorf("Batches() = %+v", got)
	}

	boom := errors.New("boom")
	rec.Fail(boom)
	if err := rec.Publish(ctx, readings); !errors.Is(err, boom) {
		t.Errorf("Publish() error = %v, want boom", err)
	}
	if len(rec.Batches()) != 1 {
		t.Error("failed publish was recorded")
	}
	if err := rec.PublishLightEvent(ctx, plant.LightEvent{Light: "porch"}); !errors.Is(err, boom) {
		t.Errorf("PublishLightEvent() error = %v, want boom", err)
	}

	rec.Fail(nil)
	if err := rec.PublishLightEvent(ctx, plant.LightEvent{Light: "porch", On: true}); err != nil {
		t.Fatalf("PublishLightEvent() error = %v", err)
	}
	if got := rec.LightEvents(); len(got) != 1 || got[0].Light != "porch" {
		t.Errorf("LightEvents() = %+v", got)
	}
}
