package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/nerrad567/piplant-core/internal/infrastructure/config"
)

func TestContext(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("FromContext() without logger returned nil")
	}

	var buf bytes.Buffer
	logger := NewWithWriter(config.LoggingConfig{Level: "info", Format: "json"}, "test", &buf)
	ctx := NewContext(context.Background(), logger)

	FromContext(ctx).Info("from context")
	if !strings.Contains(buf.String(), "from context") {
		t.Errorf("log output = %q", buf.String())
	}
}

func TestDiscard(t *testing.T) {
	// Must not panic or write anywhere visible.
	Discard().Error("dropped", "k", "v")
}
