package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestSetupJSONFormat(t *testing.T) {
	var buf bytes.Buffer

	logger, err := Setup("info", "json", &buf)
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	logger.Info("hello", "key", "value")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry["msg"] != "hello" || entry["key"] != "value" {
		t.Errorf("unexpected entry %v", entry)
	}
}

func TestSetupLevelFiltering(t *testing.T) {
	var buf bytes.Buffer

	logger, err := Setup("warn", "json", &buf)
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	logger.Info("suppressed")
	logger.Warn("kept")

	out := buf.String()
	if strings.Contains(out, "suppressed") {
		t.Error("info entry should be filtered at warn level")
	}
	if !strings.Contains(out, "kept") {
		t.Error("warn entry should pass at warn level")
	}
}

func TestSetupRejectsUnknownValues(t *testing.T) {
	if _, err := Setup("verbose", "json", nil); err == nil {
		t.Error("expected error for unknown level")
	}
	if _, err := Setup("info", "xml", nil); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestContextHandlerAddsRequestID(t *testing.T) {
	var buf bytes.Buffer

	logger, err := Setup("info", "json", &buf)
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	ctx := WithRequestID(context.Background(), "req-123")
	logger.InfoContext(ctx, "handled")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry["request_id"] != "req-123" {
		t.Errorf("expected request_id in entry, got %v", entry)
	}
}

func TestRequestIDAbsent(t *testing.T) {
	if id := RequestID(context.Background()); id != "" {
		t.Errorf("expected empty request ID, got %q", id)
	}
}
