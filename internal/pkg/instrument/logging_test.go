package instrument

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var out map[string]any
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("log line is not json: %v (%s)", err, buf.String())
	}
	return out
}

func TestNewHandler_MasksConfiguredFields(t *testing.T) {
	// Arrange
	buf := &bytes.Buffer{}
	logger := slog.New(newHandler(buf, "mailotp", nil, []string{"Code", " password "}))

	// Act
	logger.Info("submitted",
		"code", "123456",
		"email", "a@b.co",
		"body", `{"email":"a@b.co","code":"654321"}`,
		slog.Group("req", slog.String("password", "secret")),
	)

	// Assert
	out := decodeLine(t, buf)
	if out["code"] != "***" {
		t.Fatalf("code = %v, want masked", out["code"])
	}
	if out["email"] != "a@b.co" {
		t.Fatalf("email = %v, want a@b.co", out["email"])
	}
	if body, _ := out["body"].(string); body != `{"code":"***","email":"a@b.co"}` {
		t.Fatalf("body = %v, want code masked", out["body"])
	}
	req, _ := out["req"].(map[string]any)
	if req["password"] != "***" {
		t.Fatalf("req.password = %v, want masked", req["password"])
	}
	if out["service"] != "mailotp" {
		t.Fatalf("service = %v, want mailotp", out["service"])
	}
	if _, ok := out["ts"]; !ok {
		t.Fatalf("ts key missing in %v", out)
	}
	if _, ok := out["severity"]; !ok {
		t.Fatalf("severity key missing in %v", out)
	}
}

func TestNewHandler_CorrelationIDSurvivesWith(t *testing.T) {
	// Arrange
	buf := &bytes.Buffer{}
	logger := slog.New(newHandler(buf, "mailotp", nil, nil)).With("component", "sweeper")
	ctx := SetCorrelationID(context.Background(), "cid-1")

	// Act
	logger.InfoContext(ctx, "swept")

	// Assert
	out := decodeLine(t, buf)
	if out["_cID"] != "cid-1" {
		t.Fatalf("_cID = %v, want cid-1", out["_cID"])
	}
	if out["component"] != "sweeper" {
		t.Fatalf("component = %v, want sweeper", out["component"])
	}
}

func TestGetCorrelationID_Empty(t *testing.T) {
	if got := GetCorrelationID(context.Background()); got != "" {
		t.Fatalf("GetCorrelationID() = %q, want empty", got)
	}
}
