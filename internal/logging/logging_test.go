package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/practice-tracker/internal/models"
	"github.com/ahmetcoskunkizilkaya/practice-tracker/internal/testutil"
	"github.com/google/uuid"
)

type failingHandler struct{ calls int }

func (f *failingHandler) Enabled(context.Context, slog.Level) bool { return true }
func (f *failingHandler) Handle(context.Context, slog.Record) error {
	f.calls++
	return errors.New("boom")
}
func (f *failingHandler) WithAttrs([]slog.Attr) slog.Handler { return f }
func (f *failingHandler) WithGroup(string) slog.Handler      { return f }

func TestMultiHandlerKeepsGoingAfterFailure(t *testing.T) {
	var buf bytes.Buffer
	failing := &failingHandler{}
	out := slog.NewJSONHandler(&buf, nil)
	logger := slog.New(NewMultiHandler(failing, out))

	logger.Info("hello", "k", "v")
	if failing.calls != 1 {
		t.Fatalf("failing handler calls = %d", failing.calls)
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"msg":"hello"`)) {
		t.Fatalf("second handler did not receive record: %s", buf.String())
	}
}

func TestPGHandlerLiftsKnownAttributes(t *testing.T) {
	db := testutil.DB(t)
	h := NewPGHandler(db, time.Hour)
	t.Cleanup(h.Stop)

	itemID := uuid.NewString()
	logger := slog.New(h).With("request_id", "req-1")
	logger.Info("ignored below error")
	logger.Error("answer submission rolled back",
		"item_id", itemID,
		"user_id", "u-1",
		"latency_ms", 12.6,
		"error", "deadlock",
		"attempt", 2,
	)
	h.Flush()

	var logs []models.SystemLog
	if err := db.Find(&logs).Error; err != nil {
		t.Fatalf("load logs: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("stored %d logs, want 1", len(logs))
	}
	got := logs[0]
	if got.RequestID != "req-1" || got.ItemID == nil || *got.ItemID != itemID || got.LatencyMs != 13 || got.Error != "deadlock" {
		t.Fatalf("stored log = %+v", got)
	}
	var extra map[string]interface{}
	if err := json.Unmarshal(got.Extra, &extra); err != nil || extra["attempt"] != float64(2) {
		t.Fatalf("extra = %s (%v)", got.Extra, err)
	}
}

func TestPurgeOlderThan(t *testing.T) {
	db := testutil.DB(t)
	now := time.Now()
	for _, age := range []time.Duration{time.Hour, 40 * 24 * time.Hour} {
		entry := models.SystemLog{ID: uuid.New(), Timestamp: now.Add(-age), Level: "ERROR", Message: "m"}
		if err := db.Create(&entry).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	deleted, err := PurgeOlderThan(db, now, 30)
	if err != nil || deleted != 1 {
		t.Fatalf("deleted %d, err %v", deleted, err)
	}
}

func TestSetupLevel(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	setup(&buf, "production")
	slog.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug logged in production: %s", buf.String())
	}
	setup(&buf, "development")
	slog.Debug("shown")
	if buf.Len() == 0 {
		t.Fatal("debug not logged in development")
	}
}
