package core

import (
	"errors"
	"testing"
	"time"
)

func TestRecordMessage(t *testing.T) {
	r := &Record{Format: "user %s failed %d times", Args: []any{"bob", 3}}
	if got := r.Message(); got != "user bob failed 3 times" {
		t.Errorf("unexpected message: %s", got)
	}
}

func TestRecordMessageLiteral(t *testing.T) {
	r := &Record{Format: "100%% literal"}
	if got := r.Message(); got != "100%% literal" {
		t.Errorf("literal format must not be interpreted, got %s", got)
	}
}

func TestRecordHelpers(t *testing.T) {
	cause := errors.New("disk full")
	md := WithValue(Metadata{}, KeyCause, cause)
	md = WithValue(md, KeyWasForced, true)
	md = WithValue(md, KeySkippedCount, int64(17))

	r := &Record{
		Timestamp: time.Now(),
		Level:     ErrorLevel,
		Format:    "write failed",
		Metadata:  md,
	}

	if !errors.Is(r.Cause(), cause) {
		t.Error("expected cause returned")
	}
	if !r.Forced() {
		t.Error("expected record forced")
	}
	if r.Skipped() != 17 {
		t.Errorf("expected 17 skipped, got %d", r.Skipped())
	}
}

func TestRecordHelpersAbsent(t *testing.T) {
	r := &Record{Format: "plain"}
	if r.Cause() != nil {
		t.Error("expected nil cause")
	}
	if r.Forced() {
		t.Error("expected not forced")
	}
	if r.Skipped() != 0 {
		t.Errorf("expected 0 skipped, got %d", r.Skipped())
	}
}
