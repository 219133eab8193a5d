package handler_test

import (
	"errors"
	"testing"

	"github.com/tcallahan/flog"
	"github.com/tcallahan/flog/backends"
	"github.com/tcallahan/flog/core"
	"github.com/tcallahan/flog/handler"
)

func TestLogrInfoDelivers(t *testing.T) {
	logger, mem := newCaptureLogger()
	log := handler.NewLogr(logger)

	log.Info("listener started", "port", 8080)

	records := mem.Records()
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	record := records[0]
	if record.Message() != "listener started" {
		t.Errorf("message = %q, want %q", record.Message(), "listener started")
	}
	if record.Level != core.InformationLevel {
		t.Errorf("level = %v, want Information", record.Level)
	}
	if value, ok := findTag(record, "port"); !ok || value != 8080 {
		t.Errorf("port tag = %v (%v), want 8080", value, ok)
	}
	if !record.Site.Valid() {
		t.Error("site must resolve through logr's call depth")
	}
}

func TestLogrVLevelMapping(t *testing.T) {
	logger, mem := newCaptureLogger()
	log := handler.NewLogr(logger)

	log.V(0).Info("info")
	log.V(1).Info("debug")
	log.V(2).Info("verbose")
	log.V(5).Info("still verbose")

	want := []core.Level{
		core.InformationLevel,
		core.DebugLevel,
		core.VerboseLevel,
		core.VerboseLevel,
	}
	records := mem.Records()
	if len(records) != len(want) {
		t.Fatalf("got %d records, want %d", len(records), len(want))
	}
	for i, record := range records {
		if record.Level != want[i] {
			t.Errorf("record %d level = %v, want %v", i, record.Level, want[i])
		}
	}
}

func TestLogrErrorSetsCause(t *testing.T) {
	logger, mem := newCaptureLogger()
	log := handler.NewLogr(logger)
	cause := errors.New("constraint violation")

	log.Error(cause, "update rejected", "table", "users")

	records := mem.Records()
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	record := records[0]
	if record.Level != core.ErrorLevel {
		t.Errorf("level = %v, want Error", record.Level)
	}
	if record.Cause() != cause {
		t.Errorf("cause = %v, want the logr error", record.Cause())
	}
	if value, ok := findTag(record, "table"); !ok || value != "users" {
		t.Errorf("table tag = %v (%v), want users", value, ok)
	}
}

func TestLogrWithValuesAndName(t *testing.T) {
	logger, mem := newCaptureLogger()
	log := handler.NewLogr(logger).WithName("replicator").WithValues("shard", 3)

	log.Info("caught up")

	records := mem.Records()
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	record := records[0]
	if record.LoggerName != "replicator" {
		t.Errorf("logger name = %q, want replicator", record.LoggerName)
	}
	if value, ok := findTag(record, "shard"); !ok || value != 3 {
		t.Errorf("shard tag = %v (%v), want 3", value, ok)
	}
}

func TestLogrOddKeyValuePairs(t *testing.T) {
	logger, mem := newCaptureLogger()
	log := handler.NewLogr(logger)

	log.Info("partial", "key_without_value")

	records := mem.Records()
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if _, ok := findTag(records[0], "key_without_value"); !ok {
		t.Error("a trailing key must become a bare tag")
	}
}

func TestLogrEnabledGatedByMinimum(t *testing.T) {
	logger := flog.New(
		flog.WithBackend(backends.NewMemory()),
		flog.WithMinimumLevel(core.InformationLevel),
	)
	log := handler.NewLogr(logger)

	if log.V(1).Enabled() {
		t.Error("V(1) maps to Debug and must be gated by an Information minimum")
	}
	if !log.V(0).Enabled() {
		t.Error("V(0) maps to Information and must pass")
	}
}
