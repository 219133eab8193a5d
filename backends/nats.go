package backends

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"

	"github.com/tcallahan/flog/core"
)

// natsRecord is the JSON shape published to the subject.
type natsRecord struct {
	Timestamp time.Time      `json:"ts"`
	Level     string         `json:"level"`
	Logger    string         `json:"logger,omitempty"`
	Message   string         `json:"msg"`
	Site      string         `json:"site,omitempty"`
	Tags      map[string]any `json:"tags,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Cause     string         `json:"cause,omitempty"`
	Stack     string         `json:"stack,omitempty"`
	Forced    bool           `json:"forced,omitempty"`
	Skipped   int64          `json:"skipped,omitempty"`
}

// NATS publishes records as JSON messages on a fixed subject, for
// shipping logs through a message bus instead of local files.
type NATS struct {
	conn    *nats.Conn
	subject string
	owned   bool
}

// NewNATS connects to the server at url and publishes on subject. The
// connection is owned by the backend and closed with it.
func NewNATS(url, subject string, opts ...nats.Option) (*NATS, error) {
	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "connect to %s", url)
	}
	return &NATS{conn: conn, subject: subject, owned: true}, nil
}

// NewNATSWithConn publishes on subject over an existing connection, which
// stays open after Close.
func NewNATSWithConn(conn *nats.Conn, subject string) *NATS {
	return &NATS{conn: conn, subject: subject}
}

// Log encodes and publishes the record. Publishing is asynchronous; a nil
// return means the message was buffered, not that the server stored it.
func (n *NATS) Log(record *core.Record) error {
	data, err := json.Marshal(encodeNATSRecord(record))
	if err != nil {
		return errors.Wrap(err, "encode record")
	}
	return n.conn.Publish(n.subject, data)
}

// Close flushes pending messages and, when the backend owns the
// connection, closes it.
func (n *NATS) Close() error {
	err := n.conn.Flush()
	if n.owned {
		n.conn.Close()
	}
	return err
}

func encodeNATSRecord(record *core.Record) natsRecord {
	out := natsRecord{
		Timestamp: record.Timestamp,
		Level:     record.Level.String(),
		Logger:    record.LoggerName,
		Message:   record.Message(),
		Forced:    record.Forced(),
		Skipped:   record.Skipped(),
	}
	if record.Site.Valid() {
		out.Site = record.Site.String()
	}
	if cause := record.Cause(); cause != nil {
		out.Cause = cause.Error()
	}
	if stack, ok := core.Get(record.Metadata, core.KeyStackTrace); ok {
		out.Stack = stack
	}

	record.Tags.Each(func(tag core.Tag) {
		if out.Tags == nil {
			out.Tags = make(map[string]any, record.Tags.Len())
		}
		value := tag.Value
		if value == nil {
			value = true
		}
		addJSONValue(out.Tags, tag.Name, value)
	})
	record.Metadata.EachEffective(func(key core.MetadataKey, value any) {
		switch key {
		case core.MetadataKey(core.KeyCause),
			core.MetadataKey(core.KeyStackTrace),
			core.MetadataKey(core.KeyWasForced),
			core.MetadataKey(core.KeySkippedCount):
			return
		}
		if out.Metadata == nil {
			out.Metadata = make(map[string]any, record.Metadata.Len())
		}
		addJSONValue(out.Metadata, key.Label(), value)
	})
	return out
}

// addJSONValue inserts value under name, collecting repeated names into a
// slice so repeatable metadata survives the map representation.
func addJSONValue(m map[string]any, name string, value any) {
	existing, ok := m[name]
	if !ok {
		m[name] = value
		return
	}
	if s, ok := existing.([]any); ok {
		m[name] = append(s, value)
		return
	}
	m[name] = []any{existing, value}
}
