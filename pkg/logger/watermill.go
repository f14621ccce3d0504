package logger

import (
	"github.com/ThreeDotsLabs/watermill"
)

// WatermillAdapter routes watermill's internal logs to the process logger.
func WatermillAdapter() watermill.LoggerAdapter {
	return watermillAdapter{}
}

type watermillAdapter struct {
	fields watermill.LogFields
}

func (a watermillAdapter) Error(msg string, err error, fields watermill.LogFields) {
	Error(msg, append(a.kv(fields), "error", err)...)
}

func (a watermillAdapter) Info(msg string, fields watermill.LogFields) {
	Info(msg, a.kv(fields)...)
}

func (a watermillAdapter) Debug(msg string, fields watermill.LogFields) {
	Debug(msg, a.kv(fields)...)
}

// Trace is noisy per-message output; it goes to debug.
func (a watermillAdapter) Trace(msg string, fields watermill.LogFields) {
	Debug(msg, a.kv(fields)...)
}

func (a watermillAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return watermillAdapter{fields: a.fields.Add(fields)}
}

func (a watermillAdapter) kv(fields watermill.LogFields) []interface{} {
	merged := a.fields.Add(fields)
	out := make([]interface{}, 0, len(merged)*2)
	for k, v := range merged {
		out = append(out, k, v)
	}
	return out
}
