package logger

import (
	"context"
	"log/slog"
)

// discardHandler is a slog.Handler that drops every record.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }

// Discard returns a logger that writes nothing. Components use it when no
// logger is injected.
func Discard() *slog.Logger {
	return slog.New(discardHandler{})
}
