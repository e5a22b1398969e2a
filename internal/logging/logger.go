// Package logging provides structured logging for attsim on top of slog.
// The log level comes from ATTSIM_LOG_LEVEL and the format from
// ATTSIM_LOG_FORMAT ("text" or "json").
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/san-kum/attsim/internal/dynamo"
)

type Logger struct {
	*slog.Logger
}

// NewLogger writes to w using the environment-selected level and format.
func NewLogger(w io.Writer) *Logger {
	opts := &slog.HandlerOptions{Level: levelFromEnv()}
	var handler slog.Handler
	if strings.EqualFold(os.Getenv("ATTSIM_LOG_FORMAT"), "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return &Logger{slog.New(handler)}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return &Logger{slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func (l *Logger) logWithContext(ctx context.Context, level slog.Level, msg string, args ...any) {
	if id := RunID(ctx); id != "" {
		args = append(args, "run", id)
	}
	l.Log(ctx, level, msg, args...)
}

func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	l.logWithContext(ctx, slog.LevelInfo, msg, args...)
}

func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	l.logWithContext(ctx, slog.LevelWarn, msg, args...)
}

func (l *Logger) Error(ctx context.Context, msg string, err error, args ...any) {
	if err != nil {
		args = append(args, "error", err.Error())
	}
	l.logWithContext(ctx, slog.LevelError, msg, args...)
}

func (l *Logger) Debug(ctx context.Context, msg string, args ...any) {
	l.logWithContext(ctx, slog.LevelDebug, msg, args...)
}

type runIDKey struct{}

// WithRunID tags every log line made with ctx with the run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

func RunID(ctx context.Context) string {
	if id, ok := ctx.Value(runIDKey{}).(string); ok {
		return id
	}
	return ""
}

func levelFromEnv() slog.Level {
	switch strings.ToUpper(os.Getenv("ATTSIM_LOG_LEVEL")) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// StepLogger is a dynamo.Observer that logs the state every Every steps at
// debug level.
type StepLogger struct {
	log   *Logger
	ctx   context.Context
	Every int
	n     int
}

func NewStepLogger(ctx context.Context, log *Logger, every int) *StepLogger {
	if every <= 0 {
		every = 1
	}
	return &StepLogger{log: log, ctx: ctx, Every: every}
}

func (s *StepLogger) OnStep(x dynamo.State, u dynamo.Control, t float64) {
	if s.n%s.Every == 0 && len(x) == 6 {
		s.log.Debug(s.ctx, "step",
			"t", t,
			"sigma", []float64(x[:3]),
			"omega", []float64(x[3:]),
			"torque", []float64(u),
		)
	}
	s.n++
}
