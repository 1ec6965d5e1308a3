package logger

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/event"
	"go.uber.org/zap"
)

// maxCommandLength caps logged command documents (prevent log flooding)
const maxCommandLength = 1000

// MongoMonitor bridges MongoDB driver command events to zap
type MongoMonitor struct {
	ZapLogger     *zap.Logger
	SlowThreshold time.Duration
	LogCommands   bool
}

// NewMongoMonitor creates a command monitor that logs driver commands with zap.
// Command bodies are logged at debug level when logCommands is true, slow
// commands at warn level, failed commands at error level.
func NewMongoMonitor(zapLogger *zap.Logger, slowQuerySeconds float64, logCommands bool) *event.CommandMonitor {
	slowThreshold := time.Duration(slowQuerySeconds * float64(time.Second))
	if slowThreshold <= 0 {
		slowThreshold = 200 * time.Millisecond
	}

	m := &MongoMonitor{
		ZapLogger:     zapLogger,
		SlowThreshold: slowThreshold,
		LogCommands:   logCommands,
	}

	return &event.CommandMonitor{
		Started:   m.started,
		Succeeded: m.succeeded,
		Failed:    m.failed,
	}
}

func (m *MongoMonitor) started(ctx context.Context, evt *event.CommandStartedEvent) {
	if !m.LogCommands {
		return
	}

	command := evt.Command.String()
	truncated := false
	if len(command) > maxCommandLength {
		command = command[:maxCommandLength] + "..."
		truncated = true
	}

	fields := []zap.Field{
		zap.String("command_name", evt.CommandName),
		zap.String("database", evt.DatabaseName),
		zap.Int64("request_id", evt.RequestID),
		zap.String("command", command),
	}
	if truncated {
		fields = append(fields, zap.Bool("command_truncated", true))
	}

	WithContext(ctx, m.ZapLogger).Debug("mongodb command started", fields...)
}

func (m *MongoMonitor) succeeded(ctx context.Context, evt *event.CommandSucceededEvent) {
	logger := WithContext(ctx, m.ZapLogger)

	fields := []zap.Field{
		zap.String("command_name", evt.CommandName),
		zap.Int64("request_id", evt.RequestID),
		zap.Duration("elapsed", evt.Duration),
		zap.Float64("elapsed_ms", float64(evt.Duration.Nanoseconds())/1e6),
	}

	// Log slow commands as warnings
	if evt.Duration > m.SlowThreshold {
		fields = append(fields, zap.Duration("threshold", m.SlowThreshold))
		logger.Warn("mongodb slow command", fields...)
		return
	}

	logger.Debug("mongodb command succeeded", fields...)
}

func (m *MongoMonitor) failed(ctx context.Context, evt *event.CommandFailedEvent) {
	WithContext(ctx, m.ZapLogger).Error("mongodb command failed",
		zap.String("command_name", evt.CommandName),
		zap.Int64("request_id", evt.RequestID),
		zap.Duration("elapsed", evt.Duration),
		zap.Any("failure", evt.Failure),
	)
}
