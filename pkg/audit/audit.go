package audit

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventType represents the type of audited event
type EventType string

const (
	EventAccountDeleted     EventType = "account_deleted"
	EventAccountDeleteFail  EventType = "account_delete_failed"
	EventFileCleanupFailed  EventType = "file_cleanup_failed"
	EventLoginFailed        EventType = "login_failed"
	EventUnauthorizedAccess EventType = "unauthorized_access"
	EventCompetenceMerge    EventType = "competence_merge"
)

// Event is a structured audit record for account-lifecycle and security events.
type Event struct {
	Timestamp time.Time
	Event     EventType
	UserID    string
	ActorID   string // who triggered it (differs from UserID for admin actions)
	IP        string
	RequestID string
	Details   map[string]interface{}
}

// Logger provides structured logging for audit events
type Logger struct {
	zapLogger   *zap.Logger
	serviceName string
	environment string
}

var defaultLogger *Logger

// Init initializes the audit logger with Zap
func Init(serviceName, environment string) *Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.LevelKey = "level"
	config.EncoderConfig.MessageKey = "message"

	// Container environments collect stdout/stderr
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build(zap.AddCaller())
	if err != nil {
		// Fallback to a basic logger if config fails
		logger, _ = zap.NewProduction()
	}

	l := &Logger{
		zapLogger:   logger,
		serviceName: serviceName,
		environment: environment,
	}
	defaultLogger = l
	return l
}

// Default returns the default audit logger instance
func Default() *Logger {
	if defaultLogger == nil {
		return Init("cvnetwork-backend", "development")
	}
	return defaultLogger
}

// Log emits an audit event
func (l *Logger) Log(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	fields := []zap.Field{
		zap.String("service", l.serviceName),
		zap.String("env", l.environment),
		zap.String("event", string(event.Event)),
	}
	if event.UserID != "" {
		fields = append(fields, zap.String("user_id", event.UserID))
	}
	if event.ActorID != "" {
		fields = append(fields, zap.String("actor_id", event.ActorID))
	}
	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	if len(event.Details) > 0 {
		fields = append(fields, zap.Any("details", event.Details))
	}

	switch event.Event {
	case EventAccountDeleteFail, EventFileCleanupFailed:
		l.zapLogger.Warn("audit", fields...)
	default:
		l.zapLogger.Info("audit", fields...)
	}
}

// Sync flushes buffered log entries
func (l *Logger) Sync() {
	_ = l.zapLogger.Sync()
}
