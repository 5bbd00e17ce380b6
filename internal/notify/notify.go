package notify

import "log/slog"

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
)

// Event — тост для оператора. Показ и автозакрытие — забота получателя,
// ядро таймерами не управляет.
type Event struct {
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

type Sink interface {
	Notify(message string, severity Severity)
}

// LogSink — запасной приёмник уведомлений, когда UI не подключён
type LogSink struct {
	log *slog.Logger
}

func NewLogSink(log *slog.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Notify(message string, severity Severity) {
	switch severity {
	case SeverityError:
		s.log.Error(message)
	default:
		s.log.Info(message, slog.String("severity", string(severity)))
	}
}

// MultiSink рассылает событие всем приёмникам
type MultiSink []Sink

func (m MultiSink) Notify(message string, severity Severity) {
	for _, s := range m {
		s.Notify(message, severity)
	}
}
