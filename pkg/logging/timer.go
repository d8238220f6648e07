package logging

import "time"

// StartTimer starts timing an operation that is logged as msg when it ends.
func StartTimer(logger Logger, msg string, fields ...Field) *TimedOperation {
	return &TimedOperation{
		logger: logger,
		msg:    msg,
		start:  time.Now(),
		fields: fields,
	}
}

// Elapsed returns the time since the timer started.
func (t *TimedOperation) Elapsed() time.Duration {
	return time.Since(t.start)
}

func (t *TimedOperation) withLatency(extra ...Field) []Field {
	out := make([]Field, 0, len(t.fields)+1+len(extra))
	out = append(out, t.fields...)
	out = append(out, Latency(t.Elapsed()))
	return append(out, extra...)
}

// End logs the operation at info level with its latency.
func (t *TimedOperation) End() {
	t.logger.Info(t.msg, t.withLatency()...)
}

// EndWithLevel logs msg at level with the operation latency.
func (t *TimedOperation) EndWithLevel(level Level, msg string) {
	logAt(t.logger, level, msg, t.withLatency())
}

// EndError logs the operation at error level with its latency and err.
func (t *TimedOperation) EndError(err error) {
	t.logger.Error(t.msg, t.withLatency(Error(err))...)
}

func logAt(l Logger, level Level, msg string, fields []Field) {
	switch level {
	case DebugLevel:
		l.Debug(msg, fields...)
	case WarnLevel:
		l.Warn(msg, fields...)
	case ErrorLevel:
		l.Error(msg, fields...)
	default:
		l.Info(msg, fields...)
	}
}
