// Package logsink runs the node's one logging goroutine: every other
// component sends structured entries over a channel instead of writing
// logs directly, keeping log output serialized without a shared lock (spec
// §9 "the logger sink ... modelled as a typed channel to a dedicated writer
// task").
package logsink

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Entry is one log line, queued for the writer goroutine.
type Entry struct {
	Level   zapcore.Level
	Message string
	Fields  []zap.Field
}

// Sink owns the channel and the dedicated writer goroutine.
type Sink struct {
	in     chan Entry
	logger *zap.Logger
	done   chan struct{}
}

// Open builds a zap logger writing to path and starts its writer goroutine.
func Open(path string) (*Sink, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.EncoderConfig = zap.NewProductionEncoderConfig()
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	s := &Sink{
		in:     make(chan Entry, 256),
		logger: logger,
		done:   make(chan struct{}),
	}
	go s.run()
	return s, nil
}

func (s *Sink) run() {
	defer close(s.done)
	for e := range s.in {
		s.logger.Log(e.Level, e.Message, e.Fields...)
	}
	_ = s.logger.Sync()
}

// Log queues one entry; it never blocks the caller on I/O.
func (s *Sink) Log(level zapcore.Level, msg string, fields ...zap.Field) {
	s.in <- Entry{Level: level, Message: msg, Fields: fields}
}

func (s *Sink) Info(msg string, fields ...zap.Field)  { s.Log(zapcore.InfoLevel, msg, fields...) }
func (s *Sink) Error(msg string, fields ...zap.Field) { s.Log(zapcore.ErrorLevel, msg, fields...) }
func (s *Sink) Warn(msg string, fields ...zap.Field)  { s.Log(zapcore.WarnLevel, msg, fields...) }

// Close drains and stops the writer goroutine.
func (s *Sink) Close() {
	close(s.in)
	<-s.done
}
