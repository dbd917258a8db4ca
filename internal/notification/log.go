package notification

import (
	"LearnTrack/pkg/logger"
	"context"
)

// LogSender writes messages to the application log instead of delivering them.
type LogSender struct {
	log logger.Log
}

func NewLogSender(log logger.Log) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.log.Info("notification", "contact", msg.To, "subject", msg.Subject, "body", msg.TextBody)
	return nil
}
