package screens

import (
	"github.com/meinhoongagan/marketplace/logger"
	"go.uber.org/zap"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notifier shows short messages to the user.
type Notifier interface {
	Notify(level Level, message string)
}

// LogNotifier writes notices to the process logger.
type LogNotifier struct{}

func (LogNotifier) Notify(level Level, message string) {
	if level == LevelError {
		logger.L().Warn(message, zap.String("notice", string(level)))
		return
	}
	logger.L().Info(message, zap.String("notice", string(level)))
}
