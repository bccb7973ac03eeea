package utils

import (
	"time"

	"go.uber.org/zap"
)

// TimeTrack logs the time elapsed since start. Use with defer.
func TimeTrack(logger *zap.Logger, start time.Time, name string) {
	LoggerOrNop(logger).Debug(name+" done", zap.Duration("took", time.Since(start)))
}
