package httpclient

import (
	"github.com/rs/zerolog"
)

// restyLogger routes resty's internal messages to zerolog.
type restyLogger struct {
	logger zerolog.Logger
}

func (l *restyLogger) Errorf(format string, v ...any) {
	l.logger.Error().Str("component", "resty").Msgf(format, v...)
}

func (l *restyLogger) Warnf(format string, v ...any) {
	l.logger.Warn().Str("component", "resty").Msgf(format, v...)
}

func (l *restyLogger) Debugf(format string, v ...any) {
	l.logger.Debug().Str("component", "resty").Msgf(format, v...)
}
