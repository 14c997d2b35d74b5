package providers

import (
	"aprd/internal/structures"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

type TypeEnum string

const (
	TypeApp      TypeEnum = "app"
	TypeRotation TypeEnum = "rotation"
	TypeMonitor  TypeEnum = "monitor"
	TypeTrigger  TypeEnum = "trigger"
	TypeStore    TypeEnum = "store"
	TypeHTTP     TypeEnum = "http"
)

const logFileName = "aprd.log"

type Logger interface {
	Errorf(t TypeEnum, format string, args ...interface{})
	Warnf(t TypeEnum, format string, args ...interface{})
	Debugf(t TypeEnum, format string, args ...interface{})
	Infof(t TypeEnum, format string, args ...interface{})
	Fatalf(t TypeEnum, format string, args ...interface{})
	Close()
}

type LogProvider struct {
	logger zerolog.Logger
	file   *os.File
}

func (l *LogProvider) Errorf(t TypeEnum, format string, args ...interface{}) {
	l.logger.Error().Str("type", string(t)).Msgf(format, args...)
}

func (l *LogProvider) Warnf(t TypeEnum, format string, args ...interface{}) {
	l.logger.Warn().Str("type", string(t)).Msgf(format, args...)
}

func (l *LogProvider) Debugf(t TypeEnum, format string, args ...interface{}) {
	l.logger.Debug().Str("type", string(t)).Msgf(format, args...)
}

func (l *LogProvider) Infof(t TypeEnum, format string, args ...interface{}) {
	l.logger.Info().Str("type", string(t)).Msgf(format, args...)
}

func (l *LogProvider) Fatalf(t TypeEnum, format string, args ...interface{}) {
	l.logger.Fatal().Str("type", string(t)).Msgf(format, args...)
}

func (l *LogProvider) Close() {
	if l.file != nil {
		_ = l.file.Sync()
		_ = l.file.Close()
	}
}

func NewLogProvider(conf *structures.Config) (Logger, error) {
	level, err := zerolog.ParseLevel(conf.Logger.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", conf.Logger.Level, err)
	}
	if conf.Debug {
		level = zerolog.DebugLevel
	}

	if err = os.MkdirAll(conf.Logger.Dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating log dir %s: %w", conf.Logger.Dir, err)
	}
	path := filepath.Join(conf.Logger.Dir, logFileName)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, os.FileMode(conf.Logger.Mode))
	if err != nil {
		return nil, fmt.Errorf("opening log file %s: %w", path, err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	var out io.Writer = zerolog.MultiLevelWriter(file, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	return &LogProvider{logger: logger, file: file}, nil
}
