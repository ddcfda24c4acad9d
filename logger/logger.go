package logger

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/staticbackendhq/imageeditor/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Logger struct {
	*zerolog.Logger
}

var (
	logger Logger
	once   sync.Once
)

func newFileWriter(filename string) io.Writer {
	return &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    50,
		MaxBackups: 3,
	}
}

// Get returns the process-wide logger, built on first call from cfg.
func Get(cfg config.AppConfig) *Logger {
	once.Do(func() {
		logger = *New(cfg, os.Stdout)
	})

	return &logger
}

// New builds a logger writing to out (console format) and to the
// rotating file when cfg.LogFilename is set.
func New(cfg config.AppConfig, out io.Writer) *Logger {
	writers := []io.Writer{zerolog.ConsoleWriter{Out: out, TimeFormat: time.Stamp, NoColor: out != os.Stdout}}

	if cfg.LogFilename != "" {
		writers = append(writers, newFileWriter(cfg.LogFilename))
	}

	if cfg.LogConsoleLevel != "" {
		level, err := zerolog.ParseLevel(cfg.LogConsoleLevel)
		if err != nil {
			panic(err)
		}

		zerolog.SetGlobalLevel(level)
	}

	if cfg.AppEnv == config.AppEnvDev {
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	}

	multiWriters := io.MultiWriter(writers...)

	zeroLogger := zerolog.New(multiWriters).With().Timestamp().Logger()

	return &Logger{&zeroLogger}
}

// Nop returns a logger discarding everything, handy in tests.
func Nop() *Logger {
	l := zerolog.Nop()
	return &Logger{&l}
}
