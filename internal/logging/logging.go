package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"agronomo-ia/internal/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	writerMu sync.RWMutex
	writer   io.Writer = os.Stdout
	fileOut  io.Closer
)

// Init configures the global zerolog logger. A log file that cannot be
// opened is reported and skipped; stdout logging always works.
func Init(cfg config.LogConfig) {
	level := zerolog.InfoLevel
	if v := strings.TrimSpace(cfg.Level); v != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(v)); err == nil {
			level = parsed
		}
	}

	var fileErr error
	var out io.Writer = os.Stdout
	var closer io.Closer
	if path := strings.TrimSpace(cfg.File); path != "" {
		w, err := newSizeLimitedWriter(path, cfg.MaxMB, cfg.Backups)
		if err != nil {
			fileErr = err
		} else {
			out = io.MultiWriter(os.Stdout, w)
			closer = w
		}
	}

	writerMu.Lock()
	if fileOut != nil {
		_ = fileOut.Close()
	}
	writer = out
	fileOut = closer
	writerMu.Unlock()

	var console io.Writer = out
	if cfg.Pretty {
		console = zerolog.ConsoleWriter{Out: out}
	}

	zerolog.SetGlobalLevel(level)
	logger := zerolog.New(console).With().Timestamp().Logger()
	if cfg.SampleEvery > 1 {
		logger = logger.Sample(&zerolog.BasicSampler{N: uint32(cfg.SampleEvery)})
	}
	log.Logger = logger

	if fileErr != nil {
		log.Warn().Err(fileErr).Str("path", cfg.File).Msg("log file unavailable; logging to stdout only")
	}
}

// Writer returns the raw sink used by the global logger, for libraries that
// bring their own encoder (the HTTP access log uses slog).
func Writer() io.Writer {
	writerMu.RLock()
	defer writerMu.RUnlock()
	return writer
}

// Close flushes and releases the log file, if any.
func Close() error {
	writerMu.Lock()
	defer writerMu.Unlock()
	if fileOut == nil {
		return nil
	}
	err := fileOut.Close()
	fileOut = nil
	writer = os.Stdout
	return err
}
