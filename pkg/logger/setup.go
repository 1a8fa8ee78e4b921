package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/raywall/fast-mock-server/pkg/config"
	"github.com/rs/zerolog"
)

// Configure inicializa o logger a partir das configurações de runtime.
func Configure(cfg config.LoggingConf) zerolog.Logger {
	// Nível de log (default: info)
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var out io.Writer = os.Stdout
	if cfg.Out != nil {
		out = cfg.Out
	}

	// JSON para produção, Console "bonito" para uso local
	var output io.Writer = out
	if !cfg.Enabled {
		output = io.Discard
	} else if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return zerolog.New(output).
		With().
		Timestamp().
		Logger()
}
