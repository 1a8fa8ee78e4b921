package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/raywall/fast-mock-server/pkg/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure(t *testing.T) {
	t.Run("Default Level Info", func(t *testing.T) {
		_ = Configure(config.LoggingConf{Enabled: true})

		if zerolog.GlobalLevel() != zerolog.InfoLevel {
			t.Errorf("Esperado InfoLevel, atual %v", zerolog.GlobalLevel())
		}
	})

	t.Run("Custom Level Debug", func(t *testing.T) {
		_ = Configure(config.LoggingConf{Enabled: true, Level: "debug"})

		if zerolog.GlobalLevel() != zerolog.DebugLevel {
			t.Errorf("Esperado DebugLevel, atual %v", zerolog.GlobalLevel())
		}
	})

	t.Run("JSON no writer configurado", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Configure(config.LoggingConf{Enabled: true, Level: "info", Format: "json", Out: &buf})

		logger.Info().Int("status", 200).Msg("[200] GET /ping")

		var line map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "[200] GET /ping", line["message"])
		assert.Equal(t, float64(200), line["status"])
		assert.Contains(t, line, "time")
	})

	t.Run("Console legivel", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Configure(config.LoggingConf{Enabled: true, Format: "console", Out: &buf})

		logger.Info().Msg("Mock server running")
		assert.Contains(t, buf.String(), "Mock server running")
	})

	t.Run("Disabled Logger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Configure(config.LoggingConf{Enabled: false, Out: &buf})

		logger.Info().Msg("teste")
		assert.Empty(t, buf.String())
	})
}
