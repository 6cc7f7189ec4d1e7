package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("desconocido"))
}

func TestComponentAddsFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, Config{Level: "info", Service: "api"})

	log := l.Component("approval")
	log.Info().Str("receipt_id", "r-1").Msg("decisión")
	l.Debug().Msg("no se escribe")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "api", entry["service"])
	assert.Equal(t, "approval", entry["component"])
	assert.Equal(t, "r-1", entry["receipt_id"])
	assert.Equal(t, "info", entry["level"])
}
