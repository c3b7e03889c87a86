package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("warn", "json", &buf)
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	log := Component("OSSPlugin")
	log.Info().Msg("dropped")
	log.Warn().Str("key", "a.js").Msg("kept")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kept", entry["message"])
	assert.Equal(t, "OSSPlugin", entry["component"])
	assert.Equal(t, "a.js", entry["key"])
	assert.Contains(t, entry, "time")
}

func TestInitWithWriter_UnknownLevelMeansInfo(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("loud", "console", &buf)

	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	Get().Debug().Msg("hidden")
	assert.Empty(t, buf.String())

	Get().Info().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}
