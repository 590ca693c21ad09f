package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupWriter_JSONInProduction(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	var buf bytes.Buffer
	lvl := SetupWriter(&buf, "production", "debug")
	assert.Equal(t, zerolog.DebugLevel, lvl)

	log.Debug().Int("season", 2025).Msg("hello")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["message"])
	assert.Equal(t, float64(2025), entry["season"])
}

func TestSetupWriter_BadLevelFallsBackToInfo(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	var buf bytes.Buffer
	lvl := SetupWriter(&buf, "development", "loud")
	assert.Equal(t, zerolog.InfoLevel, lvl)

	log.Debug().Msg("hidden")
	assert.Empty(t, buf.String())
}
