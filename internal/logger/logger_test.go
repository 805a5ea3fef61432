package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geomap/internal/config"
)

func TestSetupFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "geomap.log")
	c, err := Setup(config.Log{Level: "debug", Format: "json", File: p})
	require.NoError(t, err)
	L().WithField("features", 3).Debug("loaded")
	require.NoError(t, c.Close())

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(b))), &entry))
	assert.Equal(t, "loaded", entry["msg"])
	assert.Equal(t, float64(3), entry["features"])
}

func TestSetupLevelFilters(t *testing.T) {
	p := filepath.Join(t.TempDir(), "geomap.log")
	c, err := Setup(config.Log{Level: "warn", Format: "text", File: p})
	require.NoError(t, err)
	L().Info("hidden")
	L().Warn("shown")
	require.NoError(t, c.Close())

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "hidden")
	assert.Contains(t, string(b), "msg=shown")
}

func TestSetupErrors(t *testing.T) {
	_, err := Setup(config.Log{Level: "loud"})
	assert.Error(t, err)
	_, err = Setup(config.Log{Level: "info", File: filepath.Join(t.TempDir(), "no", "such", "dir.log")})
	assert.Error(t, err)

	c, err := Setup(config.Log{Level: "info"})
	require.NoError(t, err)
	assert.NoError(t, c.Close())
	L().Info("discarded")
}
