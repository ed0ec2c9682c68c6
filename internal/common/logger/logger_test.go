package logger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"internship-recommender/internal/common/config"
)

func TestZapWrapper_Fields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core)).WithFields(map[string]interface{}{"taskType": "recommend-internships"})

	log.Info("processing job", map[string]interface{}{"jobKey": int64(42)})
	log.WithError(errors.New("boom")).Error("job failed", map[string]interface{}{"cause": errors.New("source down")})

	entries := logs.All()
	require.Len(t, entries, 2)

	first := entries[0].ContextMap()
	assert.Equal(t, "recommend-internships", first["taskType"])
	assert.Equal(t, int64(42), first["jobKey"])

	second := entries[1].ContextMap()
	assert.Equal(t, "boom", second["error"])
	assert.Equal(t, "source down", second["cause"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
}

func TestNewFromConfig_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worker.log")

	log, zl, err := NewFromConfig(
		config.LoggingConfig{Level: "info", Format: "json", Output: path},
		config.AppConfig{Name: "internship-recommender", Environment: "test"},
	)
	require.NoError(t, err)

	log.Debug("hidden", nil)
	log.Info("catalog loaded", map[string]interface{}{"recordCount": 3})
	require.NoError(t, zl.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"catalog loaded"`)
	assert.Contains(t, string(data), `"service":"internship-recommender"`)
	assert.NotContains(t, string(data), "hidden")
}

func TestNoOpLogger(t *testing.T) {
	log := NewNoOpLogger()
	assert.NotPanics(t, func() {
		log.With(map[string]interface{}{"a": 1}).Warn("ignored", nil)
	})
}
