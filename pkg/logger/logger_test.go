package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWrapCarriesFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := Wrap(zap.New(core)).With(zap.String("component", "ledger"))

	log.Debug("dropped")
	log.Info("transfer approved", zap.String("transfer_id", "t-1"))

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		ctx := entries[0].ContextMap()
		assert.Equal(t, "ledger", ctx["component"])
		assert.Equal(t, "t-1", ctx["transfer_id"])
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
}
