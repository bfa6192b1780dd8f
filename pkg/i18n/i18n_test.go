package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate(t *testing.T) {
	Init()
	require.NoError(t, LoadEmbedded())

	data := map[string]any{"Item": "Petal (Red)", "Requested": "12", "Available": "10"}

	assert.Equal(t, "Insufficient stock for Petal (Red): requested 12, available 10",
		Translate("en-US", "insufficient_stock", data, "fallback"))
	assert.Equal(t, "موجودی Petal (Red) کافی نیست: درخواست 12، موجود 10",
		Translate("fa", "insufficient_stock", data, "fallback"))
}

func TestTranslateOptionalRow(t *testing.T) {
	Init()
	require.NoError(t, LoadEmbedded())

	assert.Equal(t, "Row 2: color is required", Translate("en", "color_required", map[string]any{"Row": 2}, ""))
	assert.Equal(t, "color is required", Translate("en", "color_required", nil, ""))
}

func TestTranslateFallback(t *testing.T) {
	Init()
	require.NoError(t, LoadEmbedded())

	assert.Equal(t, "raw", Translate("en", "no_such_message", nil, "raw"))
	assert.Equal(t, "Internal server error", Translate("de", "internal", nil, "raw"))
}
