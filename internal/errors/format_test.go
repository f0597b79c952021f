package errors

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatForCLI_IncludesMessageHintAndCode(t *testing.T) {
	// Given: an error with suggestion
	err := New(ErrCodeIndexLocked, "index is locked", errors.New("held by pid 42")).
		WithSuggestion("wait for the other run to finish")

	// When: formatting for CLI
	result := FormatForCLI(err)

	// Then: all parts are present
	assert.Contains(t, result, "Error: index is locked: held by pid 42")
	assert.Contains(t, result, "Hint: wait for the other run to finish")
	assert.Contains(t, result, "Code: ERR_504_INDEX_LOCKED")
}

func TestFormatForCLI_StandardErrorIsWrapped(t *testing.T) {
	result := FormatForCLI(errors.New("something went wrong"))

	assert.Contains(t, result, "Error: something went wrong")
	assert.Contains(t, result, ErrCodeInternal)
}

func TestFormatForCLI_Nil(t *testing.T) {
	assert.Empty(t, FormatForCLI(nil))
}

func TestFormatForLog_StructuredAttrs(t *testing.T) {
	// Given: an error with details
	err := DecodeError("/docs/a.txt", errors.New("invalid UTF-8"))

	// When: formatting for log
	attrs := FormatForLog(err)

	// Then: attributes carry the code, cause and details
	got := make(map[string]string, len(attrs))
	for _, a := range attrs {
		got[a.Key] = a.Value.String()
	}
	assert.Equal(t, ErrCodeDecodeFailed, got["error_code"])
	assert.Equal(t, string(SeverityFatal), got["severity"])
	assert.Equal(t, "invalid UTF-8", got["cause"])
	assert.Equal(t, "/docs/a.txt", got["detail_path"])
}

func TestFormatForLog_StandardError(t *testing.T) {
	attrs := FormatForLog(errors.New("plain"))

	require.Len(t, attrs, 1)
	assert.Equal(t, "error", attrs[0].Key)
	assert.Equal(t, slog.KindString, attrs[0].Value.Kind())
	assert.Equal(t, "plain", attrs[0].Value.String())
	assert.Nil(t, FormatForLog(nil))
}
