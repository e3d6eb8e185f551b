package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	cases := map[string]struct {
		level       string
		format      string
		expectedErr bool
	}{
		"Text":          {level: "info", format: "text"},
		"Plain":         {level: "debug", format: "plain"},
		"JSON":          {level: "INFO", format: "json"},
		"InvalidLevel":  {level: "loud", format: "json", expectedErr: true},
		"InvalidFormat": {level: "info", format: "xml", expectedErr: true},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewLogger(new(bytes.Buffer), tc.level, tc.format)
			if tc.expectedErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestJSONOutput(t *testing.T) {
	buf := new(bytes.Buffer)
	logger, err := NewLogger(buf, "info", "json")
	require.NoError(t, err)

	logger.Debug().Msg("hidden")
	logger.Info().Str("collection", "[[1,5]]").Msg("state")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "state", line["message"])
	assert.Equal(t, "[[1,5]]", line["collection"])
	assert.Equal(t, "info", line["level"])
}

func TestTextOutput(t *testing.T) {
	buf := new(bytes.Buffer)
	logger, err := NewLogger(buf, "info", "text")
	require.NoError(t, err)

	logger.Info().Msg("hello")
	assert.Contains(t, buf.String(), "INFO")
	assert.Contains(t, buf.String(), "hello")
}

func TestConsoleWriter(t *testing.T) {
	buf := new(bytes.Buffer)

	w, err := NewConsoleWriterWith(buf, "JSON")
	require.NoError(t, err)
	assert.Same(t, buf, w)

	w, err = NewConsoleWriterWith(buf, "plain")
	require.NoError(t, err)
	assert.NotSame(t, buf, w)

	_, err = NewConsoleWriterWith(buf, "")
	assert.Error(t, err)
}
