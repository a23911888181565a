package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":     zerolog.TraceLevel,
		"DEBUG":     zerolog.DebugLevel,
		"info":      zerolog.InfoLevel,
		" warning ": zerolog.WarnLevel,
		"error":     zerolog.ErrorLevel,
		"off":       zerolog.Disabled,
		"":          zerolog.InfoLevel,
		"nonsense":  zerolog.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), "ParseLevel(%q)", in)
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: "info", Format: "json", Service: "licitaciones", Writer: &buf})

	l.Debug().Msg("hidden")
	l.Info().Str("k", "v").Msg("shown")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "shown", line["message"])
	assert.Equal(t, "licitaciones", line["service"])
	assert.Equal(t, "v", line["k"])
	assert.Contains(t, line, "time")
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: "debug", Format: "console", Writer: &buf})
	l.Debug().Msg("console-line")
	assert.Contains(t, buf.String(), "console-line")
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	base := New(Options{Format: "json", Writer: &buf})

	ctx := WithRequest(context.Background(), base, "req-123")
	FromContext(ctx, zerolog.Nop()).Info().Msg("in request")
	assert.Contains(t, buf.String(), `"request_id":"req-123"`)

	buf.Reset()
	FromContext(context.Background(), base).Info().Msg("fallback")
	assert.Contains(t, buf.String(), "fallback")
	assert.NotContains(t, buf.String(), "request_id")
}
