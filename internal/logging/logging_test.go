package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{" warn ", zerolog.WarnLevel},
		{"Error", zerolog.ErrorLevel},
		{"trace", zerolog.TraceLevel},
		{"", zerolog.InfoLevel},
		{"loud", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), "level %q", tt.in)
	}
}

func TestNew_FiltersBelowLevel(t *testing.T) {
	var console bytes.Buffer
	log := New("warn", &console, nil)

	log.Info().Msg("quiet")
	log.Warn().Msg("loud")

	out := console.String()
	assert.NotContains(t, out, "quiet")
	assert.Contains(t, out, "loud")
}

func TestNew_FileCopyHasNoColour(t *testing.T) {
	var console, file bytes.Buffer
	log := New("debug", &console, &file)

	log.Debug().Str("side", "blue").Msg("forces generated")

	assert.Contains(t, console.String(), "forces generated")
	assert.Contains(t, file.String(), "forces generated")
	assert.Contains(t, file.String(), "side=blue")
	assert.NotContains(t, file.String(), "\x1b[")
}
