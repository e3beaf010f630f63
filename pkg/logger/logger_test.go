package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name         string
		cfg          *LoggerConfig
		debugEnabled bool
		warnEnabled  bool
	}{
		{name: "nil config", cfg: nil, debugEnabled: false, warnEnabled: true},
		{name: "production", cfg: &LoggerConfig{Debug: false}, debugEnabled: false, warnEnabled: true},
		{name: "debug", cfg: &LoggerConfig{Debug: true}, debugEnabled: true, warnEnabled: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewLogger(tt.cfg)
			require.NoError(t, err)
			require.NotNil(t, l)

			assert.Equal(t, tt.debugEnabled, l.Core().Enabled(zapcore.DebugLevel))
			assert.Equal(t, tt.warnEnabled, l.Core().Enabled(zapcore.WarnLevel))
		})
	}
}
