package logging_test

import (
	"testing"

	"github.com/Jumpaku/go-evalforms/config"
	"github.com/Jumpaku/go-evalforms/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_Levels(t *testing.T) {
	cases := []struct {
		level string
		want  zapcore.Level
	}{
		{"debug", zap.DebugLevel},
		{"info", zap.InfoLevel},
		{"warn", zap.WarnLevel},
		{"error", zap.ErrorLevel},
		{"", zap.InfoLevel},
	}

	for _, c := range cases {
		c := c
		t.Run(c.level, func(t *testing.T) {
			logger, err := logging.New(config.Logger{Level: c.level, Encoding: "json"})
			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(c.want))
			if c.want > zap.DebugLevel {
				assert.False(t, logger.Core().Enabled(c.want-1))
			}
		})
	}
}

func TestNew_BadEncoding(t *testing.T) {
	_, err := logging.New(config.Logger{Level: "info", Encoding: "xml"})
	assert.Error(t, err)
}

func TestWithRun(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logging.WithRun(zap.New(core), "aggregate").Info("hello")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "aggregate", fields["command"])
	assert.Len(t, fields["run_id"], 36)
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, logging.OrNop(nil))
	l := zap.NewExample()
	assert.Same(t, l, logging.OrNop(l))
}
