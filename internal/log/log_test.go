package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"moul.io/zapfilter"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
		debug   bool
	}{
		{name: "defaults", opts: Options{}},
		{name: "json debug", opts: Options{Level: "debug", Format: "json"}, debug: true},
		{name: "text alias", opts: Options{Level: "warn", Format: "text"}},
		{name: "bad level", opts: Options{Level: "loud"}, wantErr: true},
		{name: "bad format", opts: Options{Format: "xml"}, wantErr: true},
		{name: "filter", opts: Options{Filter: "*:race*"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.opts)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.debug, l.Core().Enabled(zapcore.DebugLevel))
		})
	}
}

func TestFilterRulesSelectNamespaces(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := zap.New(zapfilter.NewFilteringCore(core, zapfilter.MustParseRules("*:race*")))

	l.Named("race").Info("kept")
	l.Named("tui").Info("dropped")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "kept", logs.All()[0].Message)
}

func TestInit(t *testing.T) {
	prev := Logger
	t.Cleanup(func() { Logger = prev })

	require.NoError(t, Init(Options{Level: "error"}))
	assert.NotSame(t, prev, Logger)
	assert.False(t, Named("race").Core().Enabled(zapcore.InfoLevel))

	assert.Error(t, Init(Options{Level: "nope"}))
}
