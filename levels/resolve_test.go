package levels

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceyewan/levelconf/logging"
	"github.com/ceyewan/levelconf/xerrors"
)

func TestResolveCanonicalNames(t *testing.T) {
	for _, level := range logging.Levels() {
		t.Run(level.String(), func(t *testing.T) {
			got, err := Resolve("com.example", level.String())
			require.NoError(t, err)
			assert.Equal(t, level, got)
		})
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		want    logging.Level
		wantErr bool
	}{
		{name: "empty string", value: "", want: logging.LevelNotSpecified},
		{name: "nil", value: nil, want: logging.LevelNotSpecified},
		{name: "boolean false", value: false, want: logging.LevelOff},
		{name: "boolean true", value: true, wantErr: true},
		{name: "lower case", value: "debug", wantErr: true},
		{name: "mixed case", value: "Info", wantErr: true},
		{name: "padded", value: " INFO", wantErr: true},
		{name: "unknown", value: "verbose", wantErr: true},
		{name: "number", value: 3, wantErr: true},
		{name: "string false", value: "false", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve("com.example", tt.value)
			if tt.wantErr {
				require.Error(t, err)
				var invalid *InvalidLevelError
				require.True(t, errors.As(err, &invalid))
				assert.Equal(t, tt.value, invalid.Value)
				assert.Equal(t, "com.example", invalid.Prefix)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInvalidLevelError(t *testing.T) {
	_, err := Resolve("bar", "verbose")
	require.Error(t, err)

	assert.Equal(t, "Invalid log level: 'verbose' for logger: 'bar'", err.Error())
	assert.True(t, errors.Is(err, ErrInvalidLevel))
	assert.True(t, errors.Is(err, xerrors.ErrInvalidInput))
	assert.Equal(t, CodeInvalidLogLevel, xerrors.GetCode(err))

	_, err = Resolve("Org.Acme", true)
	assert.Equal(t, "Invalid log level: 'true' for logger: 'Org.Acme'", err.Error())
}

func TestMerge(t *testing.T) {
	raw := map[string]any{"com.Example": "DEBUG", "root": "INFO"}
	normalized := map[string]any{"root": "WARN", "com.example": "ERROR"}

	got := merge(raw, normalized)
	assert.Equal(t, map[string]any{
		"com.Example": "DEBUG",
		"com.example": "ERROR",
		"root":        "WARN",
	}, got)
	assert.Len(t, raw, 2, "inputs are not modified")
}
