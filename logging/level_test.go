package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceyewan/levelconf/xerrors"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{in: "ALL", want: LevelAll},
		{in: "TRACE", want: LevelTrace},
		{in: "DEBUG", want: LevelDebug},
		{in: "INFO", want: LevelInfo},
		{in: "WARN", want: LevelWarn},
		{in: "ERROR", want: LevelError},
		{in: "OFF", want: LevelOff},
		{in: "NOT_SPECIFIED", want: LevelNotSpecified},
		{in: "", want: LevelNotSpecified},
		{in: "debug", wantErr: true},
		{in: "Info", wantErr: true},
		{in: "verbose", wantErr: true},
		{in: " DEBUG", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.in)
				assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLevelString(t *testing.T) {
	for _, l := range Levels() {
		parsed, ok := LookupLevel(l.String())
		require.True(t, ok, l.String())
		assert.Equal(t, l, parsed)
	}
	assert.Equal(t, "Level(99)", Level(99).String())
	assert.Equal(t, LevelNotSpecified, Level(0))
}

func TestRegistry(t *testing.T) {
	r := newRegistry(LevelInfo)

	r.set("com.example", LevelDebug)
	r.set("com.example.noisy", LevelError)

	assert.Equal(t, LevelDebug, r.effective("com.example"))
	assert.Equal(t, LevelDebug, r.effective("com.example.orders"))
	assert.Equal(t, LevelError, r.effective("com.example.noisy.sub"))
	assert.Equal(t, LevelInfo, r.effective("com.examples"))
	assert.Equal(t, LevelInfo, r.effective("org"))

	// 根级别
	r.set("ROOT", LevelWarn)
	assert.Equal(t, LevelWarn, r.effective("org"))
	assert.Equal(t, LevelWarn, r.effective(""))

	// NOT_SPECIFIED 删除覆盖
	r.set("com.example.noisy", LevelNotSpecified)
	assert.Equal(t, LevelDebug, r.effective("com.example.noisy.sub"))

	snap := r.snapshot()
	assert.Equal(t, map[string]Level{"com.example": LevelDebug, "root": LevelWarn}, snap)

	r.reset()
	assert.Equal(t, LevelInfo, r.effective("com.example"))
	assert.Equal(t, map[string]Level{"root": LevelInfo}, r.snapshot())
}
