package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ceyewan/levelconf/xerrors"
)

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(xerrors.ErrNotFound))
	assert.True(t, IsNotFound(xerrors.Wrap(xerrors.ErrNotFound, "config not found")))
	assert.False(t, IsNotFound(xerrors.ErrInvalidInput))
	assert.False(t, IsNotFound(nil))
}

func TestIsInvalidInput(t *testing.T) {
	assert.True(t, IsInvalidInput(ErrValidationFailed))
	assert.True(t, IsInvalidInput(xerrors.Wrap(ErrValidationFailed, "configuration is empty")))
	assert.False(t, IsInvalidInput(errors.New("custom")))
	assert.False(t, IsInvalidInput(nil))
}

func TestWrapLoadError(t *testing.T) {
	assert.NoError(t, WrapLoadError(nil, "ignored"))

	err := WrapLoadError(xerrors.ErrNotFound, "config.yaml")
	assert.Equal(t, "failed to load config: config.yaml: not found", err.Error())
	assert.True(t, IsNotFound(err))
}
