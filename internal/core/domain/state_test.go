package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClosedStates(t *testing.T) {

	assert := assert.New(t)

	s, err := ParseBinaryState("on")
	assert.NoError(err)
	assert.Equal(BINARY_ON, s)

	m, err := ParseMediaPlayerState("buffering")
	assert.NoError(err)
	assert.Equal(MEDIA_BUFFERING, m)

	p, err := ParsePrinterStatus("inpowersave")
	assert.NoError(err)
	assert.Equal(PRINTER_POWER_SAVE, p)
}

func TestParseUnknownIsAState(t *testing.T) {

	assert := assert.New(t)

	b, err := ParseBinaryState("unknown")
	assert.NoError(err)
	assert.Equal(BINARY_UNKNOWN, b)

	c, err := ParseCameraState("unknown")
	assert.NoError(err)
	assert.Equal(CAMERA_UNKNOWN, c)

	_, err = ParseWritableFanVelocity("unknown")
	assert.ErrorIs(err, ErrUnknownState)
}

func TestParseUnknownStateFails(t *testing.T) {

	_, err := ParseSwitchState("maybe")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownState))

	_, err = ParseLightState("ON")
	assert.ErrorIs(t, err, ErrUnknownState)
}

func TestFanVelocityWritableSubset(t *testing.T) {

	assert := assert.New(t)

	v, err := ParseFanVelocity("off")
	assert.NoError(err)
	assert.Equal(FAN_POWERED_OFF, v)

	_, err = ParseWritableFanVelocity("off")
	assert.ErrorIs(err, ErrUnknownState)

	v, err = ParseWritableFanVelocity("media")
	assert.NoError(err)
	assert.Equal(FAN_MEDIUM, v)
}
