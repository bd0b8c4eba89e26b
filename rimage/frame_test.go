package rimage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameRefcountReleasesOnLastReader(t *testing.T) {
	released := false
	f := NewFrame(2, 2, FormatGRAY8, make([]byte, 4), 1, 0, 0)
	f.SetReleaseFunc(func() { released = true })

	f.Retain()
	f.Release()
	assert.False(t, released, "frame must not release while a retained reader is outstanding")

	f.Release()
	assert.True(t, released, "frame must release once refcount reaches zero")
}

func TestEncodeDecodeFramePacketRoundTrip(t *testing.T) {
	packet := EncodeFramePacket(0xBEEF, 0xDEADBEEF, 0x1234)
	frameID, timestamp, exposure, err := DecodeFramePacket(packet)
	require.NoError(t, err)
	assert.EqualValues(t, 0xBEEF, frameID)
	assert.EqualValues(t, 0xDEADBEEF, timestamp)
	assert.EqualValues(t, 0x1234, exposure)
}

func TestDecodeFramePacketRejectsBadChecksum(t *testing.T) {
	packet := EncodeFramePacket(1, 2, 3)
	packet[len(packet)-1] ^= 0xFF
	_, _, _, err := DecodeFramePacket(packet)
	assert.Error(t, err)
}

func TestDecodeFramePacketRejectsWrongLength(t *testing.T) {
	_, _, _, err := DecodeFramePacket([]byte{0x3B, 0x0B})
	assert.Error(t, err)
}

func TestDecodeFramePacketRejectsBadHeader(t *testing.T) {
	packet := EncodeFramePacket(1, 2, 3)
	packet[0] = 0x00
	_, _, _, err := DecodeFramePacket(packet)
	assert.Error(t, err)
}
