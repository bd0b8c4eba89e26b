package rimage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMatrixBGR888SharesStorage(t *testing.T) {
	pixels := []byte{1, 2, 3, 4, 5, 6}
	f := NewFrame(2, 1, FormatBGR888, pixels, 0, 0, 0)
	m, err := ToMatrix(f)
	require.NoError(t, err)
	assert.Same(t, &pixels[0], &m.Data[0])
	assert.Equal(t, Color{B: 1, G: 2, R: 3}, m.Color(0, 0))
}

func TestToMatrixGray8SharesStorage(t *testing.T) {
	pixels := []byte{10, 20}
	f := NewFrame(2, 1, FormatGRAY8, pixels, 0, 0, 0)
	m, err := ToMatrix(f)
	require.NoError(t, err)
	assert.Equal(t, uint8(10), m.Gray(0, 0))
	assert.Equal(t, uint8(20), m.Gray(1, 0))
}

func TestToMatrixBGR888RejectsShortBuffer(t *testing.T) {
	f := NewFrame(2, 2, FormatBGR888, make([]byte, 1), 0, 0, 0)
	_, err := ToMatrix(f)
	assert.Error(t, err)
}

func TestToMatrixYUYVGrayInputRoundTripsLuma(t *testing.T) {
	// A flat gray field: Y=128 everywhere, Cb=Cr=128 (no chroma) decodes to
	// a neutral gray BGR triple with B==G==R.
	pixels := []byte{128, 128, 128, 128}
	f := NewFrame(2, 1, FormatYUYV, pixels, 0, 0, 0)
	m, err := ToMatrix(f)
	require.NoError(t, err)
	c := m.Color(0, 0)
	assert.Equal(t, c.B, c.G)
	assert.Equal(t, c.G, c.R)
}

func TestToMatrixYUYVRejectsOddWidth(t *testing.T) {
	f := NewFrame(3, 1, FormatYUYV, make([]byte, 6), 0, 0, 0)
	_, err := ToMatrix(f)
	assert.Error(t, err)
}

func TestToMatrixYUYVRejectsShortBuffer(t *testing.T) {
	f := NewFrame(2, 1, FormatYUYV, make([]byte, 2), 0, 0, 0)
	_, err := ToMatrix(f)
	assert.Error(t, err)
}

func TestMatrixSetColorAndSetGrayRoundTrip(t *testing.T) {
	m := NewMatrix(2, 2, 3)
	m.SetColor(1, 1, Color{B: 9, G: 8, R: 7})
	assert.Equal(t, Color{B: 9, G: 8, R: 7}, m.Color(1, 1))

	g := NewMatrix(2, 2, 1)
	g.SetGray(0, 1, 42)
	assert.Equal(t, uint8(42), g.Gray(0, 1))
}
