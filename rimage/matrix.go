package rimage

import "github.com/pkg/errors"

// Matrix is the decoded 2D view a stage actually operates on: a dense,
// row-major buffer of fixed-width samples. A BGR888 or GRAY8 Frame's Matrix
// shares storage with the Frame's Pixels (no copy); a YUYV Frame's Matrix is
// a freshly allocated BGR buffer, since YUYV has no fixed per-pixel stride
// that a stage kernel can index directly.
type Matrix struct {
	Width, Height int
	Channels      int // 3 for BGR, 1 for GRAY8
	Data          []byte
}

// At returns the start offset of pixel (x, y) within Data.
func (m *Matrix) At(x, y int) int {
	return (y*m.Width + x) * m.Channels
}

// Color returns the BGR color at (x, y). Channels must be 3.
func (m *Matrix) Color(x, y int) Color {
	i := m.At(x, y)
	return Color{B: m.Data[i], G: m.Data[i+1], R: m.Data[i+2]}
}

// SetColor writes the BGR color at (x, y). Channels must be 3.
func (m *Matrix) SetColor(x, y int, c Color) {
	i := m.At(x, y)
	m.Data[i], m.Data[i+1], m.Data[i+2] = c.B, c.G, c.R
}

// Gray returns the single-channel sample at (x, y). Channels must be 1.
func (m *Matrix) Gray(x, y int) uint8 {
	return m.Data[m.At(x, y)]
}

// SetGray writes the single-channel sample at (x, y). Channels must be 1.
func (m *Matrix) SetGray(x, y int, v uint8) {
	m.Data[m.At(x, y)] = v
}

// NewMatrix allocates a zeroed Matrix of the given shape.
func NewMatrix(width, height, channels int) *Matrix {
	return &Matrix{
		Width:    width,
		Height:   height,
		Channels: channels,
		Data:     make([]byte, width*height*channels),
	}
}

// ToMatrix decodes a Frame's pixel buffer into a Matrix. BGR888 and GRAY8
// frames are decoded by aliasing Pixels directly (no allocation, no copy);
// callers must not mutate the result without first copying it, since doing
// so would corrupt the Frame's own buffer while other readers may still
// hold it. YUYV frames are decoded into a freshly allocated BGR Matrix.
func ToMatrix(f *Frame) (*Matrix, error) {
	switch f.Format {
	case FormatBGR888:
		if len(f.Pixels) != f.Width*f.Height*3 {
			return nil, errors.Errorf("BGR888 frame: expected %d bytes, got %d", f.Width*f.Height*3, len(f.Pixels))
		}
		return &Matrix{Width: f.Width, Height: f.Height, Channels: 3, Data: f.Pixels}, nil
	case FormatGRAY8:
		if len(f.Pixels) != f.Width*f.Height {
			return nil, errors.Errorf("GRAY8 frame: expected %d bytes, got %d", f.Width*f.Height, len(f.Pixels))
		}
		return &Matrix{Width: f.Width, Height: f.Height, Channels: 1, Data: f.Pixels}, nil
	case FormatYUYV:
		return yuyvToBGR(f)
	default:
		return nil, errors.Errorf("unsupported pixel format %v", f.Format)
	}
}

// yuyvToBGR decodes a packed YUYV 4:2:2 buffer into a freshly allocated BGR
// Matrix. Two source pixels (4 bytes: Y0 Cb Y1 Cr) share one Cb/Cr pair and
// decode to two independent BGR triples. The Y/Cb/Cr-to-RGB coefficients
// are the ITU-R BT.601 ones (see yCbCrToBGR); this decoder produces BGR
// bytes directly instead of building an image.YCbCr.
func yuyvToBGR(f *Frame) (*Matrix, error) {
	if f.Width%2 != 0 {
		return nil, errors.Errorf("YUYV frame: width %d must be even", f.Width)
	}
	expected := f.Width * f.Height * 2
	if len(f.Pixels) != expected {
		return nil, errors.Errorf("YUYV frame: expected %d bytes, got %d", expected, len(f.Pixels))
	}
	out := NewMatrix(f.Width, f.Height, 3)
	src := f.Pixels
	row := f.Width * 2
	for y := 0; y < f.Height; y++ {
		srcRow := src[y*row : y*row+row]
		dstRow := out.Data[y*f.Width*3 : (y+1)*f.Width*3]
		for x := 0; x < f.Width; x += 2 {
			y0 := int(srcRow[x*2])
			cb := int(srcRow[x*2+1])
			y1 := int(srcRow[x*2+2])
			cr := int(srcRow[x*2+3])

			b0, g0, r0 := yCbCrToBGR(y0, cb, cr)
			dstRow[x*3], dstRow[x*3+1], dstRow[x*3+2] = b0, g0, r0

			b1, g1, r1 := yCbCrToBGR(y1, cb, cr)
			dstRow[(x+1)*3], dstRow[(x+1)*3+1], dstRow[(x+1)*3+2] = b1, g1, r1
		}
	}
	return out, nil
}

// yCbCrToBGR converts one Y/Cb/Cr sample (Cb, Cr centered on 128) to BGR888
// using integer-scaled BT.601 coefficients, clamping to [0, 255].
func yCbCrToBGR(y, cb, cr int) (b, g, r uint8) {
	c := y - 16
	d := cb - 128
	e := cr - 128

	rr := (298*c + 409*e + 128) >> 8
	gg := (298*c - 100*d - 208*e + 128) >> 8
	bb := (298*c + 516*d + 128) >> 8

	return clampByte(bb), clampByte(gg), clampByte(rr)
}

func clampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
