package pointcloud

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// Grid is a dense, pixel-aligned matrix of 3D points: the Points stage's
// matrix-typed output. Points[y*Width+x] is the reprojection of the input
// disparity/depth map's pixel (x, y); a point with no valid reprojection
// (e.g. zero disparity) is the zero Vector, mirroring DepthMap's "zero means
// no data" convention.
type Grid struct {
	Width, Height int
	Points        []r3.Vector
	Colors        []Data // optional; nil if the source had no color channel
}

// NewGrid allocates a Grid of the given shape with no color channel.
func NewGrid(width, height int) *Grid {
	return &Grid{Width: width, Height: height, Points: make([]r3.Vector, width*height)}
}

// NewColoredGrid allocates a Grid of the given shape with a color channel.
func NewColoredGrid(width, height int) *Grid {
	return &Grid{
		Width:  width,
		Height: height,
		Points: make([]r3.Vector, width*height),
		Colors: make([]Data, width*height),
	}
}

func (g *Grid) index(x, y int) int { return y*g.Width + x }

// At returns the 3D point at pixel (x, y).
func (g *Grid) At(x, y int) r3.Vector {
	return g.Points[g.index(x, y)]
}

// Set writes the 3D point at pixel (x, y).
func (g *Grid) Set(x, y int, pt r3.Vector) {
	g.Points[g.index(x, y)] = pt
}

// SetColored writes the 3D point and its color at pixel (x, y). It is an
// error to call this on a Grid built with NewGrid (no color channel).
func (g *Grid) SetColored(x, y int, pt r3.Vector, c Data) error {
	if g.Colors == nil {
		return errors.New("grid has no color channel")
	}
	idx := g.index(x, y)
	g.Points[idx] = pt
	g.Colors[idx] = c
	return nil
}

// ColorAt returns the color at pixel (x, y), or nil if the Grid has no
// color channel or no color was set for that pixel.
func (g *Grid) ColorAt(x, y int) Data {
	if g.Colors == nil {
		return nil
	}
	return g.Colors[g.index(x, y)]
}
