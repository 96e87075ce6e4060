package display

import (
	"image/color"

	"github.com/fogleman/gg"
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/cspace/collision"
	"go.viam.com/cspace/referenceframe"
	"go.viam.com/cspace/spatialmath"
)

var (
	backgroundColor = color.White
	obstacleColor   = color.RGBA{R: 0x55, G: 0x55, B: 0x55, A: 0xff}
	freeLinkColor   = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xc0}
	hitLinkColor    = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xc0}
	targetColor     = color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff}
)

// Snapshot renders the arm among the obstacles looking along the world y axis, x to the right and z up, centered
// on the arm base.
type Snapshot struct {
	// Side of the square image in pixels
	Size int
	// Distance in metres from the base to each edge of the image
	Extent float64
}

// DefaultSnapshot frames the whole reach of a UR5.
func DefaultSnapshot() Snapshot {
	return Snapshot{Size: 600, Extent: 1.1}
}

func (s Snapshot) scale() float64 {
	return float64(s.Size) / (2 * s.Extent)
}

// project maps a world point onto the image, dropping y.
func (s Snapshot) project(p r3.Vector) (float64, float64) {
	half := float64(s.Size) / 2
	return half + p.X*s.scale(), half - p.Z*s.scale()
}

// Draw renders scene at the full configuration with the target marked. Links are drawn in red when the
// configuration collides.
func (s Snapshot) Draw(scene *collision.Scene, full []referenceframe.Input, target r2.Point) (*gg.Context, error) {
	if s.Size < 1 || s.Extent <= 0 {
		return nil, errors.Errorf("cannot draw a %d pixel snapshot spanning %.3f m", s.Size, s.Extent)
	}
	colliding, err := scene.IsColliding(full)
	if err != nil {
		return nil, err
	}
	links, err := scene.Model().Geometries(full)
	if err != nil {
		return nil, err
	}

	dc := gg.NewContext(s.Size, s.Size)
	dc.SetColor(backgroundColor)
	dc.Clear()

	for _, g := range scene.Obstacles() {
		if err := s.drawGeometry(dc, g, obstacleColor); err != nil {
			return nil, err
		}
	}
	linkColor := freeLinkColor
	if colliding {
		linkColor = hitLinkColor
	}
	for _, g := range links {
		if err := s.drawGeometry(dc, g, linkColor); err != nil {
			return nil, err
		}
	}

	// base and target markers
	dc.SetColor(color.Black)
	bx, by := s.project(r3.Vector{})
	dc.DrawCircle(bx, by, 4)
	dc.Fill()
	tx, ty := s.project(r3.Vector{X: target.X, Z: target.Y})
	dc.SetColor(targetColor)
	dc.SetLineWidth(2)
	dc.DrawLine(tx-6, ty-6, tx+6, ty+6)
	dc.DrawLine(tx-6, ty+6, tx+6, ty-6)
	dc.Stroke()
	return dc, nil
}

// drawGeometry draws the shadow of g: a stroke as wide as the geometry along its core segment, with round caps.
func (s Snapshot) drawGeometry(dc *gg.Context, g spatialmath.Geometry, c color.Color) error {
	a, b, radius, err := spatialmath.Core(g)
	if err != nil {
		return errors.Wrapf(err, "cannot draw %q", g.Label())
	}
	ax, ay := s.project(a)
	bx, by := s.project(b)
	dc.SetColor(c)
	if ax == bx && ay == by {
		dc.DrawCircle(ax, ay, radius*s.scale())
		dc.Fill()
		return nil
	}
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineWidth(2 * radius * s.scale())
	dc.DrawLine(ax, ay, bx, by)
	dc.Stroke()
	return nil
}

// Save draws the snapshot and writes it to path as PNG.
func (s Snapshot) Save(path string, scene *collision.Scene, full []referenceframe.Input, target r2.Point) error {
	dc, err := s.Draw(scene, full, target)
	if err != nil {
		return err
	}
	return errors.Wrapf(dc.SavePNG(path), "cannot save snapshot to %s", path)
}
