package survey

import (
	"bufio"
	"image/color"
	"math"
	"os"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const (
	plotWidth  = 6 * vg.Inch
	plotHeight = 9 * vg.Inch
	glyphSize  = 2
)

// PlotScatter renders the survey as two scatter panels over (q1, q2), stacked vertically: the first colored by the
// distance to the target, the second by the feasibility margin. Colliding samples are drawn at the threshold value in
// the margin panel so the free margins keep the low end of the color scale.
func PlotScatter(samples []Sample, threshold float64, filename string) error {
	if len(samples) == 0 {
		return errors.New("cannot plot an empty survey")
	}
	costs := lo.Map(samples, func(s Sample, _ int) float64 { return s.Cost })
	margins := lo.Map(samples, func(s Sample, _ int) float64 {
		if s.Colliding {
			return threshold
		}
		return s.Margin
	})

	costPlot, err := scatterPlot(samples, costs, "Distance to the target")
	if err != nil {
		return err
	}
	marginPlot, err := scatterPlot(samples, margins, "Distance to the obstacles")
	if err != nil {
		return err
	}

	img := vgimg.NewWith(vgimg.UseWH(plotWidth, plotHeight), vgimg.UseDPI(150))
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: 2,
		Cols: 1,
		PadX: vg.Millimeter,
		PadY: 4 * vg.Millimeter,
	}
	plots := [][]*plot.Plot{{costPlot}, {marginPlot}}
	canvases := plot.Align(plots, tiles, dc)
	for i, row := range plots {
		for j, p := range row {
			p.Draw(canvases[i][j])
		}
	}

	//nolint:gosec
	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "cannot create png")
	}
	bw := bufio.NewWriter(f)
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(bw); err != nil {
		errClose := f.Close()
		return errors.Wrapf(err, "cannot write png (close: %v)", errClose)
	}
	if err := bw.Flush(); err != nil {
		errClose := f.Close()
		return errors.Wrapf(err, "cannot write png (close: %v)", errClose)
	}
	return f.Close()
}

func scatterPlot(samples []Sample, values []float64, title string) (*plot.Plot, error) {
	pts := make(plotter.XYs, len(samples))
	for i, s := range samples {
		pts[i].X = s.Q[0]
		pts[i].Y = s.Q[1]
	}
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, err
	}

	colors := moreland.SmoothBlueRed()
	lower, upper := minMax(values)
	colors.SetMin(lower)
	colors.SetMax(upper)
	scatter.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		var c color.Color = color.Black
		if col, err := colors.At(values[i]); err == nil {
			c = col
		}
		return draw.GlyphStyle{Color: c, Radius: vg.Length(glyphSize), Shape: draw.CircleGlyph{}}
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "q1 (rad)"
	p.Y.Label.Text = "q2 (rad)"
	p.Add(scatter)
	return p, nil
}

// minMax returns the range of the finite values, widened when they are all the same so a color map can span it.
func minMax(values []float64) (float64, float64) {
	lower, upper := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			continue
		}
		lower = min(lower, v)
		upper = max(upper, v)
	}
	if math.IsInf(lower, 1) {
		return 0, 1
	}
	if lower == upper {
		upper = lower + 1
	}
	return lower, upper
}
