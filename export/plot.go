package export

import (
	"image/color"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"go.viam.com/se3interp/trajectory"
)

var axisColors = []color.Color{
	color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
	color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
	color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
}

// NewTranslationPlot plots the x, y and z translation of the samples against time.
func NewTranslationPlot(title string, samples []trajectory.Sample) (*plot.Plot, error) {
	if len(samples) == 0 {
		return nil, errors.New("no samples to plot")
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = "Position"

	axes := make([]plotter.XYs, 3)
	for i := range axes {
		axes[i] = make(plotter.XYs, 0, len(samples))
	}
	for _, s := range samples {
		pt := s.Pose.Point()
		axes[0] = append(axes[0], plotter.XY{X: s.Time, Y: pt.X})
		axes[1] = append(axes[1], plotter.XY{X: s.Time, Y: pt.Y})
		axes[2] = append(axes[2], plotter.XY{X: s.Time, Y: pt.Z})
	}
	for i, label := range []string{"x", "y", "z"} {
		line, err := plotter.NewLine(axes[i])
		if err != nil {
			return nil, err
		}
		line.Color = axisColors[i]
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(label, line)
	}
	p.Legend.Top = true
	p.Legend.Left = false
	p.Add(plotter.NewGrid())
	return p, nil
}

// SavePlot writes the translation plot of the samples to path. The image format is taken from
// the file extension.
func SavePlot(path, title string, samples []trajectory.Sample) error {
	p, err := NewTranslationPlot(title, samples)
	if err != nil {
		return err
	}
	return p.Save(10*vg.Inch, 4*vg.Inch, path)
}
