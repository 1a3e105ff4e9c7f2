package charts

import (
	"fmt"
	"image/color"
	"io"
)

// Format is the encoding of the output file.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

type textAnchor int

const (
	anchorStart textAnchor = iota
	anchorMiddle
	anchorEnd
)

// surface is the drawing target shared by the vector and raster backends.
// Coordinates are pixels from the top-left corner.
type surface interface {
	Fill(c color.RGBA)
	FillRect(x, y, w, h float64, c color.RGBA)
	StrokeRect(x, y, w, h float64, c color.RGBA, width float64)
	Line(x1, y1, x2, y2 float64, c color.RGBA, width float64)
	Text(x, y float64, text string, size float64, anchor textAnchor, c color.RGBA)

	// BeginMark/EndMark bracket the shapes of one candlestick.
	BeginMark(class string)
	EndMark()

	// Encode finalizes the surface. It may be called once.
	Encode(w io.Writer) error
}

func newSurface(format Format, width, height int) (surface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("canvas size %dx%d must be positive", width, height)
	}
	switch format {
	case FormatSVG:
		return newSVGSurface(width, height), nil
	case FormatPNG:
		return newPNGSurface(width, height), nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

func cssColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
