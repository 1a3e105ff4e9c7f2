package charts

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
)

// svgSurface buffers the document; svgo ignores writer errors, so they can only
// surface when the buffer is copied out in Encode.
type svgSurface struct {
	buf    bytes.Buffer
	canvas *svg.SVG
	width  int
	height int
	done   bool
}

func newSVGSurface(width, height int) *svgSurface {
	s := &svgSurface{width: width, height: height}
	s.canvas = svg.New(&s.buf)
	s.canvas.Start(width, height)
	return s
}

func px(v float64) int {
	return int(math.Round(v))
}

func (s *svgSurface) Fill(c color.RGBA) {
	s.canvas.Rect(0, 0, s.width, s.height, "fill:"+cssColor(c))
}

func (s *svgSurface) FillRect(x, y, w, h float64, c color.RGBA) {
	s.canvas.Rect(px(x), px(y), px(w), px(h), "fill:"+cssColor(c))
}

func (s *svgSurface) StrokeRect(x, y, w, h float64, c color.RGBA, width float64) {
	s.canvas.Rect(px(x), px(y), px(w), px(h),
		fmt.Sprintf("fill:none;stroke:%s;stroke-width:%g", cssColor(c), width))
}

func (s *svgSurface) Line(x1, y1, x2, y2 float64, c color.RGBA, width float64) {
	s.canvas.Line(px(x1), px(y1), px(x2), px(y2),
		fmt.Sprintf("stroke:%s;stroke-width:%g", cssColor(c), width))
}

func (s *svgSurface) Text(x, y float64, text string, size float64, anchor textAnchor, c color.RGBA) {
	align := "start"
	switch anchor {
	case anchorMiddle:
		align = "middle"
	case anchorEnd:
		align = "end"
	}
	s.canvas.Text(px(x), px(y), text,
		fmt.Sprintf("font-family:sans-serif;font-size:%gpx;text-anchor:%s;fill:%s", size, align, cssColor(c)))
}

func (s *svgSurface) BeginMark(class string) {
	s.canvas.Group(fmt.Sprintf(`class="%s"`, class))
}

func (s *svgSurface) EndMark() {
	s.canvas.Gend()
}

func (s *svgSurface) Encode(w io.Writer) error {
	if s.done {
		return errors.New("svg surface already encoded")
	}
	s.done = true
	s.canvas.End()

	if _, err := w.Write(s.buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write svg: %w", err)
	}
	return nil
}
