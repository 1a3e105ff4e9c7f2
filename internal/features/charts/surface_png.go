package charts

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"sync"

	logging "dtimelog/internal/infra/log"

	"github.com/fogleman/gg"
	"go.uber.org/zap"
)

// fontPaths are tried in order for PNG text; gg's built-in 7x13 face is the fallback.
var fontPaths = []string{
	"etc/fonts/Inter-Regular.ttf",
	"./etc/fonts/Inter-Regular.ttf",
	"~/Library/Fonts/Inter-Regular.ttf",
	"/Library/Fonts/Arial.ttf",
	"/System/Library/Fonts/Supplemental/Arial.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
	"/usr/share/fonts/TTF/DejaVuSans.ttf",
	"C:\\Windows\\Fonts\\arial.ttf",
}

var (
	fontOnce sync.Once
	fontPath string
)

func expandHome(path string) string {
	if len(path) > 0 && path[0] == '~' {
		if homeDir, err := os.UserHomeDir(); err == nil {
			return filepath.Join(homeDir, path[1:])
		}
	}
	return path
}

// findFont returns the first readable font file, or "" when none is installed.
func findFont() string {
	fontOnce.Do(func() {
		for _, candidate := range fontPaths {
			expanded := expandHome(candidate)
			if _, err := os.Stat(expanded); err == nil {
				fontPath = expanded
				logging.LogDebug("Chart font found", zap.String("path", expanded))
				return
			}
		}
		logging.LogWarn("No TrueType font found, PNG text uses the built-in face",
			zap.Int("paths_checked", len(fontPaths)))
	})
	return fontPath
}

type pngSurface struct {
	dc       *gg.Context
	fontPath string
	fontSize float64
	done     bool
}

func newPNGSurface(width, height int) *pngSurface {
	return &pngSurface{
		dc:       gg.NewContext(width, height),
		fontPath: findFont(),
	}
}

func (s *pngSurface) Fill(c color.RGBA) {
	s.dc.SetColor(c)
	s.dc.Clear()
}

func (s *pngSurface) FillRect(x, y, w, h float64, c color.RGBA) {
	s.dc.SetColor(c)
	s.dc.DrawRectangle(x, y, w, h)
	s.dc.Fill()
}

func (s *pngSurface) StrokeRect(x, y, w, h float64, c color.RGBA, width float64) {
	s.dc.SetColor(c)
	s.dc.SetLineWidth(width)
	s.dc.DrawRectangle(x, y, w, h)
	s.dc.Stroke()
}

func (s *pngSurface) Line(x1, y1, x2, y2 float64, c color.RGBA, width float64) {
	s.dc.SetColor(c)
	s.dc.SetLineWidth(width)
	s.dc.DrawLine(x1, y1, x2, y2)
	s.dc.Stroke()
}

func (s *pngSurface) Text(x, y float64, text string, size float64, anchor textAnchor, c color.RGBA) {
	if s.fontPath != "" && size != s.fontSize {
		if err := s.dc.LoadFontFace(s.fontPath, size); err != nil {
			logging.LogWarn("Font file exists but failed to load",
				zap.String("path", s.fontPath), zap.Error(err))
			s.fontPath = ""
		} else {
			s.fontSize = size
		}
	}

	ax := 0.0
	switch anchor {
	case anchorMiddle:
		ax = 0.5
	case anchorEnd:
		ax = 1
	}
	s.dc.SetColor(c)
	// y is the baseline, as in SVG
	s.dc.DrawStringAnchored(text, x, y, ax, 0)
}

func (s *pngSurface) BeginMark(string) {}

func (s *pngSurface) EndMark() {}

func (s *pngSurface) Encode(w io.Writer) error {
	if s.done {
		return errors.New("png surface already encoded")
	}
	s.done = true
	if err := s.dc.EncodePNG(w); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}
