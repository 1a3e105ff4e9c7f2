package charts

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"math"
	"path/filepath"
	"strings"
	"time"

	"dtimelog/internal/features/quotes"
	"dtimelog/internal/infra/fs"
	logging "dtimelog/internal/infra/log"

	"go.uber.org/zap"
)

const (
	defaultWidth       = 1024
	defaultHeight      = 768
	defaultLabelArea   = 40
	defaultCandleWidth = 15
	defaultTitleSize   = 50.0

	labelFontSize = 12.0
	tickLength    = 5.0
	rightMargin   = 10.0
	maxXTicks     = 10
	maxYTicks     = 10
)

var (
	colorBackground = color.RGBA{255, 255, 255, 255}
	colorText       = color.RGBA{0, 0, 0, 255}
	colorAxis       = color.RGBA{0, 0, 0, 255}
	colorGrid       = color.RGBA{204, 204, 204, 255}
	colorBullish    = color.RGBA{0, 255, 0, 255}
	colorBearish    = color.RGBA{255, 0, 0, 255}
)

var (
	// ErrNoBars is returned when there is nothing to plot.
	ErrNoBars = errors.New("no price bars to render")
	// ErrInvalidRange is returned when the value range is empty or inverted.
	ErrInvalidRange = errors.New("invalid value range")
)

// Render stages reported by RenderError.
const (
	StageSurface  = "surface"
	StageFinalize = "finalize"
)

// RenderError is a failure to build the drawing surface or to write it out.
type RenderError struct {
	Stage string
	Path  string
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s (%s): %v", e.Stage, e.Path, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// ValueRange bounds the price axis.
type ValueRange struct {
	Min float64
	Max float64
}

// ChartRange bounds the time axis.
type ChartRange struct {
	From time.Time
	To   time.Time
}

// Options describes one chart. Zero values fall back to DefaultOptions, except Bars and
// Title (an empty title leaves out the caption).
type Options struct {
	Bars        []quotes.PriceBar
	Title       string
	TitleSize   float64
	Width       int
	Height      int
	LabelArea   int
	CandleWidth int
	ValueRange  ValueRange
	OutputPath  string
	Format      Format         // empty: taken from the OutputPath extension
	Location    *time.Location // day boundaries for bar dates; nil means time.Local
}

// DefaultOptions renders the MSFT sample to stock.svg.
func DefaultOptions() Options {
	return Options{
		Bars:        quotes.SampleBars(),
		Title:       "MSFT Stock Price",
		TitleSize:   defaultTitleSize,
		Width:       defaultWidth,
		Height:      defaultHeight,
		LabelArea:   defaultLabelArea,
		CandleWidth: defaultCandleWidth,
		ValueRange:  ValueRange{Min: 110, Max: 135},
		OutputPath:  "stock.svg",
		Location:    time.Local,
	}
}

// Result describes a written chart.
type Result struct {
	Path   string
	Format Format
	Marks  int
	Bytes  int64
	Range  ChartRange
}

// AxisRange returns one calendar day of padding around candles sorted oldest first.
func AxisRange(candles []quotes.Candle) (ChartRange, error) {
	if len(candles) == 0 {
		return ChartRange{}, ErrNoBars
	}
	return ChartRange{
		From: candles[0].Time.AddDate(0, 0, -1),
		To:   candles[len(candles)-1].Time.AddDate(0, 0, 1),
	}, nil
}

// ResolveFormat picks the explicit format, or derives it from the file extension (svg unless .png).
func ResolveFormat(format Format, path string) (Format, error) {
	switch f := Format(strings.ToLower(string(format))); f {
	case "":
		if strings.EqualFold(filepath.Ext(path), ".png") {
			return FormatPNG, nil
		}
		return FormatSVG, nil
	case FormatSVG, FormatPNG:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format %q", format)
	}
}

func (o *Options) applyDefaults() {
	d := DefaultOptions()
	if o.TitleSize <= 0 {
		o.TitleSize = d.TitleSize
	}
	if o.Width == 0 {
		o.Width = d.Width
	}
	if o.Height == 0 {
		o.Height = d.Height
	}
	if o.LabelArea == 0 {
		o.LabelArea = d.LabelArea
	}
	if o.CandleWidth == 0 {
		o.CandleWidth = d.CandleWidth
	}
	if o.ValueRange == (ValueRange{}) {
		o.ValueRange = d.ValueRange
	}
	if o.OutputPath == "" {
		o.OutputPath = d.OutputPath
	}
	if o.Location == nil {
		o.Location = time.Local
	}
}

// RenderCandlesticks draws one candlestick per bar and writes the chart to opts.OutputPath.
// Nothing is written unless every bar is valid and the whole image encodes.
func RenderCandlesticks(opts Options) (*Result, error) {
	start := time.Now()
	opts.applyDefaults()

	if len(opts.Bars) == 0 {
		return nil, ErrNoBars
	}
	vr := opts.ValueRange
	if !finite(vr.Min) || !finite(vr.Max) || !finite(vr.Max-vr.Min) || vr.Min >= vr.Max {
		return nil, fmt.Errorf("%w: min %v, max %v", ErrInvalidRange, vr.Min, vr.Max)
	}

	candles, err := quotes.ToCandles(opts.Bars, opts.Location)
	if err != nil {
		return nil, err
	}
	xr, err := AxisRange(candles)
	if err != nil {
		return nil, err
	}

	format, err := ResolveFormat(opts.Format, opts.OutputPath)
	if err != nil {
		return nil, &RenderError{Stage: StageSurface, Path: opts.OutputPath, Err: err}
	}

	if opts.CandleWidth < 0 || opts.LabelArea < 0 {
		return nil, &RenderError{Stage: StageSurface, Path: opts.OutputPath,
			Err: fmt.Errorf("candle width %d and label area %d must not be negative", opts.CandleWidth, opts.LabelArea)}
	}
	l, err := newLayout(opts, xr)
	if err != nil {
		return nil, &RenderError{Stage: StageSurface, Path: opts.OutputPath, Err: err}
	}
	s, err := newSurface(format, opts.Width, opts.Height)
	if err != nil {
		return nil, &RenderError{Stage: StageSurface, Path: opts.OutputPath, Err: err}
	}

	s.Fill(colorBackground)
	if opts.Title != "" {
		s.Text(float64(opts.Width)/2, l.captionBaseline, opts.Title, opts.TitleSize, anchorMiddle, colorText)
	}
	drawMesh(s, l)
	marks := drawCandles(s, l, candles, float64(opts.CandleWidth))

	var buf bytes.Buffer
	if err := s.Encode(&buf); err != nil {
		return nil, &RenderError{Stage: StageFinalize, Path: opts.OutputPath, Err: err}
	}
	if err := fs.WriteFileAtomic(opts.OutputPath, buf.Bytes(), 0644); err != nil {
		return nil, &RenderError{Stage: StageFinalize, Path: opts.OutputPath, Err: err}
	}
	size, err := fs.NonEmptySize(opts.OutputPath)
	if err != nil {
		logging.LogError("Chart file is empty after rendering", zap.String("filename", opts.OutputPath))
		return nil, &RenderError{Stage: StageFinalize, Path: opts.OutputPath, Err: err}
	}

	logging.LogInfo("Candlestick chart generated successfully",
		zap.String("filename", opts.OutputPath),
		zap.String("format", string(format)),
		zap.Int64("fileSize", size),
		zap.Int("barsCount", marks),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()))

	return &Result{
		Path:   opts.OutputPath,
		Format: format,
		Marks:  marks,
		Bytes:  size,
		Range:  xr,
	}, nil
}

func drawCandles(s surface, l *layout, candles []quotes.Candle, bodyWidth float64) int {
	marks := 0
	for _, c := range candles {
		x := l.x(c.Time)
		yHigh, yLow := l.y(c.High), l.y(c.Low)
		yTop, yBottom := l.y(math.Max(c.Open, c.Close)), l.y(math.Min(c.Open, c.Close))
		bodyHeight := math.Max(yBottom-yTop, 1)

		if c.Bullish() {
			s.BeginMark("candle bullish")
			s.Line(x, yHigh, x, yLow, colorBullish, 1)
			s.FillRect(x-bodyWidth/2, yTop, bodyWidth, bodyHeight, colorBullish)
		} else {
			s.BeginMark("candle bearish")
			s.Line(x, yHigh, x, yTop, colorBearish, 1)
			s.Line(x, yBottom, x, yLow, colorBearish, 1)
			s.StrokeRect(x-bodyWidth/2, yTop, bodyWidth, bodyHeight, colorBearish, 1)
		}
		s.EndMark()
		marks++
	}
	return marks
}

func drawMesh(s surface, l *layout) {
	for _, v := range l.yTicks {
		y := l.y(v)
		s.Line(l.left, y, l.right, y, colorGrid, 1)
		s.Line(l.left-tickLength, y, l.left, y, colorAxis, 1)
		s.Text(l.left-tickLength-2, y+labelFontSize/3, formatPrice(v), labelFontSize, anchorEnd, colorText)
	}
	for _, t := range l.xTicks {
		x := l.x(t)
		s.Line(x, l.top, x, l.bottom, colorGrid, 1)
		s.Line(x, l.bottom, x, l.bottom+tickLength, colorAxis, 1)
		s.Text(x, l.bottom+tickLength+labelFontSize+2, t.Format(quotes.DateLayout), labelFontSize, anchorMiddle, colorText)
	}
	s.Line(l.left, l.top, l.left, l.bottom, colorAxis, 1)
	s.Line(l.left, l.bottom, l.right, l.bottom, colorAxis, 1)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func formatPrice(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}
