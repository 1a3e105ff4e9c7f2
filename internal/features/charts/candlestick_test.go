package charts

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"dtimelog/internal/features/quotes"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOptions(t *testing.T, name string) Options {
	t.Helper()
	opts := DefaultOptions()
	opts.OutputPath = filepath.Join(t.TempDir(), name)
	opts.Location = time.UTC
	return opts
}

func day(s string) time.Time {
	t, err := time.ParseInLocation(quotes.DateLayout, s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func TestAxisRange_SampleData(t *testing.T) {
	candles, err := quotes.ToCandles(quotes.SampleBars(), time.UTC)
	require.NoError(t, err)

	xr, err := AxisRange(candles)
	require.NoError(t, err)
	assert.Equal(t, "2019-03-13", xr.From.Format(quotes.DateLayout))
	assert.Equal(t, "2019-04-26", xr.To.Format(quotes.DateLayout))
}

func TestAxisRange_Empty(t *testing.T) {
	_, err := AxisRange(nil)
	assert.ErrorIs(t, err, ErrNoBars)
}

func TestAxisRange_AcrossDSTStaysOnMidnight(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata not available: %v", err)
	}
	// 2019-03-10 is the spring-forward day in New York.
	candles, err := quotes.ToCandles([]quotes.PriceBar{
		quotes.NewBar("2019-03-11", 1, 2, 1, 2),
		quotes.NewBar("2019-03-09", 1, 2, 1, 2),
	}, loc)
	require.NoError(t, err)

	xr, err := AxisRange(candles)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2019, time.March, 8, 0, 0, 0, 0, loc), xr.From)
	assert.Equal(t, time.Date(2019, time.March, 12, 0, 0, 0, 0, loc), xr.To)
}

func TestRenderCandlesticks_SampleSVG(t *testing.T) {
	opts := sampleOptions(t, "stock.svg")

	res, err := RenderCandlesticks(opts)
	require.NoError(t, err)

	assert.Equal(t, opts.OutputPath, res.Path)
	assert.Equal(t, FormatSVG, res.Format)
	assert.Equal(t, 30, res.Marks)
	assert.Positive(t, res.Bytes)
	assert.Equal(t, day("2019-03-13"), res.Range.From)
	assert.Equal(t, day("2019-04-26"), res.Range.To)

	data, err := os.ReadFile(opts.OutputPath)
	require.NoError(t, err)
	doc := string(data)

	assert.EqualValues(t, len(data), res.Bytes)
	assert.Contains(t, doc, `width="1024"`)
	assert.Contains(t, doc, `height="768"`)
	assert.Contains(t, doc, "MSFT Stock Price")
	assert.Contains(t, doc, "2019-03-13")
	assert.Equal(t, 30, strings.Count(doc, `class="candle `))

	var bullish, bearish int
	for _, bar := range quotes.SampleBars() {
		if bar.Bullish() {
			bullish++
		} else {
			bearish++
		}
	}
	assert.Equal(t, bullish, strings.Count(doc, `class="candle bullish"`))
	assert.Equal(t, bearish, strings.Count(doc, `class="candle bearish"`))
	assert.True(t, strings.HasSuffix(strings.TrimSpace(doc), "</svg>"))
}

func TestRenderCandlesticks_PNG(t *testing.T) {
	opts := sampleOptions(t, "stock.png")

	res, err := RenderCandlesticks(opts)
	require.NoError(t, err)
	assert.Equal(t, FormatPNG, res.Format)
	assert.Equal(t, 30, res.Marks)

	data, err := os.ReadFile(opts.OutputPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")))
}

func TestRenderCandlesticks_ExplicitFormatOverridesExtension(t *testing.T) {
	opts := sampleOptions(t, "chart.out")
	opts.Format = FormatPNG

	res, err := RenderCandlesticks(opts)
	require.NoError(t, err)
	assert.Equal(t, FormatPNG, res.Format)
}

func TestRenderCandlesticks_InputOrderDoesNotMatter(t *testing.T) {
	bars := quotes.SampleBars()
	reversed := make([]quotes.PriceBar, len(bars))
	for i, bar := range bars {
		reversed[len(bars)-1-i] = bar
	}

	opts := sampleOptions(t, "asc.svg")
	opts.Bars = reversed
	res, err := RenderCandlesticks(opts)
	require.NoError(t, err)

	assert.Equal(t, day("2019-03-13"), res.Range.From)
	assert.Equal(t, day("2019-04-26"), res.Range.To)
	assert.Equal(t, 30, res.Marks)
}

func TestRenderCandlesticks_EmptyBars(t *testing.T) {
	opts := sampleOptions(t, "empty.svg")
	opts.Bars = nil

	_, err := RenderCandlesticks(opts)
	assert.ErrorIs(t, err, ErrNoBars)
	assert.NoFileExists(t, opts.OutputPath)
}

func TestRenderCandlesticks_MalformedDate(t *testing.T) {
	opts := sampleOptions(t, "bad.svg")
	opts.Bars = quotes.SampleBars()
	opts.Bars[3].Date = "2019-13-40"

	_, err := RenderCandlesticks(opts)
	var pe *quotes.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 3, pe.Index)
	assert.NoFileExists(t, opts.OutputPath)

	entries, err := os.ReadDir(filepath.Dir(opts.OutputPath))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRenderCandlesticks_InvalidBar(t *testing.T) {
	opts := sampleOptions(t, "invalid.svg")
	opts.Bars = []quotes.PriceBar{quotes.NewBar("2019-04-25", 130, 129, 128, 129.5)}

	_, err := RenderCandlesticks(opts)
	assert.ErrorIs(t, err, quotes.ErrInvalidBar)
	assert.NoFileExists(t, opts.OutputPath)
}

func TestRenderCandlesticks_InvalidValueRange(t *testing.T) {
	tests := []struct {
		name string
		vr   ValueRange
	}{
		{"inverted", ValueRange{Min: 135, Max: 110}},
		{"empty", ValueRange{Min: 120, Max: 120}},
		{"NaN min", ValueRange{Min: math.NaN(), Max: 135}},
		{"infinite max", ValueRange{Min: 110, Max: math.Inf(1)}},
		{"infinite min", ValueRange{Min: math.Inf(-1), Max: 135}},
		{"span overflows", ValueRange{Min: -1e308, Max: 1e308}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := sampleOptions(t, "range.svg")
			opts.ValueRange = tt.vr

			done := make(chan error, 1)
			go func() {
				_, err := RenderCandlesticks(opts)
				done <- err
			}()

			select {
			case err := <-done:
				assert.ErrorIs(t, err, ErrInvalidRange)
			case <-time.After(5 * time.Second):
				t.Fatalf("RenderCandlesticks(%v) did not return", tt.vr)
			}
			assert.NoFileExists(t, opts.OutputPath)
		})
	}
}

func TestRenderCandlesticks_SurfaceErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Options)
	}{
		{"unknown format", func(o *Options) { o.Format = "gif" }},
		{"negative size", func(o *Options) { o.Width = -10 }},
		{"label area larger than canvas", func(o *Options) { o.Width, o.Height, o.LabelArea = 60, 60, 40 }},
		{"negative candle width", func(o *Options) { o.CandleWidth = -15 }},
		{"negative label area", func(o *Options) { o.LabelArea = -40 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := sampleOptions(t, "surface.svg")
			tt.modify(&opts)

			_, err := RenderCandlesticks(opts)
			var re *RenderError
			require.ErrorAs(t, err, &re)
			assert.Equal(t, StageSurface, re.Stage)
			assert.NoFileExists(t, opts.OutputPath)
		})
	}
}

func TestRenderCandlesticks_FinalizeError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	opts := DefaultOptions()
	opts.Location = time.UTC
	opts.OutputPath = filepath.Join(blocker, "stock.svg")

	_, err := RenderCandlesticks(opts)
	var re *RenderError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, StageFinalize, re.Stage)
	assert.Equal(t, opts.OutputPath, re.Path)
}

func TestRenderCandlesticks_OverwritesExisting(t *testing.T) {
	opts := sampleOptions(t, "stock.svg")
	require.NoError(t, os.WriteFile(opts.OutputPath, []byte("old"), 0644))

	_, err := RenderCandlesticks(opts)
	require.NoError(t, err)

	data, err := os.ReadFile(opts.OutputPath)
	require.NoError(t, err)
	assert.NotEqual(t, "old", string(data))
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		format  Format
		path    string
		want    Format
		wantErr bool
	}{
		{"", "stock.svg", FormatSVG, false},
		{"", "stock.PNG", FormatPNG, false},
		{"", "stock", FormatSVG, false},
		{"SVG", "stock.png", FormatSVG, false},
		{"png", "stock.svg", FormatPNG, false},
		{"jpeg", "stock.jpg", "", true},
	}

	for _, tt := range tests {
		got, err := ResolveFormat(tt.format, tt.path)
		if tt.wantErr {
			assert.Error(t, err, "%s %s", tt.format, tt.path)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s %s", tt.format, tt.path)
	}
}

func TestSurfaceEncodeOnce(t *testing.T) {
	for _, format := range []Format{FormatSVG, FormatPNG} {
		s, err := newSurface(format, 10, 10)
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, s.Encode(&buf))
		assert.Error(t, s.Encode(&buf), string(format))
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestSurfaceEncode_WriterError(t *testing.T) {
	for _, format := range []Format{FormatSVG, FormatPNG} {
		s, err := newSurface(format, 10, 10)
		require.NoError(t, err)
		assert.Error(t, s.Encode(failingWriter{}), string(format))
	}
}
