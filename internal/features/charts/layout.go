package charts

import (
	"fmt"
	"math"
	"time"
)

// layout maps prices and days onto the plot area.
type layout struct {
	left, right, top, bottom float64
	captionBaseline          float64

	xr     ChartRange
	vr     ValueRange
	xTicks []time.Time
	yTicks []float64
}

func newLayout(opts Options, xr ChartRange) (*layout, error) {
	top := 10.0
	l := &layout{xr: xr, vr: opts.ValueRange}
	if opts.Title != "" {
		l.captionBaseline = opts.TitleSize
		top = opts.TitleSize + 10
	}

	l.left = float64(opts.LabelArea)
	l.right = float64(opts.Width) - rightMargin
	l.top = top
	l.bottom = float64(opts.Height - opts.LabelArea)
	if l.right <= l.left || l.bottom <= l.top {
		return nil, fmt.Errorf("no room for the plot area in a %dx%d canvas with %dpx label areas",
			opts.Width, opts.Height, opts.LabelArea)
	}
	if !xr.To.After(xr.From) {
		return nil, fmt.Errorf("empty time range %s..%s", xr.From, xr.To)
	}

	l.yTicks = valueTicks(opts.ValueRange, maxYTicks)
	l.xTicks = dayTicks(xr, maxXTicks)
	return l, nil
}

func (l *layout) x(t time.Time) float64 {
	span := float64(l.xr.To.Sub(l.xr.From))
	return l.left + float64(t.Sub(l.xr.From))/span*(l.right-l.left)
}

// y clamps v into the value range so out-of-range prices stay inside the plot.
func (l *layout) y(v float64) float64 {
	v = math.Max(l.vr.Min, math.Min(l.vr.Max, v))
	return l.bottom - (v-l.vr.Min)/(l.vr.Max-l.vr.Min)*(l.bottom-l.top)
}

// niceStep rounds span/maxTicks up to 1, 2 or 5 times a power of ten.
func niceStep(span float64, maxTicks int) float64 {
	raw := span / float64(maxTicks)
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	for _, m := range []float64{1, 2, 5, 10} {
		if m*mag >= raw {
			return m * mag
		}
	}
	return 10 * mag
}

func valueTicks(vr ValueRange, maxTicks int) []float64 {
	step := niceStep(vr.Max-vr.Min, maxTicks)
	first := math.Ceil(vr.Min/step) * step
	eps := step / 1e6
	// decimals needed by step; rounding to them drops float noise such as 0.6000000000000001
	scale := math.Pow(10, math.Max(0, -math.Floor(math.Log10(step))))

	var ticks []float64
	for i := 0; ; i++ {
		v := first + float64(i)*step
		if v > vr.Max+eps {
			break
		}
		ticks = append(ticks, math.Round(v*scale)/scale)
	}
	return ticks
}

func dayTicks(xr ChartRange, maxTicks int) []time.Time {
	days := int(math.Round(xr.To.Sub(xr.From).Hours() / 24))
	if days < 1 {
		days = 1
	}

	step := 0
	for _, candidate := range []int{1, 2, 7, 14, 28} {
		if days/candidate <= maxTicks {
			step = candidate
			break
		}
	}
	if step == 0 {
		step = int(math.Ceil(float64(days) / float64(maxTicks)))
	}

	var ticks []time.Time
	for t := xr.From; !t.After(xr.To); t = t.AddDate(0, 0, step) {
		ticks = append(ticks, t)
	}
	return ticks
}
