package charts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueTicks(t *testing.T) {
	assert.Equal(t, []float64{110, 115, 120, 125, 130, 135}, valueTicks(ValueRange{Min: 110, Max: 135}, 10))
	assert.Equal(t, []float64{0, 0.2, 0.4, 0.6, 0.8, 1}, valueTicks(ValueRange{Min: 0, Max: 1}, 5))
	assert.Equal(t, []float64{20, 40, 60, 80}, valueTicks(ValueRange{Min: 13, Max: 87}, 5))
}

func TestNiceStep(t *testing.T) {
	assert.InDelta(t, 5, niceStep(25, 10), 1e-12)
	assert.InDelta(t, 0.2, niceStep(1, 5), 1e-12)
	assert.InDelta(t, 1, niceStep(10, 10), 1e-12)
	assert.InDelta(t, 10, niceStep(70, 10), 1e-12)
}

func TestDayTicks_Weekly(t *testing.T) {
	xr := ChartRange{From: day("2019-03-13"), To: day("2019-04-26")}

	ticks := dayTicks(xr, 10)
	require.Len(t, ticks, 7)
	assert.Equal(t, day("2019-03-13"), ticks[0])
	assert.Equal(t, day("2019-03-20"), ticks[1])
	assert.Equal(t, day("2019-04-24"), ticks[6])
}

func TestDayTicks_Short(t *testing.T) {
	xr := ChartRange{From: day("2019-03-13"), To: day("2019-03-15")}
	assert.Len(t, dayTicks(xr, 10), 3)
}

func TestLayout_Mapping(t *testing.T) {
	opts := DefaultOptions()
	xr := ChartRange{From: day("2019-03-13"), To: day("2019-04-26")}

	l, err := newLayout(opts, xr)
	require.NoError(t, err)

	assert.InDelta(t, l.left, l.x(xr.From), 1e-9)
	assert.InDelta(t, l.right, l.x(xr.To), 1e-9)
	assert.InDelta(t, l.bottom, l.y(110), 1e-9)
	assert.InDelta(t, l.top, l.y(135), 1e-9)

	// out of range prices are clamped
	assert.InDelta(t, l.top, l.y(500), 1e-9)
	assert.InDelta(t, l.bottom, l.y(-1), 1e-9)

	mid := xr.From.Add(xr.To.Sub(xr.From) / 2)
	assert.InDelta(t, (l.left+l.right)/2, l.x(mid), 1e-9)
}

func TestLayout_NoTitleUsesTopMargin(t *testing.T) {
	opts := DefaultOptions()
	opts.Title = ""
	xr := ChartRange{From: day("2019-03-13"), To: day("2019-03-14")}

	l, err := newLayout(opts, xr)
	require.NoError(t, err)
	assert.Equal(t, 10.0, l.top)
}

func TestLayout_EmptyTimeRange(t *testing.T) {
	at := time.Date(2019, 3, 13, 0, 0, 0, 0, time.UTC)
	_, err := newLayout(DefaultOptions(), ChartRange{From: at, To: at})
	assert.Error(t, err)
}
