package quotes

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-day form used by bar dates.
const DateLayout = "2006-01-02"

// ErrInvalidBar reports a bar whose low/high do not bracket its open and close.
var ErrInvalidBar = errors.New("invalid price bar")

// PriceBar is one trading day: open, high, low and close.
type PriceBar struct {
	Date  string          `json:"date"`
	Open  decimal.Decimal `json:"open"`
	High  decimal.Decimal `json:"high"`
	Low   decimal.Decimal `json:"low"`
	Close decimal.Decimal `json:"close"`
}

// NewBar builds a bar from float prices, mostly for literals and tests.
func NewBar(date string, open, high, low, close float64) PriceBar {
	return PriceBar{
		Date:  date,
		Open:  decimal.NewFromFloat(open),
		High:  decimal.NewFromFloat(high),
		Low:   decimal.NewFromFloat(low),
		Close: decimal.NewFromFloat(close),
	}
}

// Bullish reports close >= open.
func (b PriceBar) Bullish() bool {
	return b.Close.GreaterThanOrEqual(b.Open)
}

// Validate checks low <= open, close <= high.
func (b PriceBar) Validate() error {
	bodyLow := decimal.Min(b.Open, b.Close)
	bodyHigh := decimal.Max(b.Open, b.Close)
	if b.Low.GreaterThan(bodyLow) || b.High.LessThan(bodyHigh) {
		return fmt.Errorf("%w: %s low=%s open=%s close=%s high=%s",
			ErrInvalidBar, b.Date, b.Low, b.Open, b.Close, b.High)
	}
	return nil
}

// ParseError is returned when a bar date is not a YYYY-MM-DD calendar day.
type ParseError struct {
	Index int // position in the input slice, -1 when parsing a lone value
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("bar %d: invalid date %q: %v", e.Index, e.Value, e.Err)
	}
	return fmt.Sprintf("invalid date %q: %v", e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseDate parses a YYYY-MM-DD string into midnight of that day in loc (time.Local when nil).
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout, value, loc)
	if err != nil {
		return time.Time{}, &ParseError{Index: -1, Value: value, Err: err}
	}
	return t, nil
}

// Candle is a validated bar with its parsed day.
type Candle struct {
	Time  time.Time
	Open  float64
	High  float64
	Low   float64
	Close float64
}

// Bullish reports close >= open.
func (c Candle) Bullish() bool {
	return c.Close >= c.Open
}

// ToCandles validates every bar, parses its date in loc and returns the candles
// sorted oldest first. Input order does not matter.
func ToCandles(bars []PriceBar, loc *time.Location) ([]Candle, error) {
	candles := make([]Candle, 0, len(bars))
	for i, bar := range bars {
		t, err := ParseDate(bar.Date, loc)
		if err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				pe.Index = i
			}
			return nil, err
		}
		if err := bar.Validate(); err != nil {
			return nil, fmt.Errorf("bar %d: %w", i, err)
		}
		candles = append(candles, Candle{
			Time:  t,
			Open:  bar.Open.InexactFloat64(),
			High:  bar.High.InexactFloat64(),
			Low:   bar.Low.InexactFloat64(),
			Close: bar.Close.InexactFloat64(),
		})
	}

	sort.SliceStable(candles, func(i, j int) bool {
		return candles[i].Time.Before(candles[j].Time)
	})
	return candles, nil
}
